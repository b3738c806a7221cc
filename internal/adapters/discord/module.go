// Package discord adapts Discord through bwmarrin/discordgo.
package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/loader"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/internal/platform"
)

// Module registers the Discord integration
type Module struct{}

func (Module) Name() string { return "discord" }

func (Module) Platform() platform.Platform { return platform.Discord }

func (Module) Register(r *loader.Registrar) error {
	platform.Register[*Bot, *discordgo.Session](r.Platforms, platform.Discord)

	if err := event.Register(r.Events, NewMsgEvent); err != nil {
		return err
	}
	if err := event.Register(r.Events, NewGroupMsgEvent); err != nil {
		return err
	}

	message.Register[*Bot, MessageEvent, *discordgo.MessageSend](r.Handlers, platform.Discord, NewHandler(r.Fetcher))
	return nil
}
