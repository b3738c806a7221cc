// Package qq adapts the QQ open platform bot API: private (C2C) chats, group
// messages that mention the bot and guild channels.
package qq

import (
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/loader"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/internal/platform"
)

// Module registers the QQ integration
type Module struct {
	// VoicePlaceholder overrides the text sent in place of voice
	VoicePlaceholder string
}

func (Module) Name() string { return "qq" }

func (Module) Platform() platform.Platform { return platform.QQ }

func (m Module) Register(r *loader.Registrar) error {
	platform.Register[*Bot, API](r.Platforms, platform.QQ)

	if err := event.Register(r.Events, NewMsgEvent); err != nil {
		return err
	}
	if err := event.Register(r.Events, NewGroupMsgEvent); err != nil {
		return err
	}
	if err := event.Register(r.Events, NewGuildMsgEvent); err != nil {
		return err
	}

	message.Register[*Bot, MessageEvent, Message](r.Handlers, platform.QQ, NewHandler(m.VoicePlaceholder))
	return nil
}
