// Package telegram adapts the Telegram Bot API through go-telegram-bot-api.
// Outgoing text is HTML formatted.
package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/loader"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/internal/platform"
)

// Module registers the Telegram integration
type Module struct{}

func (Module) Name() string { return "telegram" }

func (Module) Platform() platform.Platform { return platform.Telegram }

func (Module) Register(r *loader.Registrar) error {
	platform.Register[*Bot, *tgbotapi.BotAPI](r.Platforms, platform.Telegram)

	if err := event.Register(r.Events, NewMsgEvent); err != nil {
		return err
	}
	if err := event.Register(r.Events, NewGroupMsgEvent); err != nil {
		return err
	}

	message.Register[*Bot, MessageEvent, Outgoing](r.Handlers, platform.Telegram, NewHandler())
	return nil
}
