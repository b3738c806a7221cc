// Package qqguild adapts the legacy QQ guild bot API. Messages use the QQ
// segment format, so building is shared with package qq.
package qqguild

import (
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/loader"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/internal/platform"
)

// Module registers the QQ guild integration
type Module struct {
	VoicePlaceholder string
}

func (Module) Name() string { return "qqguild" }

func (Module) Platform() platform.Platform { return platform.QQGuild }

func (m Module) Register(r *loader.Registrar) error {
	platform.Register[*Bot, API](r.Platforms, platform.QQGuild)

	if err := event.Register(r.Events, NewMsgEvent); err != nil {
		return err
	}
	if err := event.Register(r.Events, NewGroupMsgEvent); err != nil {
		return err
	}

	message.Register[*Bot, MessageEvent, Message](r.Handlers, platform.QQGuild, NewHandler(m.VoicePlaceholder))
	return nil
}
