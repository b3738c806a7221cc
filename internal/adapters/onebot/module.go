// Package onebot adapts OneBot v11 (QQ-compatible) connections: native event
// types, unified variants and the message handler.
package onebot

import (
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/loader"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/internal/platform"
)

// Module registers the OneBot v11 integration
type Module struct{}

func (Module) Name() string { return "onebot" }

func (Module) Platform() platform.Platform { return platform.OneBotV11 }

func (Module) Register(r *loader.Registrar) error {
	platform.Register[*Bot, API](r.Platforms, platform.OneBotV11)

	if err := event.Register(r.Events, NewMsgEvent); err != nil {
		return err
	}
	if err := event.Register(r.Events, NewGroupMsgEvent); err != nil {
		return err
	}
	if err := event.Register(r.Events, NewGroupNoticeEvent); err != nil {
		return err
	}

	message.Register[*Bot, Event, Message](r.Handlers, platform.OneBotV11, NewHandler())
	return nil
}
