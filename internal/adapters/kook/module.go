// Package kook adapts KOOK (formerly Kaiheila). Outbound media is re-hosted
// as KOOK assets before a message referencing it is sent.
package kook

import (
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/loader"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/internal/platform"
)

// Module registers the KOOK integration
type Module struct{}

func (Module) Name() string { return "kook" }

func (Module) Platform() platform.Platform { return platform.KOOK }

func (Module) Register(r *loader.Registrar) error {
	platform.Register[*Bot, API](r.Platforms, platform.KOOK)

	if err := event.Register(r.Events, NewMsgEvent); err != nil {
		return err
	}
	if err := event.Register(r.Events, NewGroupMsgEvent); err != nil {
		return err
	}

	message.Register[*Bot, MessageEvent, Message](r.Handlers, platform.KOOK, NewHandler(r.Fetcher))
	return nil
}
