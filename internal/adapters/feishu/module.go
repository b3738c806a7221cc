// Package feishu adapts Feishu (Lark) through larksuite/oapi-sdk-go. Media is
// uploaded to the IM API before it can be referenced by key.
package feishu

import (
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/loader"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/internal/platform"
	lark "github.com/larksuite/oapi-sdk-go/v3"
)

// Module registers the Feishu integration
type Module struct{}

func (Module) Name() string { return "feishu" }

func (Module) Platform() platform.Platform { return platform.Feishu }

func (Module) Register(r *loader.Registrar) error {
	platform.Register[*Bot, *lark.Client](r.Platforms, platform.Feishu)

	if err := event.Register(r.Events, NewMsgEvent); err != nil {
		return err
	}
	if err := event.Register(r.Events, NewGroupMsgEvent); err != nil {
		return err
	}

	message.Register[*Bot, MessageEvent, Outgoing](r.Handlers, platform.Feishu, NewHandler(r.Fetcher))
	return nil
}
