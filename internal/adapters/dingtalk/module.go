// Package dingtalk adapts DingTalk robots driven by the stream SDK. Replies go
// through the per-callback session webhook, so every send needs an event.
package dingtalk

import (
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/loader"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/internal/platform"
	"github.com/open-dingtalk/dingtalk-stream-sdk-go/chatbot"
)

// Module registers the DingTalk integration. An empty VoicePlaceholder uses
// the default.
type Module struct {
	VoicePlaceholder string
}

func (Module) Name() string { return "dingtalk" }

func (Module) Platform() platform.Platform { return platform.DingTalk }

func (m Module) Register(r *loader.Registrar) error {
	platform.Register[*Bot, *chatbot.ChatbotReplier](r.Platforms, platform.DingTalk)

	if err := event.Register(r.Events, NewMsgEvent); err != nil {
		return err
	}
	if err := event.Register(r.Events, NewGroupMsgEvent); err != nil {
		return err
	}

	message.Register[*Bot, MessageEvent, Outgoing](r.Handlers, platform.DingTalk, NewHandler(m.VoicePlaceholder))
	return nil
}
