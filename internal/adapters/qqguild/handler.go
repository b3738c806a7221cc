package qqguild

import (
	"context"
	"fmt"

	"github.com/keepmind9/anybot/internal/adapters/qq"
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/pkg/constants"
)

// Handler builds and sends guild messages with the QQ segment builder
type Handler struct {
	voicePlaceholder string
}

func NewHandler(voicePlaceholder string) *Handler {
	if voicePlaceholder == "" {
		voicePlaceholder = constants.VoicePlaceholder
	}
	return &Handler{voicePlaceholder: voicePlaceholder}
}

func (h *Handler) Build(_ context.Context, _ *Bot, segs []message.Segment) ([]Message, error) {
	msg, err := qq.BuildMessage(segs, h.voicePlaceholder)
	if err != nil || len(msg) == 0 {
		return nil, err
	}
	return []Message{msg}, nil
}

func (h *Handler) Send(ctx context.Context, bot *Bot, ev MessageEvent, msg Message, opts message.SendOptions) (any, error) {
	if bot == nil {
		return nil, event.ErrNoBot
	}
	if ev == nil {
		return nil, fmt.Errorf("qq guild send needs a message event: %w", event.ErrNoEvent)
	}
	return bot.Send(ctx, ev, qq.Decorate(msg, ev, opts))
}
