package kook

import (
	"context"
	"fmt"

	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/message"
)

// Handler builds and sends KOOK messages. Media is always uploaded first:
// remote URLs are downloaded with the fetcher and re-hosted as assets.
type Handler struct {
	fetcher message.Fetcher
}

func NewHandler(fetcher message.Fetcher) *Handler {
	return &Handler{fetcher: fetcher}
}

func (h *Handler) Build(ctx context.Context, bot *Bot, segs []message.Segment) ([]Message, error) {
	var msg Message
	for _, s := range segs {
		switch s.Type {
		case message.TypeText:
			if n := len(msg); n > 0 && msg[n-1].Type == "text" {
				msg[n-1].Data["content"] += s.Data
			} else {
				msg = append(msg, TextSeg(s.Data))
			}
		case message.TypeAt:
			msg = append(msg, AtSeg(s.Data))
		case message.TypeImage:
			url, err := h.upload(ctx, bot, s.Media, ".png")
			if err != nil {
				return nil, err
			}
			msg = append(msg, ImageSeg(url))
		case message.TypeVoice:
			url, err := h.upload(ctx, bot, s.Media, ".mp3")
			if err != nil {
				return nil, err
			}
			msg = append(msg, AudioSeg(url))
		default:
			return nil, fmt.Errorf("%w: %s", message.ErrUnknownSegment, s.Type)
		}
	}
	if len(msg) == 0 {
		return nil, nil
	}
	return []Message{msg}, nil
}

func (h *Handler) upload(ctx context.Context, bot *Bot, m message.Media, ext string) (string, error) {
	if bot == nil {
		return "", event.ErrNoBot
	}
	data, err := m.Load(ctx, h.fetcher)
	if err != nil {
		return "", err
	}
	return bot.Upload(ctx, m.FileName(ext), data)
}

func (h *Handler) Send(ctx context.Context, bot *Bot, ev MessageEvent, msg Message, opts message.SendOptions) (any, error) {
	if bot == nil {
		return nil, event.ErrNoBot
	}
	if ev == nil {
		return nil, fmt.Errorf("kook send needs a message event: %w", event.ErrNoEvent)
	}
	if opts.At {
		msg = append(Message{AtSeg(ev.GetUserID()), TextSeg(" ")}, msg...)
	}
	return bot.Send(ctx, ev, msg, opts.Reply)
}
