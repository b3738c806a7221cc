package onebot

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"

	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/message"
)

// Handler builds and sends OneBot v11 messages.
//
// Voice must travel alone: a voice segment flushes the pending message and is
// sent as a message of its own.
type Handler struct{}

// NewHandler creates a Handler
func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Build(_ context.Context, _ *Bot, segs []message.Segment) ([]Message, error) {
	var msgs []Message
	var cur Message

	for _, s := range segs {
		switch s.Type {
		case message.TypeText:
			if n := len(cur); n > 0 && cur[n-1].Type == "text" {
				cur[n-1].Data["text"] += s.Data
			} else {
				cur = append(cur, TextSeg(s.Data))
			}
		case message.TypeAt:
			cur = append(cur, AtSeg(s.Data))
		case message.TypeImage:
			file, err := fileOf(s.Media)
			if err != nil {
				return nil, err
			}
			cur = append(cur, ImageSeg(file))
		case message.TypeVoice:
			file, err := fileOf(s.Media)
			if err != nil {
				return nil, err
			}
			if len(cur) > 0 {
				msgs = append(msgs, cur)
				cur = nil
			}
			msgs = append(msgs, Message{RecordSeg(file)})
		default:
			return nil, fmt.Errorf("%w: %s", message.ErrUnknownSegment, s.Type)
		}
	}
	if len(cur) > 0 {
		msgs = append(msgs, cur)
	}
	return msgs, nil
}

func (h *Handler) Send(ctx context.Context, bot *Bot, ev Event, msg Message, opts message.SendOptions) (any, error) {
	if bot == nil {
		return nil, event.ErrNoBot
	}
	return bot.Send(ctx, ev, msg, opts.At, opts.Reply)
}

// fileOf renders media the way OneBot implementations accept it
func fileOf(m message.Media) (string, error) {
	switch {
	case m.IsURL():
		return m.URL, nil
	case m.IsPath():
		abs, err := filepath.Abs(m.Path)
		if err != nil {
			return "", fmt.Errorf("failed to resolve media path: %w", err)
		}
		return "file://" + filepath.ToSlash(abs), nil
	default:
		return "base64://" + base64.StdEncoding.EncodeToString(m.Bytes), nil
	}
}
