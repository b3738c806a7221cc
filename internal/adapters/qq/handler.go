package qq

import (
	"context"
	"fmt"

	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/pkg/constants"
)

// Handler builds and sends QQ messages. Every build yields at most one message.
type Handler struct {
	voicePlaceholder string
}

// NewHandler creates a Handler; an empty placeholder selects the default
func NewHandler(voicePlaceholder string) *Handler {
	if voicePlaceholder == "" {
		voicePlaceholder = constants.VoicePlaceholder
	}
	return &Handler{voicePlaceholder: voicePlaceholder}
}

func (h *Handler) Build(_ context.Context, _ *Bot, segs []message.Segment) ([]Message, error) {
	msg, err := BuildMessage(segs, h.voicePlaceholder)
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
		return nil, fmt.Errorf("qq send needs a message event: %w", event.ErrNoEvent)
	}
	return bot.Send(ctx, ev, Decorate(msg, ev, opts))
}

// BuildMessage converts unified segments into one QQ message. Voice has no
// QQ segment and is rendered as placeholder text.
func BuildMessage(segs []message.Segment, voicePlaceholder string) (Message, error) {
	var msg Message
	text := func(s string) {
		if n := len(msg); n > 0 && msg[n-1].Type == "text" {
			msg[n-1].Data["text"] += s
			return
		}
		msg = append(msg, TextSeg(s))
	}

	for _, s := range segs {
		switch s.Type {
		case message.TypeText:
			text(s.Data)
		case message.TypeAt:
			msg = append(msg, MentionUserSeg(s.Data))
		case message.TypeImage:
			switch {
			case s.Media.IsURL():
				msg = append(msg, ImageSeg(s.Media.URL))
			case s.Media.IsPath():
				msg = append(msg, FileImagePathSeg(s.Media.Path))
			default:
				msg = append(msg, FileImageSeg(s.Media.Bytes))
			}
		case message.TypeVoice:
			text(voicePlaceholder)
		default:
			return nil, fmt.Errorf("%w: %s", message.ErrUnknownSegment, s.Type)
		}
	}
	return msg, nil
}

// Decorate prepends the mention and reply reference requested by opts
func Decorate(msg Message, ev interface {
	GetID() string
	GetUserID() string
}, opts message.SendOptions) Message {
	if ev == nil || (!opts.At && !opts.Reply) {
		return msg
	}
	prefix := Message{}
	if opts.Reply {
		prefix = append(prefix, ReferenceSeg(ev.GetID()))
	}
	if opts.At {
		prefix = append(prefix, MentionUserSeg(ev.GetUserID()))
	}
	return append(prefix, msg...)
}
