package dingtalk

import (
	"context"
	"fmt"
	"strings"

	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/pkg/constants"
)

// Handler builds and sends DingTalk markdown replies. Only linked images can
// be shown; other media becomes placeholder text.
type Handler struct {
	voicePlaceholder string
	imagePlaceholder string
}

func NewHandler(voicePlaceholder string) *Handler {
	if voicePlaceholder == "" {
		voicePlaceholder = constants.VoicePlaceholder
	}
	return &Handler{voicePlaceholder: voicePlaceholder, imagePlaceholder: constants.ImagePlaceholder}
}

func (h *Handler) Build(_ context.Context, _ *Bot, segs []message.Segment) ([]Outgoing, error) {
	if len(segs) == 0 {
		return nil, nil
	}
	var (
		text strings.Builder
		out  Outgoing
	)
	for _, s := range segs {
		switch s.Type {
		case message.TypeText:
			text.WriteString(s.Data)
		case message.TypeAt:
			text.WriteString("@" + s.Data)
			out.AtUserIDs = append(out.AtUserIDs, s.Data)
		case message.TypeImage:
			if s.Media.IsURL() {
				text.WriteString("![image](" + s.Media.URL + ")")
			} else {
				text.WriteString(h.imagePlaceholder)
			}
		case message.TypeVoice:
			text.WriteString(h.voicePlaceholder)
		default:
			return nil, fmt.Errorf("%w: %s", message.ErrUnknownSegment, s.Type)
		}
	}
	out.Text = text.String()
	return []Outgoing{out}, nil
}

// Send replies through the event's session webhook. A reply quotes the
// original text since webhooks have no reply reference.
func (h *Handler) Send(ctx context.Context, bot *Bot, ev MessageEvent, out Outgoing, opts message.SendOptions) (any, error) {
	if bot == nil {
		return nil, event.ErrNoBot
	}
	if ev == nil || ev.GetData() == nil {
		return nil, fmt.Errorf("dingtalk send needs a callback event: %w", event.ErrNoEvent)
	}
	data := ev.GetData()
	if opts.At {
		out.Text = "@" + data.SenderStaffId + " " + out.Text
		out.AtUserIDs = append([]string{data.SenderStaffId}, out.AtUserIDs...)
	}
	if opts.Reply {
		if q := quote(strings.TrimSpace(data.Text.Content)); q != "" {
			out.Text = q + "\n\n" + out.Text
		}
	}
	if err := bot.Send(ctx, data.SessionWebhook, data.SessionWebhookExpiredTime, out); err != nil {
		return nil, err
	}
	return data.MsgId, nil
}

// quote renders s as a markdown block quote
func quote(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}
