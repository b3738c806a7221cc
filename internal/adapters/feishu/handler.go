package feishu

import (
	"context"
	"fmt"

	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/message"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
)

// Handler builds and sends Feishu messages. Text, mentions and images share a
// post; voice is uploaded as opus and sent as an audio message of its own.
type Handler struct {
	fetcher message.Fetcher
}

func NewHandler(fetcher message.Fetcher) *Handler {
	return &Handler{fetcher: fetcher}
}

func (h *Handler) Build(ctx context.Context, bot *Bot, segs []message.Segment) ([]Outgoing, error) {
	var (
		out []Outgoing
		cur []PostElement
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, Outgoing{MsgType: larkim.MsgTypePost, Post: cur})
			cur = nil
		}
	}

	for _, s := range segs {
		switch s.Type {
		case message.TypeText:
			if n := len(cur); n > 0 && cur[n-1].Tag == "text" {
				cur[n-1].Text += s.Data
			} else {
				cur = append(cur, PostElement{Tag: "text", Text: s.Data})
			}
		case message.TypeAt:
			cur = append(cur, PostElement{Tag: "at", UserID: s.Data})
		case message.TypeImage:
			if bot == nil {
				return nil, event.ErrNoBot
			}
			data, err := s.Media.Load(ctx, h.fetcher)
			if err != nil {
				return nil, err
			}
			key, err := bot.UploadImage(ctx, data)
			if err != nil {
				return nil, err
			}
			cur = append(cur, PostElement{Tag: "img", ImageKey: key})
		case message.TypeVoice:
			if bot == nil {
				return nil, event.ErrNoBot
			}
			data, err := s.Media.Load(ctx, h.fetcher)
			if err != nil {
				return nil, err
			}
			key, err := bot.UploadAudio(ctx, s.Media.FileName(".opus"), data)
			if err != nil {
				return nil, err
			}
			flush()
			out = append(out, Outgoing{MsgType: larkim.MsgTypeAudio, FileKey: key})
		default:
			return nil, fmt.Errorf("%w: %s", message.ErrUnknownSegment, s.Type)
		}
	}
	flush()
	return out, nil
}

// Send answers ev. A mention needs a post, so an audio message sent with At
// is preceded by a post holding only the mention; the reply goes to that post.
func (h *Handler) Send(ctx context.Context, bot *Bot, ev MessageEvent, out Outgoing, opts message.SendOptions) (any, error) {
	if bot == nil {
		return nil, event.ErrNoBot
	}
	if ev == nil || ev.GetData() == nil || ev.GetData().Message == nil {
		return nil, fmt.Errorf("feishu send needs a message event: %w", event.ErrNoEvent)
	}
	data := ev.GetData()
	chatID := str(data.Message.ChatId)
	replyTo := ""
	if opts.Reply {
		replyTo = str(data.Message.MessageId)
	}

	if opts.At {
		mention := []PostElement{{Tag: "at", UserID: senderOpenID(data)}}
		if out.MsgType != larkim.MsgTypePost {
			if _, err := bot.Send(ctx, chatID, replyTo, Outgoing{MsgType: larkim.MsgTypePost, Post: mention}); err != nil {
				return nil, err
			}
			replyTo = ""
		} else {
			out.Post = append(append(mention, PostElement{Tag: "text", Text: " "}), out.Post...)
		}
	}
	return bot.Send(ctx, chatID, replyTo, out)
}

func senderOpenID(d *larkim.P2MessageReceiveV1Data) string {
	if d.Sender == nil || d.Sender.SenderId == nil {
		return ""
	}
	return str(d.Sender.SenderId.OpenId)
}
