package telegram

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/pkg/constants"
)

// Handler builds and sends Telegram messages. Photos and voices are sent as
// messages of their own; text is flushed before them.
type Handler struct {
	limit int
}

func NewHandler() *Handler {
	return &Handler{limit: constants.MaxTelegramMessageLength}
}

// mention renders a user link; its visible text is the id
func mention(userID string) string {
	return `<a href="tg://user?id=` + userID + `">` + html.EscapeString(userID) + `</a>`
}

func (h *Handler) Build(_ context.Context, _ *Bot, segs []message.Segment) ([]Outgoing, error) {
	var (
		out     []Outgoing
		text    strings.Builder
		visible int
	)
	flush := func() {
		if text.Len() > 0 {
			out = append(out, Outgoing{Kind: KindText, Text: text.String()})
			text.Reset()
			visible = 0
		}
	}
	// write keeps the visible length of a text message within the limit
	write := func(raw, rendered string) {
		n := utf8.RuneCountInString(raw)
		if visible+n > h.limit {
			flush()
		}
		text.WriteString(rendered)
		visible += n
	}

	for _, s := range segs {
		switch s.Type {
		case message.TypeText:
			for _, chunk := range chunks(s.Data, h.limit) {
				write(chunk, html.EscapeString(chunk))
			}
		case message.TypeAt:
			write(s.Data, mention(s.Data))
		case message.TypeImage:
			flush()
			out = append(out, Outgoing{Kind: KindPhoto, File: fileOf(s.Media, ".jpg")})
		case message.TypeVoice:
			flush()
			out = append(out, Outgoing{Kind: KindVoice, File: fileOf(s.Media, ".ogg")})
		default:
			return nil, fmt.Errorf("%w: %s", message.ErrUnknownSegment, s.Type)
		}
	}
	flush()
	return out, nil
}

func (h *Handler) Send(ctx context.Context, bot *Bot, ev MessageEvent, out Outgoing, opts message.SendOptions) (any, error) {
	if bot == nil {
		return nil, event.ErrNoBot
	}
	if ev == nil || ev.GetMessage() == nil || ev.GetMessage().Chat == nil {
		return nil, fmt.Errorf("telegram send needs a message event: %w", event.ErrNoEvent)
	}
	m := ev.GetMessage()
	if opts.At && m.From != nil {
		sep := " "
		if out.Text == "" {
			sep = ""
		}
		out.Text = mention(strconv.FormatInt(m.From.ID, 10)) + sep + out.Text
	}
	replyTo := 0
	if opts.Reply {
		replyTo = m.MessageID
	}
	return bot.Send(ctx, m.Chat.ID, out, replyTo)
}

func fileOf(m message.Media, ext string) tgbotapi.RequestFileData {
	switch {
	case m.IsURL():
		return tgbotapi.FileURL(m.URL)
	case m.IsPath():
		return tgbotapi.FilePath(m.Path)
	default:
		return tgbotapi.FileBytes{Name: m.FileName(ext), Bytes: m.Bytes}
	}
}

// chunks cuts s into pieces of at most limit runes
func chunks(s string, limit int) []string {
	var out []string
	runes := []rune(s)
	for len(runes) > limit {
		out = append(out, string(runes[:limit]))
		runes = runes[limit:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
