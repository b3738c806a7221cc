package discord

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/logger"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/pkg/constants"
	"github.com/sirupsen/logrus"
)

// Handler builds and sends Discord messages. Content longer than the message
// limit is split; attachments travel with the last part.
type Handler struct {
	fetcher message.Fetcher
	limit   int
}

func NewHandler(fetcher message.Fetcher) *Handler {
	return &Handler{fetcher: fetcher, limit: constants.MaxDiscordMessageLength}
}

func (h *Handler) Build(ctx context.Context, _ *Bot, segs []message.Segment) ([]*discordgo.MessageSend, error) {
	var (
		content strings.Builder
		embeds  []*discordgo.MessageEmbed
		files   []*discordgo.File
	)
	for _, s := range segs {
		switch s.Type {
		case message.TypeText:
			content.WriteString(s.Data)
		case message.TypeAt:
			content.WriteString("<@" + s.Data + ">")
		case message.TypeImage:
			if s.Media.IsURL() {
				embeds = append(embeds, &discordgo.MessageEmbed{Image: &discordgo.MessageEmbedImage{URL: s.Media.URL}})
				continue
			}
			f, err := h.file(ctx, s.Media, ".png", "image/png")
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		case message.TypeVoice:
			f, err := h.file(ctx, s.Media, ".ogg", "audio/ogg")
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		default:
			return nil, fmt.Errorf("%w: %s", message.ErrUnknownSegment, s.Type)
		}
	}

	parts := splitContent(content.String(), h.limit)
	if len(parts) == 0 {
		if len(embeds) == 0 && len(files) == 0 {
			return nil, nil
		}
		parts = []string{""}
	}
	if len(parts) > 1 {
		logger.WithFields(logrus.Fields{
			"length": content.Len(),
			"parts":  len(parts),
		}).Debug("splitting-message-for-discord-limit")
	}

	out := make([]*discordgo.MessageSend, len(parts))
	for i, p := range parts {
		out[i] = &discordgo.MessageSend{Content: p}
	}
	last := out[len(out)-1]
	last.Embeds, last.Files = embeds, files
	return out, nil
}

func (h *Handler) file(ctx context.Context, m message.Media, ext, contentType string) (*discordgo.File, error) {
	data, err := m.Load(ctx, h.fetcher)
	if err != nil {
		return nil, err
	}
	return &discordgo.File{Name: m.FileName(ext), ContentType: contentType, Reader: bytes.NewReader(data)}, nil
}

func (h *Handler) Send(ctx context.Context, bot *Bot, ev MessageEvent, msg *discordgo.MessageSend, opts message.SendOptions) (any, error) {
	if bot == nil {
		return nil, event.ErrNoBot
	}
	if ev == nil || ev.GetMessage() == nil {
		return nil, fmt.Errorf("discord send needs a message event: %w", event.ErrNoEvent)
	}
	m := ev.GetMessage()
	out := *msg
	if opts.At && m.Author != nil {
		out.Content = "<@" + m.Author.ID + "> " + out.Content
	}
	if opts.Reply {
		out.Reference = m.Reference()
	}
	return bot.Send(ctx, m.ChannelID, &out)
}

// splitContent cuts s into parts of at most limit runes, preferring to break
// after a newline.
func splitContent(s string, limit int) []string {
	var parts []string
	runes := []rune(s)
	for len(runes) > limit {
		cut := limit
		for i := limit - 1; i >= limit/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
