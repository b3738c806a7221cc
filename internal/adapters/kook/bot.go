package kook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/keepmind9/anybot/internal/logger"
	"github.com/sirupsen/logrus"
)

// ErrEmptyMessage is returned when a message renders to nothing
var ErrEmptyMessage = errors.New("empty kook message")

// API is the KOOK HTTP API surface the host client provides
type API interface {
	UploadAsset(ctx context.Context, name string, data []byte) (string, error)
	CreateMessage(ctx context.Context, req *CreateMessage) (*MessageResult, error)
	CreateDirectMessage(ctx context.Context, req *CreateMessage) (*MessageResult, error)
	ViewUser(ctx context.Context, userID, guildID string) (*User, error)
	ViewGuild(ctx context.Context, guildID string) (*Guild, error)
	ViewChannel(ctx context.Context, channelID string) (*Channel, error)
}

// Bot is one KOOK bot account
type Bot struct {
	id  string
	api API
}

func NewBot(id string, api API) *Bot {
	return &Bot{id: id, api: api}
}

func (b *Bot) ID() string { return b.id }

// Upload stores data as an asset and returns its URL
func (b *Bot) Upload(ctx context.Context, name string, data []byte) (string, error) {
	url, err := b.api.UploadAsset(ctx, name, data)
	if err != nil {
		return "", fmt.Errorf("failed to upload kook asset: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"name": name,
		"size": len(data),
	}).Debug("kook-asset-uploaded")
	return url, nil
}

func (b *Bot) User(ctx context.Context, userID, guildID string) (*User, error) {
	return b.api.ViewUser(ctx, userID, guildID)
}

func (b *Bot) Guild(ctx context.Context, guildID string) (*Guild, error) {
	return b.api.ViewGuild(ctx, guildID)
}

func (b *Bot) Channel(ctx context.Context, channelID string) (*Channel, error) {
	return b.api.ViewChannel(ctx, channelID)
}

// Send answers ev with msg. quote sets the native quote to the event message.
func (b *Bot) Send(ctx context.Context, ev MessageEvent, msg Message, quote bool) (*MessageResult, error) {
	typ, content, err := Render(msg)
	if err != nil {
		return nil, err
	}
	req := &CreateMessage{Type: typ, Content: content}
	if quote {
		req.Quote = ev.GetMsgID()
	}

	var res *MessageResult
	switch e := ev.(type) {
	case *ChannelMessageEvent:
		req.TargetID = e.TargetID
		res, err = b.api.CreateMessage(ctx, req)
	default:
		req.TargetID = ev.GetUserID()
		res, err = b.api.CreateDirectMessage(ctx, req)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to send kook message: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"bot_id":    b.id,
		"target_id": req.TargetID,
		"type":      typ,
	}).Debug("message-sent-to-kook")
	return res, nil
}

type cardText struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type cardElement struct {
	Type string `json:"type"`
	Src  string `json:"src"`
}

type cardModule struct {
	Type     string        `json:"type"`
	Text     *cardText     `json:"text,omitempty"`
	Elements []cardElement `json:"elements,omitempty"`
	Src      string        `json:"src,omitempty"`
}

type card struct {
	Type    string       `json:"type"`
	Size    string       `json:"size"`
	Modules []cardModule `json:"modules"`
}

// Render picks the message type for msg. Text and mentions alone become
// kmarkdown, a lone asset is sent as itself, anything mixed becomes a card.
func Render(msg Message) (int, string, error) {
	if len(msg) == 0 {
		return 0, "", ErrEmptyMessage
	}
	if len(msg) == 1 {
		switch s := msg[0]; s.Type {
		case "image":
			return TypeImage, s.Data["file_key"], nil
		case "audio":
			return TypeAudio, s.Data["file_key"], nil
		}
	}

	var (
		modules []cardModule
		md      strings.Builder
		mixed   bool
	)
	flush := func() {
		if md.Len() > 0 {
			modules = append(modules, cardModule{Type: "section", Text: &cardText{Type: "kmarkdown", Content: md.String()}})
			md.Reset()
		}
	}
	for _, s := range msg {
		switch s.Type {
		case "text":
			md.WriteString(s.Data["content"])
		case "at":
			md.WriteString("(met)" + s.Data["user_id"] + "(met)")
		case "image":
			mixed = true
			flush()
			modules = append(modules, cardModule{Type: "container", Elements: []cardElement{{Type: "image", Src: s.Data["file_key"]}}})
		case "audio":
			mixed = true
			flush()
			modules = append(modules, cardModule{Type: "audio", Src: s.Data["file_key"]})
		default:
			return 0, "", fmt.Errorf("unknown kook segment %q", s.Type)
		}
	}
	if !mixed {
		return TypeKMarkdown, md.String(), nil
	}
	flush()

	data, err := json.Marshal([]card{{Type: "card", Size: "lg", Modules: modules}})
	if err != nil {
		return 0, "", fmt.Errorf("failed to encode kook card: %w", err)
	}
	return TypeCard, string(data), nil
}
