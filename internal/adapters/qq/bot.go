package qq

import (
	"context"
	"fmt"
	"strings"

	"github.com/keepmind9/anybot/internal/logger"
	"github.com/sirupsen/logrus"
)

// API is the QQ open platform surface the host client provides
type API interface {
	PostC2CMessage(ctx context.Context, openID string, msg *PostMessage) (*MessageResult, error)
	PostGroupMessage(ctx context.Context, groupOpenID string, msg *PostMessage) (*MessageResult, error)
	PostChannelMessage(ctx context.Context, channelID string, msg *PostMessage) (*MessageResult, error)
	PostDirectMessage(ctx context.Context, guildID string, msg *PostMessage) (*MessageResult, error)
	GetGuild(ctx context.Context, guildID string) (*Guild, error)
	GetChannel(ctx context.Context, channelID string) (*Channel, error)
}

// Bot is one QQ bot application
type Bot struct {
	appID string
	api   API
}

// NewBot creates a Bot acting through api
func NewBot(appID string, api API) *Bot {
	return &Bot{appID: appID, api: api}
}

// AppID returns the bot application id
func (b *Bot) AppID() string { return b.appID }

// Guild fetches guild metadata
func (b *Bot) Guild(ctx context.Context, guildID string) (*Guild, error) {
	return b.api.GetGuild(ctx, guildID)
}

// Channel fetches channel metadata
func (b *Bot) Channel(ctx context.Context, channelID string) (*Channel, error) {
	return b.api.GetChannel(ctx, channelID)
}

// Send answers ev with msg as a passive reply to the event's message
func (b *Bot) Send(ctx context.Context, ev MessageEvent, msg Message) (*MessageResult, error) {
	post := ToPostMessage(msg)
	post.MsgID = ev.GetID()

	var (
		res    *MessageResult
		err    error
		target string
	)
	switch e := ev.(type) {
	case *C2CMessageCreateEvent:
		target = "c2c"
		res, err = b.api.PostC2CMessage(ctx, e.GetUserID(), post)
	case *GroupAtMessageCreateEvent:
		target = "group"
		res, err = b.api.PostGroupMessage(ctx, e.GroupOpenID, post)
	case *DirectMessageCreateEvent:
		target = "direct"
		res, err = b.api.PostDirectMessage(ctx, e.GuildID, post)
	case ChannelMessageEvent:
		target = "channel"
		res, err = b.api.PostChannelMessage(ctx, e.GetChannelID(), post)
	default:
		return nil, fmt.Errorf("unsupported qq event %T", ev)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to send qq %s message: %w", target, err)
	}

	logger.WithFields(logrus.Fields{
		"app_id": b.appID,
		"target": target,
		"msg_id": post.MsgID,
	}).Debug("message-sent-to-qq")
	return res, nil
}

// ToPostMessage folds a segment list into one post request. Mentions render
// inline as <@id>; the last image of each kind wins since a post carries one.
func ToPostMessage(msg Message) *PostMessage {
	post := &PostMessage{}
	var content strings.Builder
	for _, s := range msg {
		switch s.Type {
		case "text":
			content.WriteString(s.Data["text"])
		case "mention_user":
			content.WriteString("<@" + s.Data["user_id"] + ">")
		case "image":
			post.Image = s.Data["url"]
		case "file_image":
			if s.Content != nil {
				post.FileImage = s.Content
			} else {
				post.FileImagePath = s.Data["path"]
			}
		case "reference":
			post.MessageReference = &MessageReference{MessageID: s.Data["message_id"], IgnoreGetMessageError: true}
		}
	}
	post.Content = content.String()
	return post
}
