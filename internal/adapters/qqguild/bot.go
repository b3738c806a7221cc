package qqguild

import (
	"context"
	"fmt"

	"github.com/keepmind9/anybot/internal/adapters/qq"
	"github.com/keepmind9/anybot/internal/logger"
	"github.com/sirupsen/logrus"
)

// API is the legacy guild API surface the host client provides
type API interface {
	PostChannelMessage(ctx context.Context, channelID string, msg *PostMessage) (*MessageResult, error)
	PostDirectMessage(ctx context.Context, guildID string, msg *PostMessage) (*MessageResult, error)
	GetGuild(ctx context.Context, guildID string) (*Guild, error)
	GetChannel(ctx context.Context, channelID string) (*Channel, error)
}

// Bot is one guild bot account
type Bot struct {
	appID string
	api   API
}

// NewBot creates a Bot acting through api
func NewBot(appID string, api API) *Bot {
	return &Bot{appID: appID, api: api}
}

func (b *Bot) AppID() string { return b.appID }

func (b *Bot) Guild(ctx context.Context, guildID string) (*Guild, error) {
	return b.api.GetGuild(ctx, guildID)
}

func (b *Bot) Channel(ctx context.Context, channelID string) (*Channel, error) {
	return b.api.GetChannel(ctx, channelID)
}

// Send answers ev with msg as a passive reply
func (b *Bot) Send(ctx context.Context, ev MessageEvent, msg Message) (*MessageResult, error) {
	post := qq.ToPostMessage(msg)
	post.MsgID = ev.GetID()

	var (
		res    *MessageResult
		err    error
		target string
	)
	switch e := ev.(type) {
	case *DirectMessageCreateEvent:
		target = "direct"
		res, err = b.api.PostDirectMessage(ctx, e.GuildID, post)
	case ChannelMessageEvent:
		target = "channel"
		res, err = b.api.PostChannelMessage(ctx, e.GetChannelID(), post)
	default:
		return nil, fmt.Errorf("unsupported qq guild event %T", ev)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to send qq guild %s message: %w", target, err)
	}

	logger.WithFields(logrus.Fields{
		"app_id": b.appID,
		"target": target,
	}).Debug("message-sent-to-qqguild")
	return res, nil
}
