package onebot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/keepmind9/anybot/internal/logger"
	"github.com/sirupsen/logrus"
)

// ErrNoTarget is returned when an event carries neither a group nor a user to answer
var ErrNoTarget = errors.New("event has no reply target")

// API is the OneBot v11 action surface the host connection provides
type API interface {
	SendMsg(ctx context.Context, params SendMsgParams) (int64, error)
	GetGroupInfo(ctx context.Context, groupID int64, noCache bool) (*GroupInfo, error)
}

// Bot is one logged in OneBot account
type Bot struct {
	selfID string
	api    API
}

// NewBot creates a Bot acting through api
func NewBot(selfID string, api API) *Bot {
	return &Bot{selfID: selfID, api: api}
}

// SelfID returns the account id of the bot
func (b *Bot) SelfID() string { return b.selfID }

// GroupInfo fetches group metadata
func (b *Bot) GroupInfo(ctx context.Context, groupID int64) (*GroupInfo, error) {
	return b.api.GetGroupInfo(ctx, groupID, false)
}

// Send answers ev with msg. atSender prepends a mention of the author in
// groups; reply prepends a reply reference to the event's message.
func (b *Bot) Send(ctx context.Context, ev Event, msg Message, atSender, reply bool) (int64, error) {
	params := SendMsgParams{}
	switch e := ev.(type) {
	case *GroupMessageEvent:
		params.MessageType, params.GroupID = "group", e.GroupID
	case GroupNotice:
		params.MessageType, params.GroupID = "group", e.GetGroupID()
	case MessageEvent:
		params.MessageType, params.UserID = "private", e.GetUserID()
	default:
		return 0, fmt.Errorf("%w: %T", ErrNoTarget, ev)
	}

	prefix := Message{}
	if me, ok := ev.(MessageEvent); ok {
		if reply {
			prefix = append(prefix, ReplySeg(strconv.FormatInt(me.GetMessageID(), 10)))
		}
		if atSender && params.MessageType == "group" {
			prefix = append(prefix, AtSeg(strconv.FormatInt(me.GetUserID(), 10)), TextSeg(" "))
		}
	}
	params.Message = append(prefix, msg...)

	id, err := b.api.SendMsg(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to send onebot message: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"self_id":      b.selfID,
		"message_type": params.MessageType,
		"segments":     len(params.Message),
		"message_id":   id,
	}).Debug("message-sent-to-onebot")
	return id, nil
}
