package dingtalk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/keepmind9/anybot/internal/logger"
	"github.com/sirupsen/logrus"
)

// ErrWebhookExpired is returned when the session webhook of a callback can no
// longer be used to reply
var ErrWebhookExpired = errors.New("dingtalk session webhook expired")

// Replier is the part of *chatbot.ChatbotReplier the adapter needs
type Replier interface {
	ReplyMessage(ctx context.Context, sessionWebhook string, requestBody map[string]interface{}) error
}

// Bot is one DingTalk robot. Replies go to the session webhook of the event.
type Bot struct {
	robotCode string
	replier   Replier
	now       func() time.Time
}

func NewBot(robotCode string, replier Replier) *Bot {
	return &Bot{robotCode: robotCode, replier: replier, now: time.Now}
}

func (b *Bot) RobotCode() string { return b.robotCode }

// Send posts out to webhook. expiresAt is the webhook expiry in unix millis;
// zero means unknown.
func (b *Bot) Send(ctx context.Context, webhook string, expiresAt int64, out Outgoing) error {
	if expiresAt > 0 && b.now().UnixMilli() >= expiresAt {
		return ErrWebhookExpired
	}
	if err := b.replier.ReplyMessage(ctx, webhook, out.Body()); err != nil {
		logger.WithFields(logrus.Fields{
			"robot_code": b.robotCode,
			"error":      err,
		}).Error("failed-to-send-message-to-dingtalk")
		return fmt.Errorf("failed to reply through dingtalk session webhook: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"robot_code": b.robotCode,
		"at":         len(out.AtUserIDs),
	}).Debug("message-sent-to-dingtalk")
	return nil
}
