package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/keepmind9/anybot/internal/logger"
	"github.com/sirupsen/logrus"
)

// API is the part of *tgbotapi.BotAPI the adapter needs
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetChat(config tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error)
	GetChatMembersCount(config tgbotapi.ChatMemberCountConfig) (int, error)
	GetUserProfilePhotos(config tgbotapi.UserProfilePhotosConfig) (tgbotapi.UserProfilePhotos, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot is one Telegram bot
type Bot struct {
	userName string
	api      API
}

func NewBot(userName string, api API) *Bot {
	return &Bot{userName: userName, api: api}
}

func (b *Bot) UserName() string { return b.userName }

// Send delivers out to chatID, replying to replyTo when it is not zero
func (b *Bot) Send(ctx context.Context, chatID int64, out Outgoing, replyTo int) (*tgbotapi.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var c tgbotapi.Chattable
	switch out.Kind {
	case KindPhoto:
		cfg := tgbotapi.NewPhoto(chatID, out.File)
		cfg.Caption, cfg.ParseMode, cfg.ReplyToMessageID = out.Text, tgbotapi.ModeHTML, replyTo
		c = cfg
	case KindVoice:
		cfg := tgbotapi.NewVoice(chatID, out.File)
		cfg.Caption, cfg.ParseMode, cfg.ReplyToMessageID = out.Text, tgbotapi.ModeHTML, replyTo
		c = cfg
	default:
		cfg := tgbotapi.NewMessage(chatID, out.Text)
		cfg.ParseMode, cfg.ReplyToMessageID = tgbotapi.ModeHTML, replyTo
		c = cfg
	}

	sent, err := b.api.Send(c)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"chat_id": chatID,
			"kind":    out.Kind,
			"error":   err,
		}).Error("failed-to-send-message-to-telegram")
		return nil, fmt.Errorf("failed to send telegram %s: %w", out.Kind, err)
	}

	logger.WithFields(logrus.Fields{
		"chat_id":    chatID,
		"kind":       out.Kind,
		"message_id": sent.MessageID,
	}).Debug("message-sent-to-telegram")
	return &sent, nil
}

// Chat fetches chat metadata and its member count
func (b *Bot) Chat(ctx context.Context, chatID int64) (*tgbotapi.Chat, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	chat, err := b.api.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: chatID}})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get telegram chat: %w", err)
	}
	count, err := b.api.GetChatMembersCount(tgbotapi.ChatMemberCountConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: chatID}})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count telegram chat members: %w", err)
	}
	return &chat, count, nil
}

// AvatarURL returns the download URL of the user's latest profile photo, or
// "" when the user has none.
func (b *Bot) AvatarURL(ctx context.Context, userID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	photos, err := b.api.GetUserProfilePhotos(tgbotapi.UserProfilePhotosConfig{UserID: userID, Limit: 1})
	if err != nil {
		return "", fmt.Errorf("failed to get telegram profile photos: %w", err)
	}
	if len(photos.Photos) == 0 || len(photos.Photos[0]) == 0 {
		return "", nil
	}
	sizes := photos.Photos[0]
	return b.FileURL(sizes[len(sizes)-1].FileID)
}

// FileURL resolves a file id to a download URL
func (b *Bot) FileURL(fileID string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve telegram file: %w", err)
	}
	return url, nil
}
