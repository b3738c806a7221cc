package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/anybot/internal/logger"
	"github.com/sirupsen/logrus"
)

// Session is the part of *discordgo.Session the adapter needs
type Session interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Bot is one Discord bot session
type Bot struct {
	selfID  string
	session Session
}

// NewBot wraps session; selfID is the bot user id
func NewBot(selfID string, session Session) *Bot {
	return &Bot{selfID: selfID, session: session}
}

func (b *Bot) SelfID() string { return b.selfID }

func (b *Bot) Guild(ctx context.Context, guildID string) (*discordgo.Guild, error) {
	return b.session.Guild(guildID, discordgo.WithContext(ctx))
}

func (b *Bot) Channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	return b.session.Channel(channelID, discordgo.WithContext(ctx))
}

// Send posts msg to channelID
func (b *Bot) Send(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	sent, err := b.session.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx))
	if err != nil {
		logger.WithFields(logrus.Fields{
			"channel": channelID,
			"error":   err,
		}).Error("failed-to-send-message-to-discord")
		return nil, fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}

	logger.WithFields(logrus.Fields{
		"channel": channelID,
		"files":   len(msg.Files),
		"embeds":  len(msg.Embeds),
	}).Debug("message-sent-to-discord")
	return sent, nil
}
