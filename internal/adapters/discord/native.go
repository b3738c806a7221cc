package discord

import "github.com/bwmarrin/discordgo"

// MessageEvent is a Discord message the bot received
type MessageEvent interface {
	GetMessage() *discordgo.Message
	IsToMe() bool
	discordEvent()
}

// MessageFields wraps the gateway message of an event
type MessageFields struct {
	Message *discordgo.Message
	// ToMe is set when the bot is mentioned or the message is a DM
	ToMe bool
}

func (f *MessageFields) GetMessage() *discordgo.Message { return f.Message }
func (f *MessageFields) IsToMe() bool                   { return f.ToMe }
func (f *MessageFields) discordEvent()                  {}

// DirectMessageEvent is a message in a DM channel
type DirectMessageEvent struct {
	MessageFields
}

// GuildMessageEvent is a message in a guild text channel
type GuildMessageEvent struct {
	MessageFields
}

// FromMessageCreate classifies a gateway MESSAGE_CREATE for the bot selfID
func FromMessageCreate(m *discordgo.MessageCreate, selfID string) MessageEvent {
	if m.GuildID == "" {
		return &DirectMessageEvent{MessageFields{Message: m.Message, ToMe: true}}
	}
	toMe := false
	for _, u := range m.Mentions {
		if u != nil && u.ID == selfID {
			toMe = true
			break
		}
	}
	return &GuildMessageEvent{MessageFields{Message: m.Message, ToMe: toMe}}
}
