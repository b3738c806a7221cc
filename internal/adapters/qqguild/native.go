package qqguild

import "github.com/keepmind9/anybot/internal/adapters/qq"

// The legacy guild API shares the QQ segment format and API models.
type (
	Message       = qq.Message
	Segment       = qq.Segment
	User          = qq.User
	Member        = qq.Member
	Attachment    = qq.Attachment
	ReplyMessage  = qq.ReplyMessage
	Guild         = qq.Guild
	Channel       = qq.Channel
	PostMessage   = qq.PostMessage
	MessageResult = qq.MessageResult
)

// MessageEvent is any guild message; the author is always a guild user
type MessageEvent interface {
	GetID() string
	GetUserID() string
	GetAuthor() User
	GetMessage() Message
	GetReply() *ReplyMessage
	IsToMe() bool
	guildEvent()
}

// ChannelMessageEvent is a message posted in a guild channel
type ChannelMessageEvent interface {
	MessageEvent
	GetGuildID() string
	GetChannelID() string
	GetMember() *Member
}

// MessageFields holds the fields of every guild message event
type MessageFields struct {
	ID          string       `json:"id"`
	Content     string       `json:"content"`
	Timestamp   string       `json:"timestamp"`
	Attachments []Attachment `json:"attachments"`
	Author      User         `json:"author"`
	// Reply is filled by the host when the message quotes another one
	Reply *ReplyMessage `json:"-"`
}

func (f *MessageFields) GetID() string           { return f.ID }
func (f *MessageFields) GetUserID() string       { return f.Author.ID }
func (f *MessageFields) GetAuthor() User         { return f.Author }
func (f *MessageFields) GetReply() *ReplyMessage { return f.Reply }
func (f *MessageFields) IsToMe() bool            { return true }
func (f *MessageFields) guildEvent()             {}

func (f *MessageFields) GetMessage() Message {
	var m Message
	if f.Content != "" {
		m = append(m, qq.TextSeg(f.Content))
	}
	for _, a := range f.Attachments {
		m = append(m, qq.AttachmentSeg(a.URL))
	}
	return m
}

// ChannelFields holds the fields of channel message events
type ChannelFields struct {
	MessageFields
	GuildID   string  `json:"guild_id"`
	ChannelID string  `json:"channel_id"`
	Member    *Member `json:"member"`
	// ToMe is filled by the host when the bot is mentioned
	ToMe bool `json:"-"`
}

func (f *ChannelFields) GetGuildID() string   { return f.GuildID }
func (f *ChannelFields) GetChannelID() string { return f.ChannelID }
func (f *ChannelFields) GetMember() *Member   { return f.Member }
func (f *ChannelFields) IsToMe() bool         { return f.ToMe }

// MessageCreateEvent is any message in a channel the bot can read
type MessageCreateEvent struct {
	ChannelFields
}

// AtMessageCreateEvent is a channel message mentioning the bot
type AtMessageCreateEvent struct {
	ChannelFields
}

func (e *AtMessageCreateEvent) IsToMe() bool { return true }

// DirectMessageCreateEvent is a direct message. GuildID is the DM session
// guild; SrcGuildID is the guild the conversation started from.
type DirectMessageCreateEvent struct {
	MessageFields
	GuildID    string `json:"guild_id"`
	ChannelID  string `json:"channel_id"`
	SrcGuildID string `json:"src_guild_id"`
}
