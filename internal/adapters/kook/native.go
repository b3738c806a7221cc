package kook

import "strings"

// Message types of the KOOK message API
const (
	TypeText      = 1
	TypeImage     = 2
	TypeVideo     = 3
	TypeFile      = 4
	TypeAudio     = 8
	TypeKMarkdown = 9
	TypeCard      = 10
)

// Segment is one piece of a KOOK message before it is rendered for sending
type Segment struct {
	Type string            `json:"type"`
	Data map[string]string `json:"data"`
}

// Message is a KOOK message as a segment list
type Message []Segment

// TextSeg creates a text segment
func TextSeg(text string) Segment {
	return Segment{Type: "text", Data: map[string]string{"content": text}}
}

// AtSeg mentions userID
func AtSeg(userID string) Segment {
	return Segment{Type: "at", Data: map[string]string{"user_id": userID}}
}

// ImageSeg references an uploaded image by its asset URL
func ImageSeg(fileKey string) Segment {
	return Segment{Type: "image", Data: map[string]string{"file_key": fileKey}}
}

// AudioSeg references an uploaded audio asset
func AudioSeg(fileKey string) Segment {
	return Segment{Type: "audio", Data: map[string]string{"file_key": fileKey}}
}

// PlainText concatenates the text segments of m
func (m Message) PlainText() string {
	var sb strings.Builder
	for _, s := range m {
		if s.Type == "text" {
			sb.WriteString(s.Data["content"])
		}
	}
	return sb.String()
}

// User is a KOOK user
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Bot      bool   `json:"bot"`
}

// Quote is the message a KOOK message quotes
type Quote struct {
	ID      string `json:"id"`
	Type    int    `json:"type"`
	Content string `json:"content"`
	Author  User   `json:"author"`
}

// Extra is the type specific block of a message event
type Extra struct {
	Type        int      `json:"type"`
	GuildID     string   `json:"guild_id"`
	ChannelName string   `json:"channel_name"`
	Mention     []string `json:"mention"`
	Author      User     `json:"author"`
	Quote       *Quote   `json:"quote,omitempty"`
}

// MessageEvent is any KOOK message event
type MessageEvent interface {
	GetMsgID() string
	GetUserID() string
	GetAuthor() User
	GetMessage() Message
	GetQuote() *Quote
	IsToMe() bool
	kookEvent()
}

// MessageFields holds the fields of every message event
type MessageFields struct {
	ChannelType  string `json:"channel_type"`
	Type         int    `json:"type"`
	TargetID     string `json:"target_id"`
	AuthorID     string `json:"author_id"`
	Content      string `json:"content"`
	MsgID        string `json:"msg_id"`
	MsgTimestamp int64  `json:"msg_timestamp"`
	Extra        Extra  `json:"extra"`
	// ToMe is filled by the host after parsing
	ToMe bool `json:"-"`
}

func (f *MessageFields) GetMsgID() string  { return f.MsgID }
func (f *MessageFields) GetUserID() string { return f.AuthorID }
func (f *MessageFields) GetAuthor() User   { return f.Extra.Author }
func (f *MessageFields) GetQuote() *Quote  { return f.Extra.Quote }
func (f *MessageFields) IsToMe() bool      { return f.ToMe }
func (f *MessageFields) kookEvent()        {}

// GetMessage parses the content by message type. Image messages carry the
// asset URL as their content.
func (f *MessageFields) GetMessage() Message {
	switch f.Type {
	case TypeImage:
		return Message{ImageSeg(f.Content)}
	case TypeAudio:
		return Message{AudioSeg(f.Content)}
	default:
		if f.Content == "" {
			return nil
		}
		return Message{TextSeg(f.Content)}
	}
}

// PrivateMessageEvent is a direct message
type PrivateMessageEvent struct {
	MessageFields
}

func (e *PrivateMessageEvent) IsToMe() bool { return true }

// ChannelMessageEvent is a message in a guild text channel; TargetID is the channel
type ChannelMessageEvent struct {
	MessageFields
}

// Guild is the guild/view response
type Guild struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Master string `json:"master_id"`
}

// Channel is the channel/view response
type Channel struct {
	ID      string `json:"id"`
	GuildID string `json:"guild_id"`
	Name    string `json:"name"`
	UserID  string `json:"user_id"`
}

// CreateMessage is a message/create or direct-message/create request
type CreateMessage struct {
	Type     int    `json:"type"`
	TargetID string `json:"target_id"`
	Content  string `json:"content"`
	Quote    string `json:"quote,omitempty"`
}

// MessageResult is the response of a create request
type MessageResult struct {
	MsgID        string `json:"msg_id"`
	MsgTimestamp int64  `json:"msg_timestamp"`
}
