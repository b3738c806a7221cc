package qq

import (
	"strings"
)

// Segment is one QQ message segment
type Segment struct {
	Type string            `json:"type"`
	Data map[string]string `json:"data"`
	// Content holds the bytes of a file_image segment
	Content []byte `json:"-"`
}

// Message is a QQ message as a segment list
type Message []Segment

// TextSeg creates a text segment
func TextSeg(text string) Segment {
	return Segment{Type: "text", Data: map[string]string{"text": text}}
}

// MentionUserSeg creates a user mention
func MentionUserSeg(userID string) Segment {
	return Segment{Type: "mention_user", Data: map[string]string{"user_id": userID}}
}

// ImageSeg creates an image referenced by URL
func ImageSeg(url string) Segment {
	return Segment{Type: "image", Data: map[string]string{"url": url}}
}

// FileImagePathSeg creates an image uploaded from a local file
func FileImagePathSeg(path string) Segment {
	return Segment{Type: "file_image", Data: map[string]string{"path": path}}
}

// FileImageSeg creates an image uploaded from raw content
func FileImageSeg(content []byte) Segment {
	return Segment{Type: "file_image", Data: map[string]string{}, Content: content}
}

// ReferenceSeg marks the message as a reply to messageID
func ReferenceSeg(messageID string) Segment {
	return Segment{Type: "reference", Data: map[string]string{"message_id": messageID}}
}

// AttachmentSeg is an inbound attachment
func AttachmentSeg(url string) Segment {
	return Segment{Type: "attachment", Data: map[string]string{"url": url}}
}

// PlainText concatenates the text segments of m
func (m Message) PlainText() string {
	var sb strings.Builder
	for _, s := range m {
		if s.Type == "text" {
			sb.WriteString(s.Data["text"])
		}
	}
	return sb.String()
}

// User is a guild user
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Bot      bool   `json:"bot"`
}

// Member is the guild member block of a channel message
type Member struct {
	Nick     string   `json:"nick"`
	Roles    []string `json:"roles"`
	JoinedAt string   `json:"joined_at"`
}

// Attachment is a file attached to an inbound message. URL may lack a scheme.
type Attachment struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Filename    string `json:"filename"`
}

// ReplyMessage is the message an event replies to
type ReplyMessage struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Author  User   `json:"author"`
}

// MessageEvent is any QQ message event
type MessageEvent interface {
	GetID() string
	GetUserID() string
	GetMessage() Message
	GetReply() *ReplyMessage
	IsToMe() bool
	qqEvent()
}

// GuildMessageEvent is a message that happened inside a guild, including guild DMs
type GuildMessageEvent interface {
	MessageEvent
	GetAuthor() User
	GetGuildID() string
	GetChannelID() string
}

// ChannelMessageEvent is a message posted in a guild channel
type ChannelMessageEvent interface {
	GuildMessageEvent
	GetMember() *Member
}

// MessageFields holds the fields every message event carries
type MessageFields struct {
	ID          string       `json:"id"`
	Content     string       `json:"content"`
	Timestamp   string       `json:"timestamp"`
	Attachments []Attachment `json:"attachments"`
	// Reply is filled by the host when the message quotes another one
	Reply *ReplyMessage `json:"-"`
}

func (f *MessageFields) GetID() string           { return f.ID }
func (f *MessageFields) GetReply() *ReplyMessage { return f.Reply }
func (f *MessageFields) IsToMe() bool            { return true }
func (f *MessageFields) qqEvent()                 {}

func (f *MessageFields) GetMessage() Message {
	var m Message
	if f.Content != "" {
		m = append(m, TextSeg(f.Content))
	}
	for _, a := range f.Attachments {
		m = append(m, AttachmentSeg(a.URL))
	}
	return m
}

// C2CMessageCreateEvent is a private message
type C2CMessageCreateEvent struct {
	MessageFields
	Author struct {
		UserOpenID string `json:"user_openid"`
	} `json:"author"`
}

func (e *C2CMessageCreateEvent) GetUserID() string { return e.Author.UserOpenID }

// GroupAtMessageCreateEvent is a group message mentioning the bot
type GroupAtMessageCreateEvent struct {
	MessageFields
	GroupOpenID string `json:"group_openid"`
	Author      struct {
		MemberOpenID string `json:"member_openid"`
	} `json:"author"`
}

func (e *GroupAtMessageCreateEvent) GetUserID() string { return e.Author.MemberOpenID }

// GuildFields holds the fields of guild message events
type GuildFields struct {
	MessageFields
	Author    User   `json:"author"`
	GuildID   string `json:"guild_id"`
	ChannelID string `json:"channel_id"`
}

func (f *GuildFields) GetUserID() string    { return f.Author.ID }
func (f *GuildFields) GetAuthor() User      { return f.Author }
func (f *GuildFields) GetGuildID() string   { return f.GuildID }
func (f *GuildFields) GetChannelID() string { return f.ChannelID }

// DirectMessageCreateEvent is a direct message inside a guild
type DirectMessageCreateEvent struct {
	GuildFields
}

// ChannelFields holds the fields of channel message events
type ChannelFields struct {
	GuildFields
	Member *Member `json:"member"`
	// ToMe is filled by the host when the bot is mentioned
	ToMe bool `json:"-"`
}

func (f *ChannelFields) GetMember() *Member { return f.Member }
func (f *ChannelFields) IsToMe() bool       { return f.ToMe }

// MessageCreateEvent is any message posted in a channel the bot can read
type MessageCreateEvent struct {
	ChannelFields
}

// AtMessageCreateEvent is a channel message mentioning the bot
type AtMessageCreateEvent struct {
	ChannelFields
}

func (e *AtMessageCreateEvent) IsToMe() bool { return true }

// Guild is the guild API model
type Guild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	OwnerID     string `json:"owner_id"`
	MemberCount int    `json:"member_count"`
	MaxMembers  int    `json:"max_members"`
}

// Channel is the channel API model
type Channel struct {
	ID      string `json:"id"`
	GuildID string `json:"guild_id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

// MessageReference quotes an earlier message
type MessageReference struct {
	MessageID             string `json:"message_id"`
	IgnoreGetMessageError bool   `json:"ignore_get_message_error"`
}

// PostMessage is an outbound message request
type PostMessage struct {
	Content          string            `json:"content,omitempty"`
	Image            string            `json:"image,omitempty"`
	FileImage        []byte            `json:"-"`
	FileImagePath    string            `json:"-"`
	MsgID            string            `json:"msg_id,omitempty"`
	MessageReference *MessageReference `json:"message_reference,omitempty"`
}

// MessageResult is the response of a post
type MessageResult struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
}
