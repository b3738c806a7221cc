package onebot

import "strings"

// Segment is one OneBot v11 message segment
type Segment struct {
	Type string            `json:"type"`
	Data map[string]string `json:"data"`
}

// Message is a OneBot v11 message in array form
type Message []Segment

// TextSeg creates a text segment
func TextSeg(text string) Segment {
	return Segment{Type: "text", Data: map[string]string{"text": text}}
}

// AtSeg creates a mention segment
func AtSeg(userID string) Segment {
	return Segment{Type: "at", Data: map[string]string{"qq": userID}}
}

// ImageSeg creates an image segment; file is a URL, file:// path or base64:// payload
func ImageSeg(file string) Segment {
	return Segment{Type: "image", Data: map[string]string{"file": file}}
}

// RecordSeg creates a voice segment
func RecordSeg(file string) Segment {
	return Segment{Type: "record", Data: map[string]string{"file": file}}
}

// ReplySeg creates a reply reference to messageID
func ReplySeg(messageID string) Segment {
	return Segment{Type: "reply", Data: map[string]string{"id": messageID}}
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

// Sender is the sender block of a message event
type Sender struct {
	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
	Card     string `json:"card,omitempty"`
	Sex      string `json:"sex,omitempty"`
	Age      int    `json:"age,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Reply is the message a message event replies to
type Reply struct {
	MessageID int64   `json:"message_id"`
	Time      int64   `json:"time"`
	Sender    Sender  `json:"sender"`
	Message   Message `json:"message"`
}

// Event is any OneBot v11 event
type Event interface {
	GetPostType() string
	GetSelfID() int64
}

// MessageEvent is a private or group message
type MessageEvent interface {
	Event
	GetMessageID() int64
	GetUserID() int64
	GetMessage() Message
	GetSender() Sender
	GetReply() *Reply
	IsToMe() bool
}

// GroupNotice is a notice that happened in a group
type GroupNotice interface {
	Event
	GetNoticeType() string
	GetGroupID() int64
	GetUserID() int64
}

// MessageFields holds the fields shared by message events
type MessageFields struct {
	Time        int64   `json:"time"`
	SelfID      int64   `json:"self_id"`
	MessageType string  `json:"message_type"`
	SubType     string  `json:"sub_type"`
	MessageID   int64   `json:"message_id"`
	UserID      int64   `json:"user_id"`
	Message     Message `json:"message"`
	RawMessage  string  `json:"raw_message"`
	Sender      Sender  `json:"sender"`
	// Reply and ToMe are filled by the host after parsing
	Reply *Reply `json:"-"`
	ToMe  bool   `json:"-"`
}

func (f *MessageFields) GetPostType() string { return "message" }
func (f *MessageFields) GetSelfID() int64    { return f.SelfID }
func (f *MessageFields) GetMessageID() int64 { return f.MessageID }
func (f *MessageFields) GetUserID() int64    { return f.UserID }
func (f *MessageFields) GetMessage() Message { return f.Message }
func (f *MessageFields) GetSender() Sender   { return f.Sender }
func (f *MessageFields) GetReply() *Reply    { return f.Reply }
func (f *MessageFields) IsToMe() bool        { return f.ToMe }

// PrivateMessageEvent is a direct message
type PrivateMessageEvent struct {
	MessageFields
}

// GroupMessageEvent is a message sent in a group
type GroupMessageEvent struct {
	MessageFields
	GroupID int64 `json:"group_id"`
}

// NoticeFields holds the fields shared by group notices
type NoticeFields struct {
	Time       int64  `json:"time"`
	SelfID     int64  `json:"self_id"`
	NoticeType string `json:"notice_type"`
	SubType    string `json:"sub_type"`
	GroupID    int64  `json:"group_id"`
	UserID     int64  `json:"user_id"`
	OperatorID int64  `json:"operator_id"`
}

func (f *NoticeFields) GetPostType() string   { return "notice" }
func (f *NoticeFields) GetSelfID() int64      { return f.SelfID }
func (f *NoticeFields) GetNoticeType() string { return f.NoticeType }
func (f *NoticeFields) GetGroupID() int64     { return f.GroupID }
func (f *NoticeFields) GetUserID() int64      { return f.UserID }

// GroupIncreaseNoticeEvent reports a member joining a group
type GroupIncreaseNoticeEvent struct {
	NoticeFields
}

// GroupDecreaseNoticeEvent reports a member leaving a group
type GroupDecreaseNoticeEvent struct {
	NoticeFields
}

// GroupRecallNoticeEvent reports a recalled group message
type GroupRecallNoticeEvent struct {
	NoticeFields
	MessageID int64 `json:"message_id"`
}

// GroupInfo is the get_group_info response
type GroupInfo struct {
	GroupID        int64  `json:"group_id"`
	GroupName      string `json:"group_name"`
	MemberCount    int    `json:"member_count"`
	MaxMemberCount int    `json:"max_member_count"`
}

// SendMsgParams is the send_msg request
type SendMsgParams struct {
	MessageType string  `json:"message_type"`
	UserID      int64   `json:"user_id,omitempty"`
	GroupID     int64   `json:"group_id,omitempty"`
	Message     Message `json:"message"`
}
