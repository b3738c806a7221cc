package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MessageEvent is a Telegram message update
type MessageEvent interface {
	GetMessage() *tgbotapi.Message
	IsToMe() bool
	telegramEvent()
}

// MessageFields wraps the message of an update
type MessageFields struct {
	Message *tgbotapi.Message
	ToMe    bool
}

func (f *MessageFields) GetMessage() *tgbotapi.Message { return f.Message }
func (f *MessageFields) IsToMe() bool                  { return f.ToMe }
func (f *MessageFields) telegramEvent()                {}

// PrivateMessageEvent is a message in a private chat
type PrivateMessageEvent struct {
	MessageFields
}

// GroupMessageEvent is a message in a group or supergroup
type GroupMessageEvent struct {
	MessageFields
}

// FromUpdate classifies the message of u for the bot named botUserName.
// Updates without a message yield nil.
func FromUpdate(u tgbotapi.Update, botUserName string) MessageEvent {
	m := u.Message
	if m == nil || m.Chat == nil {
		return nil
	}
	if m.Chat.IsGroup() || m.Chat.IsSuperGroup() {
		toMe := botUserName != "" && strings.Contains(m.Text, "@"+botUserName)
		if r := m.ReplyToMessage; r != nil && r.From != nil && r.From.UserName == botUserName {
			toMe = true
		}
		return &GroupMessageEvent{MessageFields{Message: m, ToMe: toMe}}
	}
	return &PrivateMessageEvent{MessageFields{Message: m, ToMe: true}}
}

// Kind of an outgoing message
type Kind string

const (
	KindText  Kind = "text"
	KindPhoto Kind = "photo"
	KindVoice Kind = "voice"
)

// Outgoing is one message to send. Text is HTML; for photos and voices it
// is the caption.
type Outgoing struct {
	Kind Kind
	Text string
	File tgbotapi.RequestFileData
}
