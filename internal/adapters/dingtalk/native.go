package dingtalk

import "github.com/open-dingtalk/dingtalk-stream-sdk-go/chatbot"

// conversation types of a chatbot callback
const (
	conversationPrivate = "1"
	conversationGroup   = "2"
)

// MessageEvent is a chatbot callback
type MessageEvent interface {
	GetData() *chatbot.BotCallbackDataModel
	IsToMe() bool
	dingtalkEvent()
}

// MessageFields wraps the callback payload
type MessageFields struct {
	Data *chatbot.BotCallbackDataModel
}

func (f *MessageFields) GetData() *chatbot.BotCallbackDataModel { return f.Data }
func (f *MessageFields) dingtalkEvent()                         {}

// IsToMe holds for private chats and group messages that mention the robot
func (f *MessageFields) IsToMe() bool {
	return f.Data.ConversationType != conversationGroup || f.Data.IsInAtList
}

// PrivateMessageEvent is a one to one chat message
type PrivateMessageEvent struct {
	MessageFields
}

// GroupMessageEvent is a group chat message
type GroupMessageEvent struct {
	MessageFields
}

// FromCallback classifies a chatbot callback
func FromCallback(data *chatbot.BotCallbackDataModel) MessageEvent {
	if data == nil {
		return nil
	}
	if data.ConversationType == conversationGroup {
		return &GroupMessageEvent{MessageFields{Data: data}}
	}
	return &PrivateMessageEvent{MessageFields{Data: data}}
}

// Outgoing is one markdown reply
type Outgoing struct {
	Title     string
	Text      string
	AtUserIDs []string
}

// Body renders the session webhook request body
func (o Outgoing) Body() map[string]interface{} {
	title := o.Title
	if title == "" {
		title = "reply"
	}
	body := map[string]interface{}{
		"msgtype":  "markdown",
		"markdown": map[string]interface{}{"title": title, "text": o.Text},
	}
	if len(o.AtUserIDs) > 0 {
		body["at"] = map[string]interface{}{"atUserIds": o.AtUserIDs}
	}
	return body
}
