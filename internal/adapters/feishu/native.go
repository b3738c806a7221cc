package feishu

import (
	"encoding/json"
	"strings"

	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
)

// MessageEvent is an im.message.receive_v1 event
type MessageEvent interface {
	GetData() *larkim.P2MessageReceiveV1Data
	IsToMe() bool
	feishuEvent()
}

// MessageFields wraps the receive event payload
type MessageFields struct {
	Data *larkim.P2MessageReceiveV1Data
	ToMe bool
}

func (f *MessageFields) GetData() *larkim.P2MessageReceiveV1Data { return f.Data }
func (f *MessageFields) IsToMe() bool                            { return f.ToMe }
func (f *MessageFields) feishuEvent()                            {}

// PrivateMessageEvent is a p2p chat message
type PrivateMessageEvent struct {
	MessageFields
}

// GroupMessageEvent is a group chat message
type GroupMessageEvent struct {
	MessageFields
}

// FromReceive classifies a receive event for the bot with open id botOpenID
func FromReceive(ev *larkim.P2MessageReceiveV1, botOpenID string) MessageEvent {
	if ev == nil || ev.Event == nil || ev.Event.Message == nil {
		return nil
	}
	m := ev.Event.Message
	if str(m.ChatType) != "group" {
		return &PrivateMessageEvent{MessageFields{Data: ev.Event, ToMe: true}}
	}
	toMe := false
	for _, at := range m.Mentions {
		if at != nil && at.Id != nil && str(at.Id.OpenId) == botOpenID {
			toMe = true
			break
		}
	}
	return &GroupMessageEvent{MessageFields{Data: ev.Event, ToMe: toMe}}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// PostElement is one inline element of a post message
type PostElement struct {
	Tag      string `json:"tag"`
	Text     string `json:"text,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	ImageKey string `json:"image_key,omitempty"`
}

type post struct {
	Title   string          `json:"title"`
	Content [][]PostElement `json:"content"`
}

// Outgoing is one message to send: a post, or an audio referencing an
// uploaded file.
type Outgoing struct {
	MsgType string
	Post    []PostElement
	FileKey string
}

// Content renders the message content JSON
func (o Outgoing) Content() (string, error) {
	var v any
	switch o.MsgType {
	case larkim.MsgTypeAudio:
		v = map[string]string{"file_key": o.FileKey}
	default:
		v = map[string]post{"zh_cn": {Content: [][]PostElement{o.Post}}}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// received is the union of the content shapes of text, image and post messages
type received struct {
	Text     string          `json:"text"`
	ImageKey string          `json:"image_key"`
	Content  [][]PostElement `json:"content"`
}

func parseContent(m *larkim.EventMessage) received {
	var r received
	if m == nil || m.Content == nil {
		return r
	}
	_ = json.Unmarshal([]byte(*m.Content), &r)
	return r
}

// plainText extracts the text of a received message
func plainText(m *larkim.EventMessage) string {
	r := parseContent(m)
	if r.Text != "" {
		return r.Text
	}
	var sb strings.Builder
	for _, line := range r.Content {
		for _, el := range line {
			if el.Tag == "text" {
				sb.WriteString(el.Text)
			}
		}
	}
	return sb.String()
}

// imageKeys lists the images of a received message
func imageKeys(m *larkim.EventMessage) []string {
	r := parseContent(m)
	var keys []string
	if r.ImageKey != "" {
		keys = append(keys, r.ImageKey)
	}
	for _, line := range r.Content {
		for _, el := range line {
			if el.Tag == "img" && el.ImageKey != "" {
				keys = append(keys, el.ImageKey)
			}
		}
	}
	return keys
}
