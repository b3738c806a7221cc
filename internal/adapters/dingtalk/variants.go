package dingtalk

import (
	"context"
	"strings"

	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/model"
	"github.com/keepmind9/anybot/internal/platform"
	"github.com/open-dingtalk/dingtalk-stream-sdk-go/chatbot"
)

// MsgEvent is the unified view of a DingTalk chatbot callback
type MsgEvent struct {
	event.Base[*Bot, MessageEvent]
}

func NewMsgEvent(bot *Bot, ev MessageEvent) *MsgEvent {
	return &MsgEvent{Base: event.NewBase(platform.DingTalk, bot, ev)}
}

func (e *MsgEvent) data() *chatbot.BotCallbackDataModel { return e.Event().GetData() }

func (e *MsgEvent) Message() any { return e.data() }

// Plaintext trims the leading space DingTalk leaves after a robot mention
func (e *MsgEvent) Plaintext() string { return strings.TrimSpace(e.data().Text.Content) }

// Images returns the download codes of a picture message
func (e *MsgEvent) Images() []string {
	d := e.data()
	if d.Msgtype != "picture" {
		return nil
	}
	content, ok := d.Content.(map[string]interface{})
	if !ok {
		return nil
	}
	if code, ok := content["downloadCode"].(string); ok && code != "" {
		return []string{code}
	}
	return nil
}

// UserID prefers the staff id, which is what mentions use
func (e *MsgEvent) UserID() string {
	if id := e.data().SenderStaffId; id != "" {
		return id
	}
	return e.data().SenderId
}

func (e *MsgEvent) Name() string { return e.data().SenderNick }

// Reply is always nil; callbacks carry no reply reference
func (e *MsgEvent) Reply() any { return nil }

// UserInfo is built from the callback alone; DingTalk exposes no avatar to robots
func (e *MsgEvent) UserInfo(context.Context) (*model.User, error) {
	return &model.User{ID: e.UserID(), Name: e.Name()}, nil
}

func (e *MsgEvent) AvatarURL(context.Context) (string, error) { return "", nil }

func (e *MsgEvent) UserRichID() string { return event.RichID(platform.DingTalk, e.UserID()) }

// GroupMsgEvent is the unified view of a group chat callback. DingTalk groups
// have no channels so channel accessors mirror the group.
type GroupMsgEvent struct {
	MsgEvent
}

func NewGroupMsgEvent(bot *Bot, ev *GroupMessageEvent) *GroupMsgEvent {
	return &GroupMsgEvent{MsgEvent{Base: event.NewBase[*Bot, MessageEvent](platform.DingTalk, bot, ev)}}
}

func (e *GroupMsgEvent) GroupID() string { return e.data().ConversationId }

func (e *GroupMsgEvent) ChannelID() string { return e.GroupID() }

func (e *GroupMsgEvent) GroupInfo(context.Context) (*model.Group, error) {
	return &model.Group{ID: e.GroupID(), Name: e.data().ConversationTitle}, nil
}

func (e *GroupMsgEvent) ChannelInfo(ctx context.Context) (*model.Group, error) {
	return e.GroupInfo(ctx)
}

func (e *GroupMsgEvent) GroupName(context.Context) (string, error) {
	return e.data().ConversationTitle, nil
}

func (e *GroupMsgEvent) ChannelName(ctx context.Context) (string, error) {
	return e.GroupName(ctx)
}

func (e *GroupMsgEvent) GroupRichID() string { return event.RichID(platform.DingTalk, e.GroupID()) }

func (e *GroupMsgEvent) ChannelRichID() string { return e.GroupRichID() }
