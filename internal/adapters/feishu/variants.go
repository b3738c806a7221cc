package feishu

import (
	"context"

	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/model"
	"github.com/keepmind9/anybot/internal/platform"
	larkcontact "github.com/larksuite/oapi-sdk-go/v3/service/contact/v3"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
)

// MsgEvent is the unified view of a Feishu message
type MsgEvent struct {
	event.Base[*Bot, MessageEvent]
	user event.Cache[*larkcontact.User]
}

func NewMsgEvent(bot *Bot, ev MessageEvent) *MsgEvent {
	return &MsgEvent{Base: event.NewBase(platform.Feishu, bot, ev)}
}

func (e *MsgEvent) msg() *larkim.EventMessage { return e.Event().GetData().Message }

// Message returns the received message; its content is JSON
func (e *MsgEvent) Message() any { return e.msg() }

func (e *MsgEvent) Plaintext() string { return plainText(e.msg()) }

// Images returns image keys; they are resolved with the message resource API
func (e *MsgEvent) Images() []string { return imageKeys(e.msg()) }

// UserID is the sender open id
func (e *MsgEvent) UserID() string { return senderOpenID(e.Event().GetData()) }

// Name is only known after UserInfo has fetched the sender
func (e *MsgEvent) Name() string {
	if u, ok := e.user.Peek(); ok {
		return str(u.Name)
	}
	return ""
}

// Reply returns the id of the parent message
func (e *MsgEvent) Reply() any {
	if id := str(e.msg().ParentId); id != "" {
		return id
	}
	return nil
}

func (e *MsgEvent) fetchUser(ctx context.Context) (*larkcontact.User, error) {
	return e.user.Get(func() (*larkcontact.User, error) {
		if e.Bot() == nil {
			return nil, event.ErrNoBot
		}
		return e.Bot().User(ctx, e.UserID())
	})
}

func (e *MsgEvent) UserInfo(ctx context.Context) (*model.User, error) {
	u, err := e.fetchUser(ctx)
	if err != nil {
		return nil, err
	}
	return &model.User{ID: e.UserID(), Name: str(u.Name), Avatar: model.NonEmpty(avatarOf(u))}, nil
}

func (e *MsgEvent) AvatarURL(ctx context.Context) (string, error) {
	u, err := e.fetchUser(ctx)
	if err != nil {
		return "", err
	}
	return avatarOf(u), nil
}

func (e *MsgEvent) UserRichID() string { return event.RichID(platform.Feishu, e.UserID()) }

func avatarOf(u *larkcontact.User) string {
	if u.Avatar == nil {
		return ""
	}
	return str(u.Avatar.Avatar640)
}

// GroupMsgEvent is a group chat message. Chats have no channels, so the
// channel accessors mirror the chat.
type GroupMsgEvent struct {
	MsgEvent
	group event.Cache[*model.Group]
}

func NewGroupMsgEvent(bot *Bot, ev *GroupMessageEvent) *GroupMsgEvent {
	return &GroupMsgEvent{MsgEvent: MsgEvent{Base: event.NewBase[*Bot, MessageEvent](platform.Feishu, bot, ev)}}
}

func (e *GroupMsgEvent) GroupID() string { return str(e.msg().ChatId) }

func (e *GroupMsgEvent) ChannelID() string { return e.GroupID() }

func (e *GroupMsgEvent) GroupInfo(ctx context.Context) (*model.Group, error) {
	return e.group.Get(func() (*model.Group, error) {
		if e.Bot() == nil {
			return nil, event.ErrNoBot
		}
		c, err := e.Bot().Chat(ctx, e.GroupID())
		if err != nil {
			return nil, err
		}
		return &model.Group{
			ID:      e.GroupID(),
			Name:    str(c.Name),
			Avatar:  model.NonEmpty(str(c.Avatar)),
			OwnerID: model.NonEmpty(str(c.OwnerId)),
		}, nil
	})
}

func (e *GroupMsgEvent) ChannelInfo(ctx context.Context) (*model.Group, error) {
	return e.GroupInfo(ctx)
}

func (e *GroupMsgEvent) GroupName(ctx context.Context) (string, error) {
	info, err := e.GroupInfo(ctx)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

func (e *GroupMsgEvent) ChannelName(ctx context.Context) (string, error) {
	return e.GroupName(ctx)
}

func (e *GroupMsgEvent) GroupRichID() string { return event.RichID(platform.Feishu, e.GroupID()) }

func (e *GroupMsgEvent) ChannelRichID() string { return e.GroupRichID() }
