package onebot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/model"
	"github.com/keepmind9/anybot/internal/platform"
	"github.com/keepmind9/anybot/pkg/constants"
)

// MsgEvent is the unified view of a OneBot message event
type MsgEvent struct {
	event.Base[*Bot, MessageEvent]
	user event.Cache[*model.User]
}

// NewMsgEvent wraps ev
func NewMsgEvent(bot *Bot, ev MessageEvent) *MsgEvent {
	return &MsgEvent{Base: event.NewBase(platform.OneBotV11, bot, ev)}
}

func (e *MsgEvent) Message() any { return e.Event().GetMessage() }

func (e *MsgEvent) Plaintext() string { return e.Event().GetMessage().PlainText() }

func (e *MsgEvent) Images() []string {
	var urls []string
	for _, s := range e.Event().GetMessage() {
		if s.Type != "image" {
			continue
		}
		if u, ok := s.Data["url"]; ok {
			urls = append(urls, u)
		}
	}
	return urls
}

func (e *MsgEvent) UserID() string { return strconv.FormatInt(e.Event().GetUserID(), 10) }

func (e *MsgEvent) Name() string { return e.Event().GetSender().Nickname }

// Sex returns "male", "female" or "" when the sender did not disclose it
func (e *MsgEvent) Sex() string {
	switch s := e.Event().GetSender().Sex; s {
	case "male", "female":
		return s
	default:
		return ""
	}
}

// Age returns the sender age, 0 when unknown
func (e *MsgEvent) Age() int { return e.Event().GetSender().Age }

// SelfID returns the id of the account that received the event
func (e *MsgEvent) SelfID() string { return strconv.FormatInt(e.Event().GetSelfID(), 10) }

func (e *MsgEvent) Reply() any {
	if r := e.Event().GetReply(); r != nil {
		return r
	}
	return nil
}

func (e *MsgEvent) UserInfo(ctx context.Context) (*model.User, error) {
	return e.user.Get(func() (*model.User, error) {
		sender := e.Event().GetSender()
		id := ""
		if sender.UserID != 0 {
			id = strconv.FormatInt(sender.UserID, 10)
		}
		avatar, _ := e.AvatarURL(ctx)
		return &model.User{ID: id, Name: sender.Nickname, Avatar: model.NonEmpty(avatar)}, nil
	})
}

func (e *MsgEvent) AvatarURL(context.Context) (string, error) {
	return fmt.Sprintf(constants.OneBotAvatarURL, e.UserID()), nil
}

func (e *MsgEvent) UserRichID() string { return event.RichID(platform.OneBotV11, e.UserID()) }

// groupCapability implements the group axis for any event carrying a group id.
// OneBot groups have no channels, so channel accessors mirror the group.
type groupCapability struct {
	bot     *Bot
	groupID int64
	group   event.Cache[*model.Group]
}

func (g *groupCapability) GroupID() string { return strconv.FormatInt(g.groupID, 10) }

func (g *groupCapability) ChannelID() string { return g.GroupID() }

func (g *groupCapability) GroupInfo(ctx context.Context) (*model.Group, error) {
	return g.group.Get(func() (*model.Group, error) {
		if g.bot == nil {
			return nil, event.ErrNoBot
		}
		info, err := g.bot.GroupInfo(ctx, g.groupID)
		if err != nil {
			return nil, err
		}
		return &model.Group{
			ID:          strconv.FormatInt(info.GroupID, 10),
			Name:        info.GroupName,
			Avatar:      model.Ptr(g.GroupIcon()),
			MemberCount: model.Ptr(info.MemberCount),
			MaxMembers:  model.Ptr(info.MaxMemberCount),
		}, nil
	})
}

// GroupIcon returns the group avatar URL
func (g *groupCapability) GroupIcon() string {
	id := g.GroupID()
	return fmt.Sprintf(constants.OneBotGroupIconURL, id, id)
}

func (g *groupCapability) ChannelInfo(ctx context.Context) (*model.Group, error) {
	return g.GroupInfo(ctx)
}

func (g *groupCapability) GroupName(ctx context.Context) (string, error) {
	info, err := g.GroupInfo(ctx)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

func (g *groupCapability) ChannelName(ctx context.Context) (string, error) {
	return g.GroupName(ctx)
}

func (g *groupCapability) GroupRichID() string {
	return event.RichID(platform.OneBotV11, g.GroupID())
}

func (g *groupCapability) ChannelRichID() string { return g.GroupRichID() }

// GroupMsgEvent is the unified view of a OneBot group message
type GroupMsgEvent struct {
	MsgEvent
	groupCapability
}

// NewGroupMsgEvent wraps ev
func NewGroupMsgEvent(bot *Bot, ev *GroupMessageEvent) *GroupMsgEvent {
	return &GroupMsgEvent{
		MsgEvent:        MsgEvent{Base: event.NewBase[*Bot, MessageEvent](platform.OneBotV11, bot, ev)},
		groupCapability: groupCapability{bot: bot, groupID: ev.GroupID},
	}
}

// GroupNoticeEvent is the unified view of a group notice; it has no message
type GroupNoticeEvent struct {
	event.Base[*Bot, GroupNotice]
	groupCapability
}

// NewGroupNoticeEvent wraps ev
func NewGroupNoticeEvent(bot *Bot, ev GroupNotice) *GroupNoticeEvent {
	return &GroupNoticeEvent{
		Base:            event.NewBase(platform.OneBotV11, bot, ev),
		groupCapability: groupCapability{bot: bot, groupID: ev.GetGroupID()},
	}
}

// NoticeType returns the OneBot notice type, such as group_increase
func (e *GroupNoticeEvent) NoticeType() string { return e.Event().GetNoticeType() }

// UserID returns the member the notice is about
func (e *GroupNoticeEvent) UserID() string { return strconv.FormatInt(e.Event().GetUserID(), 10) }
