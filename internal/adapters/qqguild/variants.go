package qqguild

import (
	"context"

	"github.com/keepmind9/anybot/internal/adapters/qq"
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/model"
	"github.com/keepmind9/anybot/internal/platform"
)

// MsgEvent is the unified view of a guild message
type MsgEvent struct {
	event.Base[*Bot, MessageEvent]
}

func NewMsgEvent(bot *Bot, ev MessageEvent) *MsgEvent {
	return &MsgEvent{Base: event.NewBase(platform.QQGuild, bot, ev)}
}

func (e *MsgEvent) Message() any { return e.Event().GetMessage() }

func (e *MsgEvent) Plaintext() string { return e.Event().GetMessage().PlainText() }

func (e *MsgEvent) Images() []string { return qq.AttachmentURLs(e.Event().GetMessage()) }

func (e *MsgEvent) UserID() string { return e.Event().GetUserID() }

func (e *MsgEvent) Name() string { return e.Event().GetAuthor().Username }

func (e *MsgEvent) Reply() any {
	if r := e.Event().GetReply(); r != nil {
		return r
	}
	return nil
}

// UserInfo is built from the author block; no request is made
func (e *MsgEvent) UserInfo(context.Context) (*model.User, error) {
	a := e.Event().GetAuthor()
	return &model.User{ID: a.ID, Name: a.Username, Avatar: model.NonEmpty(a.Avatar)}, nil
}

func (e *MsgEvent) AvatarURL(context.Context) (string, error) {
	return e.Event().GetAuthor().Avatar, nil
}

func (e *MsgEvent) UserRichID() string { return event.RichID(platform.QQGuild, e.UserID()) }

// GroupMsgEvent is a channel message: the guild is the group
type GroupMsgEvent struct {
	MsgEvent
	native  ChannelMessageEvent
	guild   event.Cache[*model.Group]
	channel event.Cache[*model.Group]
}

func NewGroupMsgEvent(bot *Bot, ev ChannelMessageEvent) *GroupMsgEvent {
	return &GroupMsgEvent{
		MsgEvent: MsgEvent{Base: event.NewBase[*Bot, MessageEvent](platform.QQGuild, bot, ev)},
		native:   ev,
	}
}

func (e *GroupMsgEvent) GroupID() string { return e.native.GetGuildID() }

func (e *GroupMsgEvent) ChannelID() string { return e.native.GetChannelID() }

func (e *GroupMsgEvent) GroupInfo(ctx context.Context) (*model.Group, error) {
	return e.guild.Get(func() (*model.Group, error) {
		if e.Bot() == nil {
			return nil, event.ErrNoBot
		}
		g, err := e.Bot().Guild(ctx, e.GroupID())
		if err != nil {
			return nil, err
		}
		return qq.GuildToGroup(g), nil
	})
}

func (e *GroupMsgEvent) ChannelInfo(ctx context.Context) (*model.Group, error) {
	return e.channel.Get(func() (*model.Group, error) {
		if e.Bot() == nil {
			return nil, event.ErrNoBot
		}
		c, err := e.Bot().Channel(ctx, e.ChannelID())
		if err != nil {
			return nil, err
		}
		return qq.ChannelToGroup(c), nil
	})
}

func (e *GroupMsgEvent) GroupName(ctx context.Context) (string, error) {
	info, err := e.GroupInfo(ctx)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

func (e *GroupMsgEvent) ChannelName(ctx context.Context) (string, error) {
	info, err := e.ChannelInfo(ctx)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

func (e *GroupMsgEvent) GroupRichID() string {
	return event.RichID(platform.QQGuild, e.GroupID())
}

func (e *GroupMsgEvent) ChannelRichID() string {
	return event.RichID(platform.QQGuild, e.ChannelID())
}
