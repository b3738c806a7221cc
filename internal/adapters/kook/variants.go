package kook

import (
	"context"

	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/model"
	"github.com/keepmind9/anybot/internal/platform"
)

// MsgEvent is the unified view of a KOOK message
type MsgEvent struct {
	event.Base[*Bot, MessageEvent]
	user    event.Cache[*User]
	guildID string
}

func NewMsgEvent(bot *Bot, ev MessageEvent) *MsgEvent {
	return &MsgEvent{Base: event.NewBase(platform.KOOK, bot, ev)}
}

func (e *MsgEvent) Message() any { return e.Event().GetMessage() }

func (e *MsgEvent) Plaintext() string { return e.Event().GetMessage().PlainText() }

func (e *MsgEvent) Images() []string {
	var urls []string
	for _, s := range e.Event().GetMessage() {
		if s.Type == "image" && s.Data["file_key"] != "" {
			urls = append(urls, s.Data["file_key"])
		}
	}
	return urls
}

func (e *MsgEvent) UserID() string { return e.Event().GetUserID() }

func (e *MsgEvent) Name() string { return e.Event().GetAuthor().Username }

func (e *MsgEvent) Reply() any {
	if q := e.Event().GetQuote(); q != nil {
		return q
	}
	return nil
}

func (e *MsgEvent) viewUser(ctx context.Context) (*User, error) {
	return e.user.Get(func() (*User, error) {
		if e.Bot() == nil {
			return nil, event.ErrNoBot
		}
		return e.Bot().User(ctx, e.UserID(), e.guildID)
	})
}

func (e *MsgEvent) UserInfo(ctx context.Context) (*model.User, error) {
	u, err := e.viewUser(ctx)
	if err != nil {
		return nil, err
	}
	return &model.User{ID: u.ID, Name: u.Username, Avatar: model.NonEmpty(u.Avatar)}, nil
}

func (e *MsgEvent) AvatarURL(ctx context.Context) (string, error) {
	u, err := e.viewUser(ctx)
	if err != nil {
		return "", err
	}
	return u.Avatar, nil
}

func (e *MsgEvent) UserRichID() string { return event.RichID(platform.KOOK, e.UserID()) }

// GroupMsgEvent is a channel message: the guild is the group
type GroupMsgEvent struct {
	MsgEvent
	native  *ChannelMessageEvent
	guild   event.Cache[*model.Group]
	channel event.Cache[*model.Group]
}

func NewGroupMsgEvent(bot *Bot, ev *ChannelMessageEvent) *GroupMsgEvent {
	return &GroupMsgEvent{
		MsgEvent: MsgEvent{Base: event.NewBase[*Bot, MessageEvent](platform.KOOK, bot, ev), guildID: ev.Extra.GuildID},
		native:   ev,
	}
}

func (e *GroupMsgEvent) GroupID() string { return e.native.Extra.GuildID }

func (e *GroupMsgEvent) ChannelID() string { return e.native.TargetID }

func (e *GroupMsgEvent) GroupInfo(ctx context.Context) (*model.Group, error) {
	return e.guild.Get(func() (*model.Group, error) {
		if e.Bot() == nil {
			return nil, event.ErrNoBot
		}
		g, err := e.Bot().Guild(ctx, e.GroupID())
		if err != nil {
			return nil, err
		}
		return &model.Group{ID: g.ID, Name: g.Name, Avatar: model.NonEmpty(g.Icon), OwnerID: model.NonEmpty(g.Master)}, nil
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
		return &model.Group{ID: c.ID, Name: c.Name, OwnerID: model.NonEmpty(c.UserID)}, nil
	})
}

func (e *GroupMsgEvent) GroupName(ctx context.Context) (string, error) {
	info, err := e.GroupInfo(ctx)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

// ChannelName comes with the event, no request is made
func (e *GroupMsgEvent) ChannelName(context.Context) (string, error) {
	return e.native.Extra.ChannelName, nil
}

func (e *GroupMsgEvent) GroupRichID() string { return event.RichID(platform.KOOK, e.GroupID()) }

func (e *GroupMsgEvent) ChannelRichID() string { return event.RichID(platform.KOOK, e.ChannelID()) }
