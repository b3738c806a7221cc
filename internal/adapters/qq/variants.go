package qq

import (
	"context"
	"strings"

	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/model"
	"github.com/keepmind9/anybot/internal/platform"
)

// MsgEvent is the unified view of any QQ message event
type MsgEvent struct {
	event.Base[*Bot, MessageEvent]
	user event.Cache[*model.User]
}

// NewMsgEvent wraps ev
func NewMsgEvent(bot *Bot, ev MessageEvent) *MsgEvent {
	return &MsgEvent{Base: event.NewBase(platform.QQ, bot, ev)}
}

func (e *MsgEvent) Message() any { return e.Event().GetMessage() }

func (e *MsgEvent) Plaintext() string { return e.Event().GetMessage().PlainText() }

func (e *MsgEvent) Images() []string { return AttachmentURLs(e.Event().GetMessage()) }

func (e *MsgEvent) UserID() string { return e.Event().GetUserID() }

// Name is only known for guild authors; C2C and group events carry openids only
func (e *MsgEvent) Name() string {
	if g, ok := e.Event().(GuildMessageEvent); ok {
		return g.GetAuthor().Username
	}
	return ""
}

func (e *MsgEvent) Reply() any {
	if r := e.Event().GetReply(); r != nil {
		return r
	}
	return nil
}

func (e *MsgEvent) UserInfo(ctx context.Context) (*model.User, error) {
	return e.user.Get(func() (*model.User, error) {
		avatar, _ := e.AvatarURL(ctx)
		return &model.User{ID: e.UserID(), Name: e.Name(), Avatar: model.NonEmpty(avatar)}, nil
	})
}

func (e *MsgEvent) AvatarURL(context.Context) (string, error) {
	if g, ok := e.Event().(GuildMessageEvent); ok {
		return g.GetAuthor().Avatar, nil
	}
	return "", nil
}

func (e *MsgEvent) UserRichID() string { return event.RichID(platform.QQ, e.UserID()) }

// GroupMsgEvent is the unified view of a group message mentioning the bot.
// QQ exposes no group metadata API, so only the id is known.
type GroupMsgEvent struct {
	MsgEvent
	groupID string
}

// NewGroupMsgEvent wraps ev
func NewGroupMsgEvent(bot *Bot, ev *GroupAtMessageCreateEvent) *GroupMsgEvent {
	return &GroupMsgEvent{
		MsgEvent: MsgEvent{Base: event.NewBase[*Bot, MessageEvent](platform.QQ, bot, ev)},
		groupID:  ev.GroupOpenID,
	}
}

func (e *GroupMsgEvent) GroupID() string { return e.groupID }

func (e *GroupMsgEvent) ChannelID() string { return e.groupID }

func (e *GroupMsgEvent) GroupInfo(context.Context) (*model.Group, error) {
	return &model.Group{ID: e.groupID}, nil
}

func (e *GroupMsgEvent) ChannelInfo(ctx context.Context) (*model.Group, error) {
	return e.GroupInfo(ctx)
}

func (e *GroupMsgEvent) GroupName(context.Context) (string, error) { return "", nil }

func (e *GroupMsgEvent) ChannelName(context.Context) (string, error) { return "", nil }

func (e *GroupMsgEvent) GroupRichID() string { return event.RichID(platform.QQ, e.groupID) }

func (e *GroupMsgEvent) ChannelRichID() string { return e.GroupRichID() }

// GuildMsgEvent is the unified view of a guild channel message. The guild is
// the group and the channel is the second level.
type GuildMsgEvent struct {
	MsgEvent
	native  ChannelMessageEvent
	guild   event.Cache[*model.Group]
	channel event.Cache[*model.Group]
}

// NewGuildMsgEvent wraps ev
func NewGuildMsgEvent(bot *Bot, ev ChannelMessageEvent) *GuildMsgEvent {
	return &GuildMsgEvent{
		MsgEvent: MsgEvent{Base: event.NewBase[*Bot, MessageEvent](platform.QQ, bot, ev)},
		native:   ev,
	}
}

func (e *GuildMsgEvent) GroupID() string { return e.native.GetGuildID() }

func (e *GuildMsgEvent) ChannelID() string { return e.native.GetChannelID() }

func (e *GuildMsgEvent) GroupInfo(ctx context.Context) (*model.Group, error) {
	return e.guild.Get(func() (*model.Group, error) {
		if e.Bot() == nil {
			return nil, event.ErrNoBot
		}
		g, err := e.Bot().Guild(ctx, e.GroupID())
		if err != nil {
			return nil, err
		}
		return GuildToGroup(g), nil
	})
}

func (e *GuildMsgEvent) ChannelInfo(ctx context.Context) (*model.Group, error) {
	return e.channel.Get(func() (*model.Group, error) {
		if e.Bot() == nil {
			return nil, event.ErrNoBot
		}
		c, err := e.Bot().Channel(ctx, e.ChannelID())
		if err != nil {
			return nil, err
		}
		return ChannelToGroup(c), nil
	})
}

func (e *GuildMsgEvent) GroupName(ctx context.Context) (string, error) {
	info, err := e.GroupInfo(ctx)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

func (e *GuildMsgEvent) ChannelName(ctx context.Context) (string, error) {
	info, err := e.ChannelInfo(ctx)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

func (e *GuildMsgEvent) GroupRichID() string { return event.RichID(platform.QQ, e.GroupID()) }

func (e *GuildMsgEvent) ChannelRichID() string { return event.RichID(platform.QQ, e.ChannelID()) }

// AttachmentURLs returns the attachment URLs of msg. QQ omits the scheme, so
// http is assumed when it is missing.
func AttachmentURLs(msg Message) []string {
	var urls []string
	for _, s := range msg {
		if s.Type != "attachment" {
			continue
		}
		u := s.Data["url"]
		if !strings.Contains(u, "://") {
			u = "http://" + u
		}
		urls = append(urls, u)
	}
	return urls
}

// GuildToGroup normalizes guild metadata
func GuildToGroup(g *Guild) *model.Group {
	return &model.Group{
		ID:          g.ID,
		Name:        g.Name,
		Avatar:      model.NonEmpty(g.Icon),
		OwnerID:     model.NonEmpty(g.OwnerID),
		MemberCount: model.Ptr(g.MemberCount),
		MaxMembers:  model.Ptr(g.MaxMembers),
	}
}

// ChannelToGroup normalizes channel metadata
func ChannelToGroup(c *Channel) *model.Group {
	return &model.Group{ID: c.ID, Name: c.Name, OwnerID: model.NonEmpty(c.OwnerID)}
}
