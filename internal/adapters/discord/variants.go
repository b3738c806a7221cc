package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/model"
	"github.com/keepmind9/anybot/internal/platform"
)

const guildIconURL = "https://cdn.discordapp.com/icons/%s/%s.png"

// MsgEvent is the unified view of a Discord message
type MsgEvent struct {
	event.Base[*Bot, MessageEvent]
}

func NewMsgEvent(bot *Bot, ev MessageEvent) *MsgEvent {
	return &MsgEvent{Base: event.NewBase(platform.Discord, bot, ev)}
}

func (e *MsgEvent) msg() *discordgo.Message { return e.Event().GetMessage() }

func (e *MsgEvent) author() *discordgo.User {
	if a := e.msg().Author; a != nil {
		return a
	}
	return &discordgo.User{}
}

// Message returns the gateway message
func (e *MsgEvent) Message() any { return e.msg() }

func (e *MsgEvent) Plaintext() string { return e.msg().Content }

func (e *MsgEvent) Images() []string {
	var urls []string
	for _, a := range e.msg().Attachments {
		if strings.HasPrefix(a.ContentType, "image/") {
			urls = append(urls, a.URL)
		}
	}
	return urls
}

func (e *MsgEvent) UserID() string { return e.author().ID }

func (e *MsgEvent) Name() string { return e.author().Username }

func (e *MsgEvent) Reply() any {
	if r := e.msg().ReferencedMessage; r != nil {
		return r
	}
	return nil
}

// UserInfo is built from the message author; no request is made
func (e *MsgEvent) UserInfo(ctx context.Context) (*model.User, error) {
	a := e.author()
	avatar, _ := e.AvatarURL(ctx)
	return &model.User{ID: a.ID, Name: a.Username, Avatar: model.NonEmpty(avatar)}, nil
}

func (e *MsgEvent) AvatarURL(context.Context) (string, error) {
	return e.author().AvatarURL(""), nil
}

func (e *MsgEvent) UserRichID() string { return event.RichID(platform.Discord, e.UserID()) }

// GroupMsgEvent is a guild message: the guild is the group
type GroupMsgEvent struct {
	MsgEvent
	guild   event.Cache[*model.Group]
	channel event.Cache[*model.Group]
}

func NewGroupMsgEvent(bot *Bot, ev *GuildMessageEvent) *GroupMsgEvent {
	return &GroupMsgEvent{MsgEvent: MsgEvent{Base: event.NewBase[*Bot, MessageEvent](platform.Discord, bot, ev)}}
}

func (e *GroupMsgEvent) GroupID() string { return e.msg().GuildID }

func (e *GroupMsgEvent) ChannelID() string { return e.msg().ChannelID }

func (e *GroupMsgEvent) GroupInfo(ctx context.Context) (*model.Group, error) {
	return e.guild.Get(func() (*model.Group, error) {
		if e.Bot() == nil {
			return nil, event.ErrNoBot
		}
		g, err := e.Bot().Guild(ctx, e.GroupID())
		if err != nil {
			return nil, err
		}
		group := &model.Group{ID: g.ID, Name: g.Name, OwnerID: model.NonEmpty(g.OwnerID)}
		if g.Icon != "" {
			group.Avatar = model.Ptr(fmt.Sprintf(guildIconURL, g.ID, g.Icon))
		}
		if g.MemberCount > 0 {
			group.MemberCount = model.Ptr(g.MemberCount)
		}
		if g.MaxMembers > 0 {
			group.MaxMembers = model.Ptr(g.MaxMembers)
		}
		return group, nil
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
		return &model.Group{ID: c.ID, Name: c.Name, OwnerID: model.NonEmpty(c.OwnerID)}, nil
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

func (e *GroupMsgEvent) GroupRichID() string { return event.RichID(platform.Discord, e.GroupID()) }

func (e *GroupMsgEvent) ChannelRichID() string { return event.RichID(platform.Discord, e.ChannelID()) }
