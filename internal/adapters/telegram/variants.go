package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/model"
	"github.com/keepmind9/anybot/internal/platform"
)

// MsgEvent is the unified view of a Telegram message
type MsgEvent struct {
	event.Base[*Bot, MessageEvent]
	avatar event.Cache[string]
}

func NewMsgEvent(bot *Bot, ev MessageEvent) *MsgEvent {
	return &MsgEvent{Base: event.NewBase(platform.Telegram, bot, ev)}
}

func (e *MsgEvent) msg() *tgbotapi.Message { return e.Event().GetMessage() }

func (e *MsgEvent) from() *tgbotapi.User {
	if u := e.msg().From; u != nil {
		return u
	}
	return &tgbotapi.User{}
}

func (e *MsgEvent) Message() any { return e.msg() }

// Plaintext is the text, or the caption of a media message
func (e *MsgEvent) Plaintext() string {
	if m := e.msg(); m.Text != "" {
		return m.Text
	}
	return e.msg().Caption
}

// Images returns the file id of the largest size of the attached photo.
// Telegram addresses files by id; Bot.FileURL resolves one.
func (e *MsgEvent) Images() []string {
	photo := e.msg().Photo
	if len(photo) == 0 {
		return nil
	}
	return []string{photo[len(photo)-1].FileID}
}

func (e *MsgEvent) UserID() string {
	if e.msg().From == nil {
		return ""
	}
	return strconv.FormatInt(e.from().ID, 10)
}

// Name is the username, or the full name for users without one
func (e *MsgEvent) Name() string {
	u := e.from()
	if u.UserName != "" {
		return u.UserName
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (e *MsgEvent) Reply() any {
	if r := e.msg().ReplyToMessage; r != nil {
		return r
	}
	return nil
}

func (e *MsgEvent) UserInfo(ctx context.Context) (*model.User, error) {
	avatar, err := e.AvatarURL(ctx)
	if err != nil {
		return nil, err
	}
	return &model.User{ID: e.UserID(), Name: e.Name(), Avatar: model.NonEmpty(avatar)}, nil
}

func (e *MsgEvent) AvatarURL(ctx context.Context) (string, error) {
	return e.avatar.Get(func() (string, error) {
		if e.Bot() == nil {
			return "", event.ErrNoBot
		}
		return e.Bot().AvatarURL(ctx, e.from().ID)
	})
}

func (e *MsgEvent) UserRichID() string { return event.RichID(platform.Telegram, e.UserID()) }

// GroupMsgEvent is a group message. Telegram groups have no channels, so the
// channel accessors mirror the group.
type GroupMsgEvent struct {
	MsgEvent
	group event.Cache[*model.Group]
}

func NewGroupMsgEvent(bot *Bot, ev *GroupMessageEvent) *GroupMsgEvent {
	return &GroupMsgEvent{MsgEvent: MsgEvent{Base: event.NewBase[*Bot, MessageEvent](platform.Telegram, bot, ev)}}
}

func (e *GroupMsgEvent) GroupID() string { return strconv.FormatInt(e.msg().Chat.ID, 10) }

func (e *GroupMsgEvent) ChannelID() string { return e.GroupID() }

func (e *GroupMsgEvent) GroupInfo(ctx context.Context) (*model.Group, error) {
	return e.group.Get(func() (*model.Group, error) {
		if e.Bot() == nil {
			return nil, event.ErrNoBot
		}
		chat, count, err := e.Bot().Chat(ctx, e.msg().Chat.ID)
		if err != nil {
			return nil, err
		}
		group := &model.Group{ID: strconv.FormatInt(chat.ID, 10), Name: chat.Title, MemberCount: model.Ptr(count)}
		if chat.Photo != nil {
			url, err := e.Bot().FileURL(chat.Photo.BigFileID)
			if err != nil {
				return nil, err
			}
			group.Avatar = model.NonEmpty(url)
		}
		return group, nil
	})
}

func (e *GroupMsgEvent) ChannelInfo(ctx context.Context) (*model.Group, error) {
	return e.GroupInfo(ctx)
}

// GroupName is the title carried by the message; no request is made
func (e *GroupMsgEvent) GroupName(context.Context) (string, error) {
	return e.msg().Chat.Title, nil
}

func (e *GroupMsgEvent) ChannelName(ctx context.Context) (string, error) {
	return e.GroupName(ctx)
}

func (e *GroupMsgEvent) GroupRichID() string { return event.RichID(platform.Telegram, e.GroupID()) }

func (e *GroupMsgEvent) ChannelRichID() string { return e.GroupRichID() }
