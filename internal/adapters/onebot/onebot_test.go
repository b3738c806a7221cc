package onebot

import (
	"context"
	"errors"
	"testing"

	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/loader"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockAPI records OneBot actions
type MockAPI struct {
	sent       []SendMsgParams
	groupCalls int
	groupInfo  *GroupInfo
	sendErr    error
	groupErr   error
}

func (m *MockAPI) SendMsg(_ context.Context, params SendMsgParams) (int64, error) {
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	m.sent = append(m.sent, params)
	return int64(len(m.sent)), nil
}

func (m *MockAPI) GetGroupInfo(_ context.Context, groupID int64, _ bool) (*GroupInfo, error) {
	m.groupCalls++
	if m.groupErr != nil {
		return nil, m.groupErr
	}
	return m.groupInfo, nil
}

func newRegistrar(t *testing.T) *loader.Registrar {
	t.Helper()
	r := loader.NewRegistrar(nil)
	require.NoError(t, loader.Load(r, Module{}))
	return r
}

func groupEvent() *GroupMessageEvent {
	return &GroupMessageEvent{
		MessageFields: MessageFields{
			SelfID:    10,
			MessageID: 555,
			UserID:    42,
			Message:   Message{TextSeg("hello "), ImageSeg("x"), {Type: "image", Data: map[string]string{"file": "y", "url": "https://img/y.png"}}},
			Sender:    Sender{UserID: 42, Nickname: "alice", Sex: "female", Age: 20},
		},
		GroupID: 7001,
	}
}

func TestHandler_Build(t *testing.T) {
	h := NewHandler()
	ctx := context.Background()

	t.Run("empty message", func(t *testing.T) {
		msgs, err := h.Build(ctx, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	t.Run("voice is split into its own message", func(t *testing.T) {
		segs := []message.Segment{
			message.TextSegment("hi"),
			message.ImageSegment(message.MediaFrom("https://example.com/a.png")),
			message.VoiceSegment(message.MediaBytes([]byte("amr"))),
		}
		msgs, err := h.Build(ctx, nil, segs)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, Message{TextSeg("hi"), ImageSeg("https://example.com/a.png")}, msgs[0])
		assert.Equal(t, Message{RecordSeg("base64://YW1y")}, msgs[1])
	})

	t.Run("accumulation resumes after voice", func(t *testing.T) {
		segs := []message.Segment{
			message.VoiceSegment(message.MediaFrom("https://example.com/v.amr")),
			message.TextSegment("a"),
			message.TextSegment("b"),
			message.AtSegment("9"),
		}
		msgs, err := h.Build(ctx, nil, segs)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, Message{RecordSeg("https://example.com/v.amr")}, msgs[0])
		assert.Equal(t, Message{TextSeg("ab"), AtSeg("9")}, msgs[1])
	})

	t.Run("paths become file uris", func(t *testing.T) {
		msgs, err := h.Build(ctx, nil, []message.Segment{message.ImageSegment(message.MediaFrom("/data/a.png"))})
		require.NoError(t, err)
		assert.Equal(t, "file:///data/a.png", msgs[0][0].Data["file"])
	})

	t.Run("unknown segment", func(t *testing.T) {
		_, err := h.Build(ctx, nil, []message.Segment{{Type: "sticker"}})
		assert.ErrorIs(t, err, message.ErrUnknownSegment)
	})
}

func TestBot_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("group with mention and reply", func(t *testing.T) {
		api := &MockAPI{}
		bot := NewBot("10", api)
		_, err := bot.Send(ctx, groupEvent(), Message{TextSeg("pong")}, true, true)
		require.NoError(t, err)
		require.Len(t, api.sent, 1)
		assert.Equal(t, "group", api.sent[0].MessageType)
		assert.Equal(t, int64(7001), api.sent[0].GroupID)
		assert.Equal(t, Message{ReplySeg("555"), AtSeg("42"), TextSeg(" "), TextSeg("pong")}, api.sent[0].Message)
	})

	t.Run("private ignores mention", func(t *testing.T) {
		api := &MockAPI{}
		bot := NewBot("10", api)
		ev := &PrivateMessageEvent{MessageFields{UserID: 3, MessageID: 1}}
		_, err := bot.Send(ctx, ev, Message{TextSeg("hi")}, true, false)
		require.NoError(t, err)
		assert.Equal(t, "private", api.sent[0].MessageType)
		assert.Equal(t, int64(3), api.sent[0].UserID)
		assert.Equal(t, Message{TextSeg("hi")}, api.sent[0].Message)
	})

	t.Run("notice answers the group", func(t *testing.T) {
		api := &MockAPI{}
		bot := NewBot("10", api)
		ev := &GroupIncreaseNoticeEvent{NoticeFields{GroupID: 8, UserID: 3}}
		_, err := bot.Send(ctx, ev, Message{TextSeg("welcome")}, true, true)
		require.NoError(t, err)
		assert.Equal(t, int64(8), api.sent[0].GroupID)
		assert.Equal(t, Message{TextSeg("welcome")}, api.sent[0].Message)
	})

	t.Run("api error propagates", func(t *testing.T) {
		boom := errors.New("retcode 100")
		bot := NewBot("10", &MockAPI{sendErr: boom})
		_, err := bot.Send(ctx, groupEvent(), Message{TextSeg("x")}, false, false)
		assert.ErrorIs(t, err, boom)
	})
}

func TestVariants(t *testing.T) {
	r := newRegistrar(t)
	api := &MockAPI{groupInfo: &GroupInfo{GroupID: 7001, GroupName: "gophers", MemberCount: 12, MaxMemberCount: 200}}
	bot := NewBot("10", api)
	ctx := context.Background()

	t.Run("private message", func(t *testing.T) {
		ev, ok := event.Solve[event.MsgEvent](r.Events, bot, &PrivateMessageEvent{MessageFields{UserID: 5, Sender: Sender{Nickname: "bob"}}})
		require.True(t, ok)
		assert.IsType(t, &MsgEvent{}, ev)
		assert.Equal(t, "5", ev.UserID())
		assert.Equal(t, "bob", ev.Name())
		assert.Nil(t, ev.Reply())
		assert.Equal(t, "OneBotV11-5", ev.UserRichID())

		_, ok = event.Solve[event.GroupMsgEvent](r.Events, bot, &PrivateMessageEvent{})
		assert.False(t, ok)
	})

	t.Run("group message", func(t *testing.T) {
		ev, ok := event.Solve[event.GroupMsgEvent](r.Events, bot, groupEvent())
		require.True(t, ok)
		require.IsType(t, &GroupMsgEvent{}, ev)

		assert.Equal(t, "hello ", ev.Plaintext())
		assert.Equal(t, []string{"https://img/y.png"}, ev.Images())
		assert.Equal(t, "7001", ev.GroupID())
		assert.Equal(t, ev.GroupID(), ev.ChannelID())
		assert.Equal(t, "OneBotV11-7001", ev.ChannelRichID())
		assert.Equal(t, "female", ev.(*GroupMsgEvent).Sex())
		assert.Equal(t, 20, ev.(*GroupMsgEvent).Age())
		assert.Equal(t, "10", ev.(*GroupMsgEvent).SelfID())

		name, err := ev.GroupName(ctx)
		require.NoError(t, err)
		assert.Equal(t, "gophers", name)
		info, err := ev.ChannelInfo(ctx)
		require.NoError(t, err)
		assert.Equal(t, 200, *info.MaxMembers)
		assert.Equal(t, "https://p.qlogo.cn/gh/7001/7001/640", *info.Avatar)
		assert.Nil(t, info.OwnerID)
		assert.Equal(t, 1, api.groupCalls, "group info is fetched once per event")

		user, err := ev.UserInfo(ctx)
		require.NoError(t, err)
		assert.Equal(t, "42", user.ID)
		assert.Equal(t, "http://q1.qlogo.cn/g?b=qq&nk=42&s=640", *user.Avatar)
	})

	t.Run("group message through message class", func(t *testing.T) {
		ev, ok := event.Solve[event.MsgEvent](r.Events, bot, groupEvent())
		require.True(t, ok)
		assert.IsType(t, &GroupMsgEvent{}, ev)
	})

	t.Run("group notice", func(t *testing.T) {
		ev, ok := event.Solve[event.GroupEvent](r.Events, bot, &GroupRecallNoticeEvent{NoticeFields: NoticeFields{NoticeType: "group_recall", GroupID: 9}})
		require.True(t, ok)
		require.IsType(t, &GroupNoticeEvent{}, ev)
		assert.Equal(t, "group_recall", ev.(*GroupNoticeEvent).NoticeType())
		assert.Equal(t, "9", ev.GroupID())

		_, ok = event.Solve[event.MsgEvent](r.Events, bot, &GroupRecallNoticeEvent{})
		assert.False(t, ok)
	})

	t.Run("metadata errors are not cached", func(t *testing.T) {
		boom := errors.New("timeout")
		api := &MockAPI{groupErr: boom}
		ev, ok := event.Solve[event.GroupMsgEvent](r.Events, NewBot("10", api), groupEvent())
		require.True(t, ok)
		_, err := ev.GroupInfo(ctx)
		assert.ErrorIs(t, err, boom)
		_, err = ev.GroupInfo(ctx)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 2, api.groupCalls)
	})

	t.Run("no bot", func(t *testing.T) {
		ev, ok := event.Solve[event.GroupMsgEvent](r.Events, nil, groupEvent())
		require.True(t, ok)
		_, err := ev.GroupInfo(ctx)
		assert.ErrorIs(t, err, event.ErrNoBot)
	})
}

func TestDispatch_DecoratesFirstMessageOnly(t *testing.T) {
	r := newRegistrar(t)
	api := &MockAPI{}
	bot := NewBot("10", api)
	d := message.NewDispatcher(r.Platforms, r.Handlers)

	m := (&message.Msg{}).Text("look").VoiceBytes([]byte("v"))
	results, err := d.Send(context.Background(), bot, groupEvent(), m, message.SendOptions{At: true, Reply: true})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	require.Len(t, api.sent, 2)

	assert.Equal(t, Message{ReplySeg("555"), AtSeg("42"), TextSeg(" "), TextSeg("look")}, api.sent[0].Message)
	assert.Equal(t, Message{RecordSeg("base64://dg==")}, api.sent[1].Message)
}

func TestModule(t *testing.T) {
	r := newRegistrar(t)
	p, err := r.Platforms.PlatformOf(NewBot("1", &MockAPI{}))
	require.NoError(t, err)
	assert.Equal(t, platform.OneBotV11, p)

	_, err = r.Handlers.Get(platform.OneBotV11)
	assert.NoError(t, err)
}
