package qq

import (
	"context"
	"errors"
	"testing"

	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/loader"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/internal/platform"
	"github.com/keepmind9/anybot/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type post struct {
	kind   string
	target string
	msg    *PostMessage
}

// MockAPI records QQ API calls
type MockAPI struct {
	posts      []post
	guild      *Guild
	channel    *Channel
	guildCalls int
	postErr    error
	guildErr   error
}

func (m *MockAPI) record(kind, target string, msg *PostMessage) (*MessageResult, error) {
	if m.postErr != nil {
		return nil, m.postErr
	}
	m.posts = append(m.posts, post{kind: kind, target: target, msg: msg})
	return &MessageResult{ID: kind + "-" + target}, nil
}

func (m *MockAPI) PostC2CMessage(_ context.Context, openID string, msg *PostMessage) (*MessageResult, error) {
	return m.record("c2c", openID, msg)
}

func (m *MockAPI) PostGroupMessage(_ context.Context, groupOpenID string, msg *PostMessage) (*MessageResult, error) {
	return m.record("group", groupOpenID, msg)
}

func (m *MockAPI) PostChannelMessage(_ context.Context, channelID string, msg *PostMessage) (*MessageResult, error) {
	return m.record("channel", channelID, msg)
}

func (m *MockAPI) PostDirectMessage(_ context.Context, guildID string, msg *PostMessage) (*MessageResult, error) {
	return m.record("direct", guildID, msg)
}

func (m *MockAPI) GetGuild(_ context.Context, _ string) (*Guild, error) {
	m.guildCalls++
	if m.guildErr != nil {
		return nil, m.guildErr
	}
	return m.guild, nil
}

func (m *MockAPI) GetChannel(_ context.Context, _ string) (*Channel, error) {
	return m.channel, nil
}

func newRegistrar(t *testing.T) *loader.Registrar {
	t.Helper()
	r := loader.NewRegistrar(nil)
	require.NoError(t, loader.Load(r, Module{}))
	return r
}

func channelEvent() *MessageCreateEvent {
	ev := &MessageCreateEvent{}
	ev.ID = "m1"
	ev.Content = "hello"
	ev.Attachments = []Attachment{{URL: "gchat.qpic.cn/a.png"}}
	ev.Author = User{ID: "u1", Username: "alice", Avatar: "https://q/a.jpg"}
	ev.GuildID = "g1"
	ev.ChannelID = "c1"
	return ev
}

func groupAtEvent() *GroupAtMessageCreateEvent {
	ev := &GroupAtMessageCreateEvent{GroupOpenID: "G0"}
	ev.ID = "m2"
	ev.Content = "ping"
	ev.Author.MemberOpenID = "M0"
	return ev
}

func TestBuildMessage(t *testing.T) {
	segs := []message.Segment{
		message.TextSegment("a"),
		message.VoiceSegment(message.MediaFrom("/v.silk")),
		message.TextSegment("b"),
		message.AtSegment("u9"),
		message.ImageSegment(message.MediaFrom("https://x/y.png")),
		message.ImageSegment(message.MediaFrom("/tmp/z.png")),
		message.ImageSegment(message.MediaBytes([]byte{1, 2})),
	}
	msg, err := BuildMessage(segs, "[voice]")
	require.NoError(t, err)
	assert.Equal(t, Message{
		TextSeg("a[voice]b"),
		MentionUserSeg("u9"),
		ImageSeg("https://x/y.png"),
		FileImagePathSeg("/tmp/z.png"),
		FileImageSeg([]byte{1, 2}),
	}, msg)

	_, err = BuildMessage([]message.Segment{{Type: "face"}}, "")
	assert.ErrorIs(t, err, message.ErrUnknownSegment)
}

func TestHandler_Build(t *testing.T) {
	h := NewHandler("")
	ctx := context.Background()

	msgs, err := h.Build(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, msgs, "nothing to send")

	msgs, err = h.Build(ctx, nil, []message.Segment{message.VoiceSegment(message.MediaBytes([]byte("v")))})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, constants.VoicePlaceholder, msgs[0].PlainText())
}

func TestToPostMessage(t *testing.T) {
	p := ToPostMessage(Message{
		ReferenceSeg("m0"),
		MentionUserSeg("u1"),
		TextSeg(" hi"),
		ImageSeg("https://x/a.png"),
		FileImageSeg([]byte("img")),
	})
	assert.Equal(t, "<@u1> hi", p.Content)
	assert.Equal(t, "https://x/a.png", p.Image)
	assert.Equal(t, []byte("img"), p.FileImage)
	require.NotNil(t, p.MessageReference)
	assert.Equal(t, "m0", p.MessageReference.MessageID)
}

func TestBot_SendTargets(t *testing.T) {
	ctx := context.Background()
	c2c := &C2CMessageCreateEvent{}
	c2c.ID = "m3"
	c2c.Author.UserOpenID = "U0"
	direct := &DirectMessageCreateEvent{}
	direct.ID = "m4"
	direct.GuildID = "dg"

	tests := []struct {
		name   string
		ev     MessageEvent
		kind   string
		target string
	}{
		{"c2c", c2c, "c2c", "U0"},
		{"group", groupAtEvent(), "group", "G0"},
		{"direct", direct, "direct", "dg"},
		{"channel", channelEvent(), "channel", "c1"},
		{"at channel", &AtMessageCreateEvent{ChannelFields: channelEvent().ChannelFields}, "channel", "c1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &MockAPI{}
			_, err := NewBot("app", api).Send(ctx, tt.ev, Message{TextSeg("x")})
			require.NoError(t, err)
			require.Len(t, api.posts, 1)
			assert.Equal(t, tt.kind, api.posts[0].kind)
			assert.Equal(t, tt.target, api.posts[0].target)
			assert.Equal(t, tt.ev.GetID(), api.posts[0].msg.MsgID)
		})
	}

	boom := errors.New("code 304003")
	_, err := NewBot("app", &MockAPI{postErr: boom}).Send(ctx, c2c, Message{TextSeg("x")})
	assert.ErrorIs(t, err, boom)
}

func TestDispatch_Decoration(t *testing.T) {
	r := newRegistrar(t)
	api := &MockAPI{}
	d := message.NewDispatcher(r.Platforms, r.Handlers)

	results, err := d.Send(context.Background(), NewBot("app", api), groupAtEvent(), (&message.Msg{}).Text("pong"), message.SendOptions{At: true, Reply: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, api.posts, 1)
	assert.Equal(t, "<@M0>pong", api.posts[0].msg.Content)
	assert.Equal(t, "m2", api.posts[0].msg.MessageReference.MessageID)
}

func TestVariants(t *testing.T) {
	r := newRegistrar(t)
	api := &MockAPI{
		guild:   &Guild{ID: "g1", Name: "gophers", OwnerID: "o1", MemberCount: 3, MaxMembers: 100},
		channel: &Channel{ID: "c1", Name: "general"},
	}
	bot := NewBot("app", api)
	ctx := context.Background()

	t.Run("channel message resolves to guild variant", func(t *testing.T) {
		ev, ok := event.Solve[event.GroupMsgEvent](r.Events, bot, channelEvent())
		require.True(t, ok)
		require.IsType(t, &GuildMsgEvent{}, ev)

		assert.False(t, ev.ToMe())
		assert.Equal(t, "alice", ev.Name())
		assert.Equal(t, []string{"http://gchat.qpic.cn/a.png"}, ev.Images())
		assert.Equal(t, "g1", ev.GroupID())
		assert.Equal(t, "c1", ev.ChannelID())
		assert.Equal(t, "QQ-c1", ev.ChannelRichID())

		name, err := ev.GroupName(ctx)
		require.NoError(t, err)
		assert.Equal(t, "gophers", name)
		_, err = ev.GroupInfo(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, api.guildCalls)

		channel, err := ev.ChannelName(ctx)
		require.NoError(t, err)
		assert.Equal(t, "general", channel)

		avatar, err := ev.AvatarURL(ctx)
		require.NoError(t, err)
		assert.Equal(t, "https://q/a.jpg", avatar)
	})

	t.Run("at message is to me", func(t *testing.T) {
		ev, ok := event.Solve[event.MsgEvent](r.Events, bot, &AtMessageCreateEvent{ChannelFields: channelEvent().ChannelFields})
		require.True(t, ok)
		assert.IsType(t, &GuildMsgEvent{}, ev)
		assert.True(t, ev.ToMe())
	})

	t.Run("group at message", func(t *testing.T) {
		ev, ok := event.Solve[event.GroupMsgEvent](r.Events, bot, groupAtEvent())
		require.True(t, ok)
		require.IsType(t, &GroupMsgEvent{}, ev)
		assert.Equal(t, "M0", ev.UserID())
		assert.Equal(t, "", ev.Name())
		assert.Equal(t, "QQ-G0", ev.GroupRichID())

		info, err := ev.GroupInfo(ctx)
		require.NoError(t, err)
		assert.Equal(t, "G0", info.ID)
		assert.Nil(t, info.MemberCount)

		user, err := ev.UserInfo(ctx)
		require.NoError(t, err)
		assert.Nil(t, user.Avatar)
	})

	t.Run("direct message is not a group message", func(t *testing.T) {
		direct := &DirectMessageCreateEvent{}
		direct.Author = User{ID: "u2", Username: "bob"}
		ev, ok := event.Solve[event.MsgEvent](r.Events, bot, direct)
		require.True(t, ok)
		assert.IsType(t, &MsgEvent{}, ev)
		assert.Equal(t, "bob", ev.Name())

		_, ok = event.Solve[event.GroupEvent](r.Events, bot, direct)
		assert.False(t, ok)
	})

	t.Run("guild errors are not cached", func(t *testing.T) {
		boom := errors.New("timeout")
		api := &MockAPI{guildErr: boom}
		ev, ok := event.Solve[event.GroupMsgEvent](r.Events, NewBot("app", api), channelEvent())
		require.True(t, ok)
		_, err := ev.GroupInfo(ctx)
		assert.ErrorIs(t, err, boom)
		_, err = ev.GroupName(ctx)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 2, api.guildCalls)
	})

	t.Run("no bot", func(t *testing.T) {
		ev, ok := event.Solve[event.GroupMsgEvent](r.Events, nil, channelEvent())
		require.True(t, ok)
		_, err := ev.ChannelInfo(ctx)
		assert.ErrorIs(t, err, event.ErrNoBot)
	})
}

func TestModule(t *testing.T) {
	r := newRegistrar(t)
	p, err := r.Platforms.PlatformOf(NewBot("app", &MockAPI{}))
	require.NoError(t, err)
	assert.Equal(t, platform.QQ, p)
}

func TestDispatch_NoEvent(t *testing.T) {
	r := newRegistrar(t)
	api := &MockAPI{}
	d := message.NewDispatcher(r.Platforms, r.Handlers)

	_, err := d.Send(context.Background(), NewBot("app", api), nil, (&message.Msg{}).Text("x"), message.SendOptions{At: true, Reply: true})
	assert.ErrorIs(t, err, event.ErrNoEvent)
	assert.Empty(t, api.posts)
}
