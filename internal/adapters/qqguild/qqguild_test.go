package qqguild

import (
	"context"
	"testing"

	"github.com/keepmind9/anybot/internal/adapters/qq"
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/loader"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockAPI records guild API calls
type MockAPI struct {
	channelPosts map[string]*PostMessage
	directPosts  map[string]*PostMessage
	guildCalls   int
}

func newMockAPI() *MockAPI {
	return &MockAPI{channelPosts: map[string]*PostMessage{}, directPosts: map[string]*PostMessage{}}
}

func (m *MockAPI) PostChannelMessage(_ context.Context, channelID string, msg *PostMessage) (*MessageResult, error) {
	m.channelPosts[channelID] = msg
	return &MessageResult{ID: "r1"}, nil
}

func (m *MockAPI) PostDirectMessage(_ context.Context, guildID string, msg *PostMessage) (*MessageResult, error) {
	m.directPosts[guildID] = msg
	return &MessageResult{ID: "r2"}, nil
}

func (m *MockAPI) GetGuild(_ context.Context, guildID string) (*Guild, error) {
	m.guildCalls++
	return &Guild{ID: guildID, Name: "guild-" + guildID, Icon: "https://icon"}, nil
}

func (m *MockAPI) GetChannel(_ context.Context, channelID string) (*Channel, error) {
	return &Channel{ID: channelID, Name: "chan-" + channelID}, nil
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
	ev.Content = "hi"
	ev.Author = User{ID: "42", Username: "carol", Avatar: "https://a/42.png"}
	ev.GuildID = "g9"
	ev.ChannelID = "c9"
	return ev
}

func TestVariants(t *testing.T) {
	r := newRegistrar(t)
	api := newMockAPI()
	bot := NewBot("app", api)
	ctx := context.Background()

	ev, ok := event.Solve[event.GroupMsgEvent](r.Events, bot, channelEvent())
	require.True(t, ok)
	require.IsType(t, &GroupMsgEvent{}, ev)
	assert.Equal(t, "carol", ev.Name())
	assert.Equal(t, "QQGuild-42", ev.UserRichID())

	name, err := ev.GroupName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "guild-g9", name)
	info, err := ev.GroupInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://icon", *info.Avatar)
	assert.Equal(t, 1, api.guildCalls)

	channel, err := ev.ChannelName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "chan-c9", channel)

	user, err := ev.UserInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://a/42.png", *user.Avatar)

	direct := &DirectMessageCreateEvent{GuildID: "dm"}
	direct.Author = User{ID: "7"}
	dv, ok := event.Solve[event.MsgEvent](r.Events, bot, direct)
	require.True(t, ok)
	assert.IsType(t, &MsgEvent{}, dv)
	assert.True(t, dv.ToMe())
	_, ok = event.Solve[event.GroupMsgEvent](r.Events, bot, direct)
	assert.False(t, ok)
}

func TestNotConfusedWithQQ(t *testing.T) {
	r := loader.NewRegistrar(nil)
	require.NoError(t, loader.Load(r, qq.Module{}, Module{}))

	ev, ok := event.Solve[event.MsgEvent](r.Events, NewBot("app", newMockAPI()), channelEvent())
	require.True(t, ok)
	assert.Equal(t, platform.QQGuild, ev.Platform())

	qqEvent := &qq.MessageCreateEvent{}
	qv, ok := event.Solve[event.MsgEvent](r.Events, qq.NewBot("app", nil), qqEvent)
	require.True(t, ok)
	assert.Equal(t, platform.QQ, qv.Platform())
}

func TestDispatch(t *testing.T) {
	r := newRegistrar(t)
	api := newMockAPI()
	d := message.NewDispatcher(r.Platforms, r.Handlers)

	m := (&message.Msg{}).Text("see ").Image("https://x/p.png").VoiceBytes([]byte("v"))
	_, err := d.Send(context.Background(), NewBot("app", api), channelEvent(), m, message.SendOptions{At: true})
	require.NoError(t, err)

	got := api.channelPosts["c9"]
	require.NotNil(t, got)
	assert.Equal(t, "<@42>see [voice message is not supported on this platform]", got.Content)
	assert.Equal(t, "https://x/p.png", got.Image)
	assert.Equal(t, "m1", got.MsgID)
	assert.Nil(t, got.MessageReference)

	direct := &DirectMessageCreateEvent{GuildID: "dm"}
	direct.ID = "m2"
	_, err = d.Send(context.Background(), NewBot("app", api), direct, (&message.Msg{}).Text("x"), message.SendOptions{Reply: true})
	require.NoError(t, err)
	require.NotNil(t, api.directPosts["dm"])
	assert.Equal(t, "m2", api.directPosts["dm"].MessageReference.MessageID)
}

func TestDispatch_NoEvent(t *testing.T) {
	r := newRegistrar(t)
	api := newMockAPI()
	d := message.NewDispatcher(r.Platforms, r.Handlers)

	_, err := d.Send(context.Background(), NewBot("app", api), nil, (&message.Msg{}).Text("x"), message.SendOptions{At: true})
	assert.ErrorIs(t, err, event.ErrNoEvent)
	assert.Empty(t, api.channelPosts)
	assert.Empty(t, api.directPosts)
}
