package core

import (
	"context"
	"testing"

	"github.com/keepmind9/anybot/internal/adapters/dingtalk"
	"github.com/keepmind9/anybot/internal/adapters/onebot"
	"github.com/keepmind9/anybot/internal/adapters/qq"
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/internal/platform"
	"github.com/open-dingtalk/dingtalk-stream-sdk-go/chatbot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReplier struct {
	bodies []map[string]interface{}
}

func (r *recordingReplier) ReplyMessage(_ context.Context, _ string, body map[string]interface{}) error {
	r.bodies = append(r.bodies, body)
	return nil
}

func TestNew_LoadsEnabledModules(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
platforms: [dingtalk, onebot]
placeholders:
  voice: "(voice)"
`))
	require.NoError(t, err)

	rt, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, []platform.Platform{platform.OneBotV11, platform.DingTalk}, rt.Platforms().Platforms())
	assert.Equal(t, []platform.Platform{platform.OneBotV11, platform.DingTalk}, rt.Handlers().Platforms())
	assert.True(t, rt.Events().Frozen())
	assert.NotNil(t, rt.Fetcher())
	require.Len(t, rt.Modules(), 2)
	assert.Equal(t, dingtalk.Module{VoicePlaceholder: "(voice)"}, rt.Modules()[1])

	replier := &recordingReplier{}
	bot := dingtalk.NewBot("robot", replier)
	native := dingtalk.FromCallback(&chatbot.BotCallbackDataModel{
		ConversationType: "2",
		ConversationId:   "cid",
		SenderStaffId:    "staff",
		IsInAtList:       true,
		Text:             chatbot.BotCallbackDataTextModel{Content: "hi"},
	})

	ev, ok := Solve[event.GroupMsgEvent](rt, bot, native)
	require.True(t, ok)
	assert.Equal(t, "cid", ev.GroupID())
	assert.Equal(t, "DingTalk-cid", ev.GroupRichID())

	_, err = rt.Send(context.Background(), bot, ev, (&message.Msg{}).VoiceBytes([]byte("v")), message.SendOptions{})
	require.NoError(t, err)
	require.Len(t, replier.bodies, 1)
	assert.Equal(t, "(voice)", replier.bodies[0]["markdown"].(map[string]interface{})["text"])

	_, err = rt.Send(context.Background(), qq.NewBot("app", nil), nil, (&message.Msg{}).Text("x"), message.SendOptions{})
	assert.ErrorIs(t, err, platform.ErrUnsupportedPlatform)
}

func TestModules_AllPlatforms(t *testing.T) {
	mods := Modules(&Config{})
	require.Len(t, mods, len(platform.All()))
	for i, p := range platform.All() {
		assert.Equal(t, p, mods[i].Platform())
	}
	assert.Equal(t, onebot.Module{}, mods[0])
}

func TestNew_InvalidFetchProxy(t *testing.T) {
	_, err := New(&Config{Fetch: FetchConfig{Proxy: "://bad"}})
	assert.Error(t, err)
}
