package platform

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct{ id string }
type fakeAdapter struct{}
type otherBot struct{}

type sender interface{ Send() }
type ifaceBot struct{}

func (ifaceBot) Send() {}

func TestRegistry_UnregisteredPlatform_ReturnsUnsupported(t *testing.T) {
	r := NewRegistry()

	_, err := r.BotTypeOf(KOOK)
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)

	_, err = r.AdapterTypeOf(KOOK)
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)

	_, err = r.PlatformOf(&fakeBot{})
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	Register[*fakeBot, *fakeAdapter](r, OneBotV11)

	bt, err := r.BotTypeOf(OneBotV11)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[*fakeBot](), bt)

	at, err := r.AdapterTypeOf(OneBotV11)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[*fakeAdapter](), at)

	p, err := r.PlatformOf(&fakeBot{id: "1"})
	require.NoError(t, err)
	assert.Equal(t, OneBotV11, p)

	// value and pointer types are distinct registrations
	_, err = r.PlatformOf(fakeBot{})
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}

func TestRegistry_ReplaceKeepsBotClaimedByOtherPlatform(t *testing.T) {
	r := NewRegistry()
	Register[*fakeBot, *fakeAdapter](r, QQ)
	Register[*fakeBot, *fakeAdapter](r, KOOK)
	Register[*otherBot, *fakeAdapter](r, QQ)

	p, err := r.PlatformOf(&fakeBot{})
	require.NoError(t, err)
	assert.Equal(t, KOOK, p)

	p, err = r.PlatformOf(&otherBot{})
	require.NoError(t, err)
	assert.Equal(t, QQ, p)
}

func TestRegistry_LastWriteWins(t *testing.T) {
	r := NewRegistry()
	Register[*fakeBot, *fakeAdapter](r, QQ)
	Register[*otherBot, *fakeAdapter](r, QQ)

	bt, err := r.BotTypeOf(QQ)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[*otherBot](), bt)

	_, err = r.PlatformOf(&fakeBot{})
	assert.ErrorIs(t, err, ErrUnsupportedPlatform, "replaced bot type must no longer resolve")

	p, err := r.PlatformOf(&otherBot{})
	require.NoError(t, err)
	assert.Equal(t, QQ, p)
}

func TestRegistry_InterfaceBotType(t *testing.T) {
	r := NewRegistry()
	Register[sender, *fakeAdapter](r, Discord)

	p, err := r.PlatformOf(ifaceBot{})
	require.NoError(t, err)
	assert.Equal(t, Discord, p)
}

func TestRegistry_CurrentPlatform(t *testing.T) {
	r := NewRegistry()
	Register[*fakeBot, *fakeAdapter](r, KOOK)
	bot := &fakeBot{}

	t.Run("explicit bot", func(t *testing.T) {
		p, err := r.CurrentPlatform(context.Background(), bot)
		require.NoError(t, err)
		assert.Equal(t, KOOK, p)
	})

	t.Run("ambient bot", func(t *testing.T) {
		ctx := WithBot(context.Background(), bot)
		p, err := r.CurrentPlatform(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, KOOK, p)
	})

	t.Run("no bot anywhere", func(t *testing.T) {
		_, err := r.CurrentPlatform(context.Background(), nil)
		assert.True(t, errors.Is(err, ErrUnsupportedPlatform))
	})

	t.Run("unregistered bot", func(t *testing.T) {
		_, err := r.CurrentPlatform(context.Background(), &otherBot{})
		assert.ErrorIs(t, err, ErrUnsupportedPlatform)
	})
}

func TestRegistry_PlatformsSorted(t *testing.T) {
	r := NewRegistry()
	Register[*fakeBot, *fakeAdapter](r, Telegram)
	Register[*otherBot, *fakeAdapter](r, OneBotV11)

	assert.Equal(t, []Platform{OneBotV11, Telegram}, r.Platforms())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Platform
		wantErr bool
	}{
		{"onebot", OneBotV11, false},
		{"OneBotV11", OneBotV11, false},
		{"KOOK", KOOK, false},
		{"kaiheila", KOOK, false},
		{" qqguild ", QQGuild, false},
		{"lark", Feishu, false},
		{"matrix", Unknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedPlatform)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlatformString(t *testing.T) {
	assert.Equal(t, "OneBotV11", OneBotV11.String())
	assert.Equal(t, "Platform(0)", Unknown.String())
	assert.False(t, Unknown.Valid())
	assert.Len(t, All(), 8)
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, BotFromContext(ctx))
	assert.Nil(t, EventFromContext(ctx))

	ctx = WithEvent(WithBot(ctx, "bot"), "event")
	assert.Equal(t, "bot", BotFromContext(ctx))
	assert.Equal(t, "event", EventFromContext(ctx))
}
