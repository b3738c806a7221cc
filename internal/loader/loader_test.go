package loader

import (
	"errors"
	"testing"

	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockModule struct {
	name     string
	p        platform.Platform
	err      error
	register int
}

func (m *mockModule) Name() string                { return m.name }
func (m *mockModule) Platform() platform.Platform { return m.p }
func (m *mockModule) Register(r *Registrar) error {
	m.register++
	if m.err != nil {
		return m.err
	}
	platform.Register[*mockModule, *mockModule](r.Platforms, m.p)
	return nil
}

func TestLoad_RegistersAndFreezes(t *testing.T) {
	r := NewRegistrar(nil)
	a := &mockModule{name: "a", p: platform.KOOK}
	b := &mockModule{name: "b", p: platform.QQ}

	require.NoError(t, Load(r, a, b))
	assert.Equal(t, 1, a.register)
	assert.Equal(t, 1, b.register)
	assert.True(t, r.Events.Frozen())
	assert.Equal(t, []platform.Platform{platform.QQ, platform.KOOK}, r.Platforms.Platforms(), "sorted by platform, not by load order")

	p, err := r.Platforms.PlatformOf(&mockModule{})
	require.NoError(t, err)
	assert.Equal(t, platform.QQ, p, "shared bot type resolves to the last registration")
}

func TestLoad_ModuleErrorAborts(t *testing.T) {
	r := NewRegistrar(nil)
	boom := errors.New("boom")
	a := &mockModule{name: "a", p: platform.KOOK, err: boom}
	b := &mockModule{name: "b", p: platform.QQ}

	err := Load(r, a, b)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "adapter module a")
	assert.Equal(t, 0, b.register)
	assert.False(t, r.Events.Frozen())
}

func TestLoad_NoModules(t *testing.T) {
	r := NewRegistrar(nil)
	require.NoError(t, Load(r))
	assert.True(t, r.Events.Frozen())

	_, ok := event.Solve[event.MsgEvent](r.Events, nil, struct{}{})
	assert.False(t, ok)
}
