package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/keepmind9/anybot/internal/core"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	assert.Equal(t, "anybot", rootCmd.Use)

	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, expected := range []string{"validate", "platforms", "build", "version"} {
		assert.True(t, names[expected], "missing subcommand: %s", expected)
	}
}

func TestVersionCommand_JSON(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionJSON = true
	t.Cleanup(func() { versionJSON = false })

	versionCmd.Run(versionCmd, nil)

	var v VersionOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	assert.Equal(t, Version, v.Version)
}

func TestFindConfig(t *testing.T) {
	assert.Equal(t, "/explicit.yaml", findConfig("/explicit.yaml"))
}

func testRuntime(t *testing.T, content string) *core.Runtime {
	t.Helper()
	cfg, err := core.ParseConfig([]byte(content))
	require.NoError(t, err)
	rt, err := core.New(cfg)
	require.NoError(t, err)
	return rt
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("platforms: [telegram, onebot]\n"), 0644))
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("platforms: [myspace]\n"), 0644))

	result := validate(good)
	assert.True(t, result.Valid)
	assert.Equal(t, []string{"OneBotV11", "Telegram"}, result.Platforms)

	result = validate(bad)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "myspace")
}

func TestPlatforms_ListsTypesAndOrders(t *testing.T) {
	rt := testRuntime(t, "platforms: [onebot]\n")

	desc := describePlatforms(rt)
	require.Len(t, desc.Platforms, 1)
	assert.Equal(t, PlatformInfo{Name: "OneBotV11", Bot: "*onebot.Bot", Adapter: "onebot.API"}, desc.Platforms[0])
	assert.NotEmpty(t, desc.Orders)

	var out bytes.Buffer
	require.NoError(t, printPlatforms(&out, rt, false))
	assert.Contains(t, out.String(), "OneBotV11: bot *onebot.Bot")
}

func TestBuild_PrintsNativeMessages(t *testing.T) {
	rt := testRuntime(t, "platforms: [onebot]\n")

	var out bytes.Buffer
	m := (&message.Msg{}).At("42").Text(" hi")
	require.NoError(t, runBuild(context.Background(), &out, rt, platform.OneBotV11, m))
	assert.Contains(t, out.String(), `"qq": "42"`)
	assert.Contains(t, out.String(), `"text": " hi"`)

	err := runBuild(context.Background(), &out, rt, platform.Discord, m)
	assert.ErrorIs(t, err, platform.ErrUnsupportedPlatform)
}

func TestComposeMessage(t *testing.T) {
	buildAt, buildText, buildImages, buildVoices = []string{"1"}, []string{"a", "b"}, []string{"https://x/y.png"}, nil
	t.Cleanup(func() { buildAt, buildText, buildImages = nil, nil, nil })

	m := composeMessage()
	assert.Equal(t, []message.SegmentType{message.TypeAt, message.TypeText, message.TypeImage}, segTypes(m))
}

func segTypes(m *message.Msg) []message.SegmentType {
	var out []message.SegmentType
	for _, s := range m.Segments() {
		out = append(out, s.Type)
	}
	return out
}
