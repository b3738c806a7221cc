package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/keepmind9/anybot/internal/platform"
	"github.com/keepmind9/anybot/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidConfig_ReturnsConfigStruct(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  compress: false
platforms: [onebot, Discord, lark]
fetch:
  timeout: 10s
  max_tries: 2
  proxy: "${TEST_FETCH_PROXY}"
  rate_limit: 2.5
tracing:
  enabled: true
placeholders:
  voice: "(voice)"
  platforms:
    qq: "[voice]"
`)
	t.Setenv("TEST_FETCH_PROXY", "http://127.0.0.1:3128")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Logging.Level)
	assert.False(t, *config.Logging.Compress)
	assert.True(t, *config.Logging.EnableStdout)
	assert.Equal(t, constants.DefaultLogMaxSize, config.Logging.MaxSize)
	assert.Equal(t, "http://127.0.0.1:3128", config.Fetch.Proxy)
	assert.Equal(t, DefaultTraceExporter, config.Tracing.Exporter)

	assert.Equal(t, []platform.Platform{platform.OneBotV11, platform.Discord, platform.Feishu}, config.EnabledPlatforms())
	assert.Equal(t, "[voice]", config.VoicePlaceholder(platform.QQ))
	assert.Equal(t, "(voice)", config.VoicePlaceholder(platform.DingTalk))

	fc := config.FetchConfig()
	assert.Equal(t, 10*time.Second, fc.Timeout)
	assert.Equal(t, 2, fc.MaxTries)
	assert.Equal(t, 2.5, fc.RateLimit)
	assert.Zero(t, fc.RetryDelay)

	lc := config.LoggerConfig()
	assert.False(t, lc.Compress)
	assert.True(t, lc.EnableStdout)
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := ParseConfig([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, config.Logging.Level)
	assert.Equal(t, DefaultLogMaxBackups, config.Logging.MaxBackups)
	assert.Equal(t, constants.DefaultLogMaxAge, config.Logging.MaxAge)
	assert.True(t, *config.Logging.Compress)
	assert.Equal(t, platform.All(), config.EnabledPlatforms())
	assert.Empty(t, config.VoicePlaceholder(platform.QQ))
	assert.False(t, config.TracerConfig().Enabled)
}

func TestLoadConfig_MissingEnv_ReturnsError(t *testing.T) {
	_, err := ParseConfig([]byte(`fetch: {proxy: "${ANYBOT_SURELY_UNSET_VAR}"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANYBOT_SURELY_UNSET_VAR")
}

func TestLoadConfig_FileNotFound_ReturnsError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML_ReturnsError(t *testing.T) {
	_, err := ParseConfig([]byte("platforms: [onebot"))
	assert.Error(t, err)
}

func TestValidateConfig_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"unknown platform", "platforms: [wechat]", "invalid platforms entry"},
		{"duplicate platform", "platforms: [feishu, lark]", "listed twice"},
		{"unknown placeholder key", "placeholders: {platforms: {icq: x}}", "placeholders.platforms"},
		{"bad duration", "fetch: {timeout: soon}", "fetch.timeout"},
		{"negative duration", "fetch: {breaker_timeout: -1s}", "fetch.breaker_timeout"},
		{"negative tries", "fetch: {max_tries: -1}", "fetch.max_tries"},
		{"negative rate", "fetch: {rate_limit: -2}", "fetch.rate_limit"},
		{"bad exporter", "tracing: {enabled: true, exporter: jaeger}", "tracing.exporter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("ANYBOT_TEST_EMPTY", "")
	t.Setenv("ANYBOT_TEST_VALUE", "v")

	out, err := expandEnv("a=${ANYBOT_TEST_VALUE} b=${ANYBOT_TEST_EMPTY}")
	require.NoError(t, err)
	assert.Equal(t, "a=v b=", out)
}
