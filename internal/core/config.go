// Package core loads the anybot configuration and wires the runtime: the
// platform, event and handler registries, the media fetcher, the message
// dispatcher and the enabled adapter modules.
//
// # Configuration
//
// Configuration is loaded from a YAML file with the following sections:
//
//   - logging: log level, file rotation and stdout output
//   - platforms: adapter modules to load, all of them when empty
//   - fetch: media download timeouts, retries, rate limit and circuit breaker
//   - tracing: span exporter for message build and send
//   - placeholders: text sent in place of voice where it cannot be carried
//
// # Example Configuration
//
//	logging:
//	  level: debug
//	platforms: [onebot, discord, telegram]
//	fetch:
//	  timeout: 10s
//	  proxy: "${HTTPS_PROXY}"
//	placeholders:
//	  voice: "(voice)"
//	  platforms:
//	    qq: "[语音]"
package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/keepmind9/anybot/internal/fetch"
	"github.com/keepmind9/anybot/internal/logger"
	"github.com/keepmind9/anybot/internal/platform"
	"github.com/keepmind9/anybot/internal/tracer"
	"github.com/keepmind9/anybot/pkg/constants"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLogLevel        = "info"
	DefaultLogMaxBackups   = 5
	DefaultLogCompress     = true
	DefaultLogEnableStdout = true

	DefaultTraceExporter = "stdout"
)

// LoadConfig loads configuration from file and expands environment variables
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration, expanding ${VAR} references first
func ParseConfig(data []byte) (*Config, error) {
	expanded, err := expandEnv(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to expand environment variables: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

// expandEnv replaces ${VAR_NAME} patterns with environment variable values
func expandEnv(input string) (string, error) {
	var missingVars []string

	result := os.Expand(input, func(key string) string {
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		missingVars = append(missingVars, key)
		return ""
	})

	if len(missingVars) > 0 {
		return "", fmt.Errorf("missing required environment variables: %s",
			strings.Join(missingVars, ", "))
	}
	return result, nil
}

// validateConfig fills defaults and rejects values that cannot work
func validateConfig(config *Config) error {
	if config.Logging.Level == "" {
		config.Logging.Level = DefaultLogLevel
	}
	if config.Logging.MaxSize == 0 {
		config.Logging.MaxSize = constants.DefaultLogMaxSize
	}
	if config.Logging.MaxBackups == 0 {
		config.Logging.MaxBackups = DefaultLogMaxBackups
	}
	if config.Logging.MaxAge == 0 {
		config.Logging.MaxAge = constants.DefaultLogMaxAge
	}
	if config.Logging.Compress == nil {
		config.Logging.Compress = boolPtr(DefaultLogCompress)
	}
	if config.Logging.EnableStdout == nil {
		config.Logging.EnableStdout = boolPtr(DefaultLogEnableStdout)
	}

	seen := make(map[platform.Platform]bool)
	for _, name := range config.Platforms {
		p, err := platform.Parse(name)
		if err != nil {
			return fmt.Errorf("invalid platforms entry: %w", err)
		}
		if seen[p] {
			return fmt.Errorf("platform %s is listed twice", p)
		}
		seen[p] = true
	}
	for name := range config.Placeholders.Platforms {
		if _, err := platform.Parse(name); err != nil {
			return fmt.Errorf("invalid placeholders.platforms key: %w", err)
		}
	}

	for field, value := range map[string]string{
		"fetch.timeout":         config.Fetch.Timeout,
		"fetch.retry_delay":     config.Fetch.RetryDelay,
		"fetch.breaker_timeout": config.Fetch.BreakerTimeout,
	} {
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", field, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative (got %v)", field, d)
		}
	}
	if config.Fetch.MaxTries < 0 {
		return fmt.Errorf("fetch.max_tries must not be negative (got %d)", config.Fetch.MaxTries)
	}
	if config.Fetch.RateLimit < 0 {
		return fmt.Errorf("fetch.rate_limit must not be negative (got %v)", config.Fetch.RateLimit)
	}

	if config.Tracing.Enabled && config.Tracing.Exporter == "" {
		config.Tracing.Exporter = DefaultTraceExporter
	}
	switch config.Tracing.Exporter {
	case "", "stdout", "noop":
	default:
		return fmt.Errorf("unsupported tracing.exporter: %s", config.Tracing.Exporter)
	}

	return nil
}

// EnabledPlatforms returns the platforms whose modules should load, in
// declaration order
func (c *Config) EnabledPlatforms() []platform.Platform {
	if len(c.Platforms) == 0 {
		return platform.All()
	}
	enabled := make(map[platform.Platform]bool, len(c.Platforms))
	for _, name := range c.Platforms {
		if p, err := platform.Parse(name); err == nil {
			enabled[p] = true
		}
	}
	var out []platform.Platform
	for _, p := range platform.All() {
		if enabled[p] {
			out = append(out, p)
		}
	}
	return out
}

// VoicePlaceholder returns the voice text for p, empty when the adapter
// default applies
func (c *Config) VoicePlaceholder(p platform.Platform) string {
	for name, text := range c.Placeholders.Platforms {
		if q, err := platform.Parse(name); err == nil && q == p && text != "" {
			return text
		}
	}
	return c.Placeholders.Voice
}

// LoggerConfig converts the logging section for logger.InitLogger
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:        c.Logging.Level,
		File:         c.Logging.File,
		MaxSize:      c.Logging.MaxSize,
		MaxBackups:   c.Logging.MaxBackups,
		MaxAge:       c.Logging.MaxAge,
		Compress:     c.Logging.Compress == nil || *c.Logging.Compress,
		EnableStdout: c.Logging.EnableStdout == nil || *c.Logging.EnableStdout,
	}
}

// FetchConfig converts the fetch section. Durations were checked by validation.
func (c *Config) FetchConfig() fetch.Config {
	return fetch.Config{
		Timeout:         duration(c.Fetch.Timeout),
		MaxTries:        c.Fetch.MaxTries,
		RetryDelay:      duration(c.Fetch.RetryDelay),
		Proxy:           c.Fetch.Proxy,
		RateLimit:       c.Fetch.RateLimit,
		Burst:           c.Fetch.Burst,
		BreakerFailures: c.Fetch.BreakerFailures,
		BreakerTimeout:  duration(c.Fetch.BreakerTimeout),
		MaxBodySize:     c.Fetch.MaxBodySize,
	}
}

// TracerConfig converts the tracing section
func (c *Config) TracerConfig() tracer.Config {
	return tracer.Config{Enabled: c.Tracing.Enabled, Exporter: c.Tracing.Exporter}
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func boolPtr(b bool) *bool { return &b }
