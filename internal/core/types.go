package core

// Config represents the complete anybot configuration structure
type Config struct {
	Logging      LoggingConfig     `yaml:"logging"`
	Platforms    []string          `yaml:"platforms"` // Enabled adapter modules, empty means all
	Fetch        FetchConfig       `yaml:"fetch"`
	Tracing      TracingConfig     `yaml:"tracing"`
	Placeholders PlaceholderConfig `yaml:"placeholders"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	File         string `yaml:"file"`          // Log file path
	MaxSize      int    `yaml:"max_size"`      // Single file max size in MB (default: 100)
	MaxBackups   int    `yaml:"max_backups"`   // Number of backups to keep (default: 5)
	MaxAge       int    `yaml:"max_age"`       // Maximum days to retain (default: 30)
	Compress     *bool  `yaml:"compress"`      // Whether to compress old logs (default: true)
	EnableStdout *bool  `yaml:"enable_stdout"` // Also output to stdout (default: true)
}

// FetchConfig tunes media downloads for platforms that upload media
type FetchConfig struct {
	Timeout         string  `yaml:"timeout"`     // Per attempt (default: 30s)
	MaxTries        int     `yaml:"max_tries"`   // Attempts per download (default: 3)
	RetryDelay      string  `yaml:"retry_delay"` // Pause between attempts (default: none)
	Proxy           string  `yaml:"proxy"`
	RateLimit       float64 `yaml:"rate_limit"` // Downloads per second (default: 10)
	Burst           int     `yaml:"burst"`
	BreakerFailures uint32  `yaml:"breaker_failures"` // Consecutive failures that open the breaker
	BreakerTimeout  string  `yaml:"breaker_timeout"`
	MaxBodySize     int64   `yaml:"max_body_size"` // Bytes
}

// TracingConfig represents span export configuration
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // stdout or noop
}

// PlaceholderConfig overrides the text sent in place of voice on platforms
// that cannot carry it
type PlaceholderConfig struct {
	Voice     string            `yaml:"voice"`
	Platforms map[string]string `yaml:"platforms"` // Per platform voice text, keyed like platforms
}
