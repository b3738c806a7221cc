package constants

import "time"

// Message length limits for platforms whose handlers split long text
const (
	// MaxDiscordMessageLength is Discord's message character limit
	MaxDiscordMessageLength = 2000
	// MaxTelegramMessageLength is Telegram's message character limit
	MaxTelegramMessageLength = 4096
)

// Placeholders rendered instead of content a platform cannot carry.
// Handlers must never drop a segment silently.
const (
	// VoicePlaceholder replaces voice segments on platforms without voice support
	VoicePlaceholder = "[voice message is not supported on this platform]"
	// ImagePlaceholder replaces non-URL images on platforms that only accept image links
	ImagePlaceholder = "[image]"
)

// Avatar and icon URL templates for platforms that serve them without an API call
const (
	// OneBotAvatarURL is the QQ avatar endpoint, formatted with the user id
	OneBotAvatarURL = "http://q1.qlogo.cn/g?b=qq&nk=%s&s=640"
	// OneBotGroupIconURL is the QQ group icon endpoint, formatted with the group id twice
	OneBotGroupIconURL = "https://p.qlogo.cn/gh/%s/%s/640"
)

// Media fetch defaults
const (
	// DefaultFetchTimeout bounds a single media download attempt
	DefaultFetchTimeout = 30 * time.Second
	// DefaultFetchMaxTries is how many attempts a media download gets before giving up
	DefaultFetchMaxTries = 3
	// DefaultFetchRateLimit is the sustained media downloads per second
	DefaultFetchRateLimit = 10
	// DefaultFetchBurst is the download burst size
	DefaultFetchBurst = 5
	// DefaultBreakerFailures is the consecutive failure count that opens the breaker
	DefaultBreakerFailures = 5
	// DefaultBreakerTimeout is how long the breaker stays open
	DefaultBreakerTimeout = 30 * time.Second
	// MaxFetchBodySize caps a downloaded media body (50 MB)
	MaxFetchBodySize = 50 << 20
)

// Rich id
const (
	// RichIDSeparator joins a platform name and an entity id
	RichIDSeparator = "-"
)

// Logging defaults
const (
	// DefaultLogMaxSize is the default maximum log file size in MB
	DefaultLogMaxSize = 100
	// DefaultLogMaxAge is the default maximum number of days to retain old logs
	DefaultLogMaxAge = 30
)
