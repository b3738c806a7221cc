// Package event defines the unified event surface shared by every platform and
// the resolver that wraps a platform-native event in the most specific
// registered variant.
//
// # Capabilities
//
// A unified event is composed of up to three capability axes:
//
//   - Event: wraps one native event, reports its platform and whether it targets the bot
//   - MsgEvent: message content and sender accessors, lazily fetched user metadata
//   - GroupEvent: group (first level) and channel (second level) ids and metadata
//
// GroupMsgEvent combines the last two. Concrete variants live in the platform
// adapter packages and are registered with Register while adapter modules load.
//
// # Resolution
//
//	ev, ok := event.Solve[event.GroupMsgEvent](resolver, bot, native)
//	if !ok {
//		return // not a group message this layer knows about
//	}
//	name, err := ev.GroupName(ctx)
package event

import (
	"context"
	"errors"

	"github.com/keepmind9/anybot/internal/model"
	"github.com/keepmind9/anybot/internal/platform"
	"github.com/keepmind9/anybot/pkg/constants"
)

var (
	// ErrNoBot is returned by metadata accessors of events resolved without a bot
	ErrNoBot = errors.New("no bot available for platform request")
	// ErrNoEvent is returned by handlers that can only answer an event when none was given
	ErrNoEvent = errors.New("no message event to reply to")
)

// Event is the base capability of every unified event
type Event interface {
	Platform() platform.Platform
	// ToMe reports whether the event targets the bot
	ToMe() bool
	// Native returns the wrapped platform event
	Native() any
}

// MsgEvent is an event carrying a user message
type MsgEvent interface {
	Event

	// Message returns the platform-native segment sequence
	Message() any
	Plaintext() string
	// Images returns the locations of every image in the message
	Images() []string
	UserID() string
	Name() string
	// Reply returns the native reference of the replied message, or nil
	Reply() any
	UserInfo(ctx context.Context) (*model.User, error)
	AvatarURL(ctx context.Context) (string, error)
	UserRichID() string
}

// GroupEvent is an event that happened inside a group, guild or channel
type GroupEvent interface {
	Event

	// GroupID returns the first level container id
	GroupID() string
	// ChannelID returns the second level container id, or GroupID when the
	// platform has no sub-channels
	ChannelID() string
	GroupInfo(ctx context.Context) (*model.Group, error)
	ChannelInfo(ctx context.Context) (*model.Group, error)
	GroupName(ctx context.Context) (string, error)
	ChannelName(ctx context.Context) (string, error)
	GroupRichID() string
	ChannelRichID() string
}

// GroupMsgEvent is a message sent inside a group
type GroupMsgEvent interface {
	MsgEvent
	GroupEvent
}

// RichID prefixes id with the platform name so ids from different platforms
// never compare equal.
func RichID(p platform.Platform, id string) string {
	return p.String() + constants.RichIDSeparator + id
}

// Base carries the bot and native event of a variant. Variants embed it.
type Base[B, N any] struct {
	platform platform.Platform
	bot      B
	native   N
}

// NewBase creates the embedded part of a variant
func NewBase[B, N any](p platform.Platform, bot B, native N) Base[B, N] {
	return Base[B, N]{platform: p, bot: bot, native: native}
}

// Platform returns the platform the event came from
func (b *Base[B, N]) Platform() platform.Platform { return b.platform }

// Native returns the wrapped native event
func (b *Base[B, N]) Native() any { return b.native }

// Event returns the wrapped native event with its static type
func (b *Base[B, N]) Event() N { return b.native }

// Bot returns the bot the event was resolved with
func (b *Base[B, N]) Bot() B { return b.bot }

// ToMe asks the native event when it exposes an IsToMe predicate
func (b *Base[B, N]) ToMe() bool {
	if t, ok := any(b.native).(interface{ IsToMe() bool }); ok {
		return t.IsToMe()
	}
	return false
}
