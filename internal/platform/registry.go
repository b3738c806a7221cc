package platform

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/keepmind9/anybot/internal/logger"
	"github.com/sirupsen/logrus"
)

// ErrUnsupportedPlatform is returned when a platform or bot type was never registered
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Registry maps platforms to the bot and adapter types of their integration
type Registry struct {
	mu          sync.RWMutex
	botTypes    map[Platform]reflect.Type
	adapterType map[Platform]reflect.Type
	byBot       map[reflect.Type]Platform
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		botTypes:    make(map[Platform]reflect.Type),
		adapterType: make(map[Platform]reflect.Type),
		byBot:       make(map[reflect.Type]Platform),
	}
}

// Register records the bot and adapter types of p. A later call for the same
// platform replaces the earlier one.
func (r *Registry) Register(p Platform, botType, adapterType reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.botTypes[p]; ok && old != botType {
		// another platform may have claimed old since
		if r.byBot[old] == p {
			delete(r.byBot, old)
		}
		logger.WithFields(logrus.Fields{
			"platform": p.String(),
			"old_bot":  old.String(),
			"new_bot":  botType.String(),
		}).Warn("platform-bot-type-replaced")
	}
	r.botTypes[p] = botType
	r.adapterType[p] = adapterType
	r.byBot[botType] = p

	logger.WithFields(logrus.Fields{
		"platform": p.String(),
		"bot":      botType.String(),
		"adapter":  adapterType.String(),
	}).Debug("platform-registered")
}

// Register records B as the bot type and A as the adapter type of p
func Register[B, A any](r *Registry, p Platform) {
	r.Register(p, reflect.TypeFor[B](), reflect.TypeFor[A]())
}

// BotTypeOf returns the bot type registered for p
func (r *Registry) BotTypeOf(p Platform) (reflect.Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.botTypes[p]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: no bot type for %s", ErrUnsupportedPlatform, p)
}

// AdapterTypeOf returns the adapter type registered for p
func (r *Registry) AdapterTypeOf(p Platform) (reflect.Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.adapterType[p]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: no adapter type for %s", ErrUnsupportedPlatform, p)
}

// PlatformOf returns the platform whose registered bot type matches the
// dynamic type of bot. Exact matches win; otherwise an interface-typed
// registration that bot implements is used, lowest platform first.
func (r *Registry) PlatformOf(bot any) (Platform, error) {
	if bot == nil {
		return Unknown, fmt.Errorf("%w: nil bot", ErrUnsupportedPlatform)
	}
	t := reflect.TypeOf(bot)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.byBot[t]; ok {
		return p, nil
	}
	for _, p := range r.platformsLocked() {
		bt := r.botTypes[p]
		if bt.Kind() == reflect.Interface && t.Implements(bt) {
			return p, nil
		}
	}
	return Unknown, fmt.Errorf("%w: bot type %s", ErrUnsupportedPlatform, t)
}

// CurrentPlatform reports the platform of bot, or of the bot the host stored
// in ctx when bot is nil.
func (r *Registry) CurrentPlatform(ctx context.Context, bot any) (Platform, error) {
	if bot == nil {
		bot = BotFromContext(ctx)
	}
	return r.PlatformOf(bot)
}

// Platforms lists the registered platforms in declaration order
func (r *Registry) Platforms() []Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.platformsLocked()
}

func (r *Registry) platformsLocked() []Platform {
	out := make([]Platform, 0, len(r.botTypes))
	for p := range r.botTypes {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
