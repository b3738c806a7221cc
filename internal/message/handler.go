package message

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/keepmind9/anybot/internal/logger"
	"github.com/keepmind9/anybot/internal/platform"
	"github.com/sirupsen/logrus"
)

// ErrTypeMismatch is returned when a handler receives a bot, event or native
// message of another platform
var ErrTypeMismatch = errors.New("value does not belong to handler platform")

// SendOptions decorates a send
type SendOptions struct {
	// At mentions the author of the event
	At bool
	// Reply marks the send as a reply to the event
	Reply bool
}

// Handler converts segments into native messages of one platform and sends them
type Handler interface {
	Platform() platform.Platform
	Build(ctx context.Context, bot any, segs []Segment) ([]any, error)
	Send(ctx context.Context, bot, event, native any, opts SendOptions) (any, error)
}

// TypedHandler is the statically typed form adapters implement
type TypedHandler[B, E, M any] interface {
	// Build returns no messages for an empty segment sequence
	Build(ctx context.Context, bot B, segs []Segment) ([]M, error)
	// Send performs one platform send; errors are the platform's own
	Send(ctx context.Context, bot B, event E, msg M, opts SendOptions) (any, error)
}

type typed[B, E, M any] struct {
	p platform.Platform
	h TypedHandler[B, E, M]
}

func (t typed[B, E, M]) Platform() platform.Platform { return t.p }

func (t typed[B, E, M]) Build(ctx context.Context, bot any, segs []Segment) ([]any, error) {
	b, err := cast[B](bot, "bot")
	if err != nil {
		return nil, err
	}
	msgs, err := t.h.Build(ctx, b, segs)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(msgs))
	for i, m := range msgs {
		out[i] = m
	}
	return out, nil
}

func (t typed[B, E, M]) Send(ctx context.Context, bot, event, native any, opts SendOptions) (any, error) {
	b, err := cast[B](bot, "bot")
	if err != nil {
		return nil, err
	}
	e, err := cast[E](event, "event")
	if err != nil {
		return nil, err
	}
	m, err := cast[M](native, "message")
	if err != nil {
		return nil, err
	}
	return t.h.Send(ctx, b, e, m, opts)
}

// cast converts v to T, mapping nil to the zero T
func cast[T any](v any, what string) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T, want %T", ErrTypeMismatch, what, v, zero)
	}
	return t, nil
}

// Registry maps platforms to their message handler
type Registry struct {
	mu       sync.RWMutex
	handlers map[platform.Platform]Handler
}

// NewRegistry creates an empty handler Registry
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[platform.Platform]Handler)}
}

// Add registers h under its platform. A handler without a platform is ignored.
func (r *Registry) Add(h Handler) {
	p := h.Platform()
	if p == platform.Unknown {
		logger.Debug("message-handler-without-platform-ignored")
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[p]; ok {
		logger.WithField("platform", p.String()).Warn("message-handler-replaced")
	}
	r.handlers[p] = h
	logger.WithFields(logrus.Fields{
		"platform": p.String(),
		"handler":  fmt.Sprintf("%T", h),
	}).Debug("message-handler-registered")
}

// Register wraps h for platform p and adds it to r
func Register[B, E, M any](r *Registry, p platform.Platform, h TypedHandler[B, E, M]) {
	r.Add(typed[B, E, M]{p: p, h: h})
}

// Get returns the handler of p
func (r *Registry) Get(p platform.Platform) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.handlers[p]; ok {
		return h, nil
	}
	return nil, fmt.Errorf("%w: no message handler for %s", platform.ErrUnsupportedPlatform, p)
}

// Platforms lists the platforms with a handler, in declaration order
func (r *Registry) Platforms() []platform.Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]platform.Platform, 0, len(r.handlers))
	for p := range r.handlers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
