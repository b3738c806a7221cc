package event

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/keepmind9/anybot/internal/logger"
	"github.com/sirupsen/logrus"
)

var (
	// ErrFrozen is returned when a variant is registered after Freeze
	ErrFrozen = errors.New("event resolver is frozen")
	// ErrMisconfigured is returned for variant declarations that can never resolve
	ErrMisconfigured = errors.New("event variant misconfigured")
)

// abstract classes in hierarchy order
var abstractClasses = []reflect.Type{
	reflect.TypeFor[Event](),
	reflect.TypeFor[MsgEvent](),
	reflect.TypeFor[GroupEvent](),
	reflect.TypeFor[GroupMsgEvent](),
}

type entry struct {
	native  reflect.Type
	variant reflect.Type
	build   func(bot, native any) (Event, bool)
}

// Resolver maps native event types to unified variants.
//
// Variants are registered while adapter modules load; Freeze then computes the
// specificity order of every class once. After Freeze the resolver is read-only.
type Resolver struct {
	mu      sync.RWMutex
	entries map[reflect.Type]map[reflect.Type]*entry
	keys    map[reflect.Type][]reflect.Type // registration order per class
	order   map[reflect.Type][]reflect.Type // specificity order per class
	classes []reflect.Type
	frozen  bool
}

// NewResolver creates an empty Resolver in its registration phase
func NewResolver() *Resolver {
	return &Resolver{
		entries: make(map[reflect.Type]map[reflect.Type]*entry),
		keys:    make(map[reflect.Type][]reflect.Type),
	}
}

// Register declares V as the variant wrapping native events of type N.
//
// N may be a concrete type or an interface; an interface key matches every
// native type implementing it. V is registered under each abstract class it
// implements and under its own type. A second registration of N under the same
// class replaces the first and logs a warning.
func Register[B, N any, V Event](r *Resolver, newVariant func(B, N) V) error {
	nt := reflect.TypeFor[N]()
	vt := reflect.TypeFor[V]()

	if newVariant == nil {
		return fmt.Errorf("%w: variant %s has no constructor", ErrMisconfigured, vt)
	}
	if nt.Kind() == reflect.Interface && nt.NumMethod() == 0 {
		return fmt.Errorf("%w: variant %s does not declare a native event type", ErrMisconfigured, vt)
	}
	if vt.Kind() == reflect.Interface {
		return fmt.Errorf("%w: variant %s must be a concrete type", ErrMisconfigured, vt)
	}

	e := &entry{
		native:  nt,
		variant: vt,
		build: func(bot, native any) (Event, bool) {
			n, ok := native.(N)
			if !ok {
				return nil, false
			}
			var b B
			if bot != nil {
				if b, ok = bot.(B); !ok {
					return nil, false
				}
			}
			return newVariant(b, n), true
		},
	}
	return r.add(e)
}

// MustRegister is Register that panics on error, for package-level wiring
func MustRegister[B, N any, V Event](r *Resolver, newVariant func(B, N) V) {
	if err := Register(r, newVariant); err != nil {
		panic(err)
	}
}

func (r *Resolver) add(e *entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: cannot register %s", ErrFrozen, e.variant)
	}

	classes := make([]reflect.Type, 0, len(abstractClasses)+1)
	for _, c := range abstractClasses {
		if e.variant.Implements(c) {
			classes = append(classes, c)
		}
	}
	classes = append(classes, e.variant)

	for _, c := range classes {
		m, ok := r.entries[c]
		if !ok {
			m = make(map[reflect.Type]*entry)
			r.entries[c] = m
			r.classes = append(r.classes, c)
		}
		if old, exists := m[e.native]; exists {
			logger.WithFields(logrus.Fields{
				"class":    c.String(),
				"native":   e.native.String(),
				"previous": old.variant.String(),
				"variant":  e.variant.String(),
			}).Warn("event-variant-overridden")
		} else {
			r.keys[c] = append(r.keys[c], e.native)
		}
		m[e.native] = e
	}

	logger.WithFields(logrus.Fields{
		"native":  e.native.String(),
		"variant": e.variant.String(),
		"classes": len(classes),
	}).Debug("event-variant-registered")
	return nil
}

// Freeze ends the registration phase and computes every specificity order.
// Calling it again has no effect.
func (r *Resolver) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return
	}
	r.order = make(map[reflect.Type][]reflect.Type, len(r.keys))
	for c, keys := range r.keys {
		r.order[c] = specificityOrder(keys)
	}
	r.frozen = true

	logger.WithField("classes", len(r.order)).Info("event-resolver-frozen")
}

// Frozen reports whether Freeze has been called
func (r *Resolver) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Solve wraps native in the most specific variant registered under class T.
// It reports false when no variant applies.
func Solve[T Event](r *Resolver, bot, native any) (T, bool) {
	var zero T
	ev, ok := r.Resolve(reflect.TypeFor[T](), bot, native)
	if !ok {
		return zero, false
	}
	t, ok := ev.(T)
	return t, ok
}

// Resolve is the untyped form of Solve
func (r *Resolver) Resolve(class reflect.Type, bot, native any) (Event, bool) {
	if native == nil {
		return nil, false
	}
	t := reflect.TypeOf(native)

	r.mu.RLock()
	defer r.mu.RUnlock()

	m := r.entries[class]
	if e, ok := m[t]; ok {
		if ev, ok := e.build(bot, native); ok {
			return ev, true
		}
	}

	if !r.frozen {
		logger.WithFields(logrus.Fields{
			"class":  class.String(),
			"native": t.String(),
		}).Warn("event-resolved-before-freeze")
		return nil, false
	}

	for _, key := range r.order[class] {
		if key == t || !matches(t, key) {
			continue
		}
		if ev, ok := m[key].build(bot, native); ok {
			return ev, true
		}
	}
	return nil, false
}

// ClassOrder describes the frozen order of one class
type ClassOrder struct {
	Class   string
	Natives []string
	Variant []string
}

// Orders returns the specificity order of every class in registration order
func (r *Resolver) Orders() []ClassOrder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ClassOrder, 0, len(r.classes))
	for _, c := range r.classes {
		keys := r.order[c]
		if !r.frozen {
			keys = r.keys[c]
		}
		co := ClassOrder{Class: c.String()}
		for _, k := range keys {
			co.Natives = append(co.Natives, k.String())
			co.Variant = append(co.Variant, r.entries[c][k].variant.String())
		}
		out = append(out, co)
	}
	return out
}

// matches reports whether a native value of type t is an instance of key
func matches(t, key reflect.Type) bool {
	if t == key {
		return true
	}
	return key.Kind() == reflect.Interface && t.Implements(key)
}

// isSubtype reports whether a is strictly more specific than b
func isSubtype(a, b reflect.Type) bool {
	if a == b || b.Kind() != reflect.Interface || !a.Implements(b) {
		return false
	}
	// interfaces with equal method sets are the same rank
	return a.Kind() != reflect.Interface || !b.Implements(a)
}

// specificityOrder returns types so that every subtype precedes its
// supertypes. Unrelated types keep their relative input order.
func specificityOrder(types []reflect.Type) []reflect.Type {
	remaining := append([]reflect.Type(nil), types...)
	out := make([]reflect.Type, 0, len(types))

	for len(remaining) > 0 {
		pick := 0
		for i, t := range remaining {
			if !hasSubtype(t, remaining) {
				pick = i
				break
			}
		}
		out = append(out, remaining[pick])
		remaining = append(remaining[:pick], remaining[pick+1:]...)
	}
	return out
}

func hasSubtype(t reflect.Type, among []reflect.Type) bool {
	for _, o := range among {
		if isSubtype(o, t) {
			return true
		}
	}
	return false
}
