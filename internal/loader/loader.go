// Package loader is the startup extension point adapter modules plug into.
package loader

import (
	"fmt"

	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/logger"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/internal/platform"
	"github.com/sirupsen/logrus"
)

// Registrar carries the registries a module fills while loading
type Registrar struct {
	Platforms *platform.Registry
	Events    *event.Resolver
	Handlers  *message.Registry
	// Fetcher downloads remote media for handlers that upload it; may be nil
	Fetcher message.Fetcher
}

// NewRegistrar creates a Registrar with empty registries
func NewRegistrar(fetcher message.Fetcher) *Registrar {
	return &Registrar{
		Platforms: platform.NewRegistry(),
		Events:    event.NewResolver(),
		Handlers:  message.NewRegistry(),
		Fetcher:   fetcher,
	}
}

// Module is one platform adapter
type Module interface {
	Name() string
	Platform() platform.Platform
	// Register declares the platform's bot type, event variants and handler
	Register(r *Registrar) error
}

// Load registers every module in order and then freezes the event resolver.
// The first module error aborts loading.
func Load(r *Registrar, modules ...Module) error {
	for _, m := range modules {
		if err := m.Register(r); err != nil {
			return fmt.Errorf("failed to load adapter module %s: %w", m.Name(), err)
		}
		logger.WithFields(logrus.Fields{
			"module":   m.Name(),
			"platform": m.Platform().String(),
		}).Info("adapter-module-loaded")
	}
	r.Events.Freeze()
	return nil
}
