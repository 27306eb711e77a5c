// Package profile is the module facade: it assembles storage, the event bus,
// the relay, rewards, the secondary pusher, and the command registry.
package profile

import (
	"context"
	"net/http"

	"github.com/goliatone/go-profile-events/internal/di"
	"github.com/goliatone/go-profile-events/pkg/activity"
	"github.com/goliatone/go-profile-events/pkg/commands"
	"github.com/goliatone/go-profile-events/pkg/config"
	"github.com/goliatone/go-profile-events/pkg/events"
	"github.com/goliatone/go-profile-events/pkg/interfaces/broadcaster"
	"github.com/goliatone/go-profile-events/pkg/interfaces/cache"
	"github.com/goliatone/go-profile-events/pkg/interfaces/logger"
	"github.com/goliatone/go-profile-events/pkg/pusher"
	"github.com/goliatone/go-profile-events/pkg/relay"
	"github.com/goliatone/go-profile-events/pkg/rewards"
	"github.com/goliatone/go-profile-events/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
)

// ModuleOptions configure the module facade.
type ModuleOptions struct {
	Config      config.Config
	Storage     storage.Providers
	DB          *bun.DB
	Logger      logger.Logger
	Bridge      relay.NativeBridge
	Broadcaster broadcaster.Broadcaster
	Sink        pusher.Sink
	Registerer  prometheus.Registerer
	HTTPClient  *http.Client
	Hooks       activity.Hooks
	Cache       cache.Cache
}

// Module bundles the container and exposes high-level accessors.
type Module struct {
	container *di.Container
}

// NewModule assembles repositories, services, relay, pusher, and commands.
func NewModule(opts ModuleOptions) (*Module, error) {
	container, err := di.New(di.Options{
		Config:      opts.Config,
		Storage:     opts.Storage,
		DB:          opts.DB,
		Logger:      opts.Logger,
		Bridge:      opts.Bridge,
		Broadcaster: opts.Broadcaster,
		Sink:        opts.Sink,
		Registerer:  opts.Registerer,
		HTTPClient:  opts.HTTPClient,
		Hooks:       opts.Hooks,
		Cache:       opts.Cache,
	})
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Start primes the native bridge. Repeated calls are no-ops.
func (m *Module) Start(ctx context.Context) error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Relay.Init(ctx)
}

// Close detaches the pusher from the bus.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	m.container.Pusher.Close()
	return nil
}

// Relay returns the notification relay.
func (m *Module) Relay() *relay.Relay {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Relay
}

// Bus returns the event bus listeners subscribe to.
func (m *Module) Bus() *events.Bus {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Bus
}

// Rewards returns the reward service.
func (m *Module) Rewards() *rewards.Service {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Rewards
}

// Pusher returns the secondary sink subscription.
func (m *Module) Pusher() *pusher.Pusher {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Pusher
}

// Commands returns the go-command registry.
func (m *Module) Commands() *commands.Registry {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Commands
}

// Storage returns the repositories backing rewards and the journal.
func (m *Module) Storage() storage.Providers {
	if m == nil || m.container == nil {
		return storage.Providers{}
	}
	return m.container.Storage
}

// Gatherer returns the module's private metrics registry, or nil when the
// caller supplied a Registerer or metrics are disabled.
func (m *Module) Gatherer() prometheus.Gatherer {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Gatherer
}

// Config returns the effective module configuration.
func (m *Module) Config() config.Config {
	if m == nil || m.container == nil {
		return config.Config{}
	}
	return m.container.Config
}

// Container returns the internal DI container.
// This is exposed for advanced use cases like direct storage access.
func (m *Module) Container() *di.Container {
	if m == nil {
		return nil
	}
	return m.container
}
