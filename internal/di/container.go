package di

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/goliatone/go-profile-events/pkg/activity"
	"github.com/goliatone/go-profile-events/pkg/commands"
	"github.com/goliatone/go-profile-events/pkg/config"
	"github.com/goliatone/go-profile-events/pkg/events"
	"github.com/goliatone/go-profile-events/pkg/interfaces/broadcaster"
	"github.com/goliatone/go-profile-events/pkg/interfaces/cache"
	"github.com/goliatone/go-profile-events/pkg/interfaces/logger"
	"github.com/goliatone/go-profile-events/pkg/metrics"
	"github.com/goliatone/go-profile-events/pkg/pusher"
	"github.com/goliatone/go-profile-events/pkg/pusher/broadcast"
	"github.com/goliatone/go-profile-events/pkg/pusher/console"
	"github.com/goliatone/go-profile-events/pkg/pusher/webhook"
	"github.com/goliatone/go-profile-events/pkg/relay"
	"github.com/goliatone/go-profile-events/pkg/rewards"
	"github.com/goliatone/go-profile-events/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
)

// Options configure the DI container.
type Options struct {
	Config  config.Config
	Storage storage.Providers
	// DB selects bun-backed storage when Storage is empty.
	DB          *bun.DB
	Logger      logger.Logger
	Bridge      relay.NativeBridge
	Broadcaster broadcaster.Broadcaster
	// Sink overrides the sink selected by Config.Pusher.Target.
	Sink       pusher.Sink
	Registerer prometheus.Registerer
	HTTPClient *http.Client
	Hooks      activity.Hooks
	// Cache backs reward lookups; an in-process cache is used when nil.
	Cache cache.Cache
}

// Container wires storage, bus, relay, rewards, pusher, and commands.
type Container struct {
	Config   config.Config
	Storage  storage.Providers
	Bus      *events.Bus
	Rewards  *rewards.Service
	Relay    *relay.Relay
	Pusher   *pusher.Pusher
	Commands *commands.Registry
	Metrics  metrics.Recorder
	// Gatherer is set when the container created its own registry.
	Gatherer prometheus.Gatherer
}

func isZeroConfig(cfg config.Config) bool {
	return reflect.ValueOf(cfg).IsZero()
}

// New constructs the container using the supplied options.
func New(opts Options) (*Container, error) {
	cfg := opts.Config
	if isZeroConfig(cfg) {
		cfg = config.Defaults()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	providers := opts.Storage
	if providers.Rewards == nil {
		if opts.DB != nil {
			providers = storage.NewBunProviders(opts.DB)
		} else {
			providers = storage.NewMemoryProviders()
		}
	}

	lgr := opts.Logger
	if lgr == nil {
		lgr = &logger.Nop{}
	}

	c := opts.Cache
	if c == nil {
		c = cache.NewMemory(cache.DefaultMemorySize)
	}

	hooks := opts.Hooks
	if hooks == nil {
		hooks = activity.Hooks{activity.LogHook{Logger: lgr.With(logger.Field{Key: "component", Value: "activity"})}}
	}

	var (
		recorder metrics.Recorder = metrics.Nop{}
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := opts.Registerer
		if reg == nil {
			registry := prometheus.NewRegistry()
			reg, gatherer = registry, registry
		}
		recorder = metrics.NewPrometheus(reg, cfg.Metrics.Namespace)
	}

	bus := events.NewBus(events.Options{
		Policy:   events.Policy(cfg.Relay.ListenerPolicy),
		MaxDepth: cfg.Relay.MaxDepth,
		Logger:   lgr,
	})

	rewardSvc, err := rewards.New(rewards.Dependencies{
		Rewards:     providers.Rewards,
		Grants:      providers.Grants,
		Transaction: providers.Transaction,
		Logger:      lgr,
		Activity:    hooks,
		Cache:       c,
	})
	if err != nil {
		return nil, err
	}

	relayDeps := relay.Dependencies{
		Bus:     bus,
		Bridge:  opts.Bridge,
		Hooks:   hooks,
		Metrics: recorder,
		Logger:  lgr,
	}
	if cfg.Rewards.Enabled {
		relayDeps.Rewards = rewardSvc
	}
	if cfg.Journal.Enabled {
		relayDeps.Journal = providers.Journal
	}
	relaySvc, err := relay.New(relayDeps)
	if err != nil {
		return nil, err
	}

	sink := opts.Sink
	if sink == nil {
		if sink, err = sinkFor(cfg.Pusher, opts, lgr); err != nil {
			return nil, err
		}
	}
	pusherSvc := pusher.New(bus, sink, lgr, pusher.WithMetrics(recorder))

	cmdRegistry, err := commands.New(commands.Dependencies{
		Relay:   relaySvc,
		Rewards: rewardSvc,
		Logger:  lgr,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:   cfg,
		Storage:  providers,
		Bus:      bus,
		Rewards:  rewardSvc,
		Relay:    relaySvc,
		Pusher:   pusherSvc,
		Commands: cmdRegistry,
		Metrics:  recorder,
		Gatherer: gatherer,
	}, nil
}

func sinkFor(cfg config.PusherConfig, opts Options, lgr logger.Logger) (pusher.Sink, error) {
	switch cfg.Target {
	case config.TargetConsole:
		return console.New(lgr).Sink(), nil
	case config.TargetWebhook:
		webhookOpts := []webhook.Option{webhook.WithConfig(webhook.Config{
			URL:         cfg.Webhook.URL,
			Headers:     cfg.Webhook.Headers,
			Timeout:     cfg.Webhook.TimeoutDuration(),
			MaxAttempts: cfg.Webhook.MaxAttempts,
		})}
		if opts.HTTPClient != nil {
			webhookOpts = append(webhookOpts, webhook.WithClient(opts.HTTPClient))
		}
		return webhook.New(lgr, webhookOpts...).Sink(), nil
	case config.TargetBroadcast:
		if opts.Broadcaster == nil {
			return nil, errors.New("di: broadcaster is required for the broadcast pusher target")
		}
		return broadcast.New(opts.Broadcaster).Sink(), nil
	default:
		return pusher.NopSink{}, nil
	}
}
