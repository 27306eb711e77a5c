package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/goliatone/go-config/cfgx"
	"github.com/goliatone/go-profile-events/pkg/events"
)

// Listener failure policies.
const (
	PolicyIsolate = "isolate"
	PolicyAbort   = "abort"
)

// Pusher targets.
const (
	TargetNone      = "none"
	TargetConsole   = "console"
	TargetWebhook   = "webhook"
	TargetBroadcast = "broadcast"
)

// Config captures module-level configuration knobs.
type Config struct {
	Relay   RelayConfig   `mapstructure:"relay" json:"relay" yaml:"relay"`
	Journal JournalConfig `mapstructure:"journal" json:"journal" yaml:"journal"`
	Rewards RewardsConfig `mapstructure:"rewards" json:"rewards" yaml:"rewards"`
	Pusher  PusherConfig  `mapstructure:"pusher" json:"pusher" yaml:"pusher"`
	Metrics MetricsConfig `mapstructure:"metrics" json:"metrics" yaml:"metrics"`
	Logging LoggingConfig `mapstructure:"logging" json:"logging" yaml:"logging"`
}

// RelayConfig tunes the event bus.
type RelayConfig struct {
	ListenerPolicy string `mapstructure:"listener_policy" json:"listener_policy" yaml:"listener_policy"`

	// MaxDepth bounds nested publishes; zero uses the bus default and a
	// negative value disables the guard.
	MaxDepth int `mapstructure:"max_depth" json:"max_depth" yaml:"max_depth"`
}

// JournalConfig records every inbound notification when enabled.
type JournalConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
}

// RewardsConfig toggles reward grants on finished logins and social actions.
type RewardsConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
}

// PusherConfig selects the secondary sink.
type PusherConfig struct {
	Target  string        `mapstructure:"target" json:"target" yaml:"target"`
	Webhook WebhookConfig `mapstructure:"webhook" json:"webhook" yaml:"webhook"`
}

// WebhookConfig configures the webhook sink. Timeout uses time.ParseDuration syntax.
type WebhookConfig struct {
	URL         string            `mapstructure:"url" json:"url" yaml:"url"`
	Timeout     string            `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
	Headers     map[string]string `mapstructure:"headers" json:"headers" yaml:"headers"`
	MaxAttempts int               `mapstructure:"max_attempts" json:"max_attempts" yaml:"max_attempts"`
}

// TimeoutDuration parses Timeout, returning zero when unset or invalid.
func (w WebhookConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(w.Timeout))
	if err != nil {
		return 0
	}
	return d
}

// MetricsConfig controls the Prometheus recorder.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Namespace string `mapstructure:"namespace" json:"namespace" yaml:"namespace"`
}

// LoggingConfig is consumed by the CLI.
type LoggingConfig struct {
	Level string `mapstructure:"level" json:"level" yaml:"level"`
	File  string `mapstructure:"file" json:"file" yaml:"file"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Relay: RelayConfig{
			ListenerPolicy: PolicyIsolate,
			MaxDepth:       events.DefaultMaxDepth,
		},
		Journal: JournalConfig{Enabled: false},
		Rewards: RewardsConfig{Enabled: true},
		Pusher: PusherConfig{
			Target: TargetNone,
			Webhook: WebhookConfig{
				Timeout:     "10s",
				MaxAttempts: 1,
			},
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "profile_events",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Validate ensures required fields are present and sane.
func (c *Config) Validate() error {
	switch c.Relay.ListenerPolicy {
	case PolicyIsolate, PolicyAbort:
	default:
		return fmt.Errorf("relay.listener_policy must be %q or %q, got %q", PolicyIsolate, PolicyAbort, c.Relay.ListenerPolicy)
	}
	switch c.Pusher.Target {
	case TargetNone, TargetConsole, TargetBroadcast:
	case TargetWebhook:
		if strings.TrimSpace(c.Pusher.Webhook.URL) == "" {
			return errors.New("pusher.webhook.url is required for the webhook target")
		}
	default:
		return fmt.Errorf("pusher.target %q is not supported", c.Pusher.Target)
	}
	if c.Pusher.Webhook.MaxAttempts < 1 {
		return errors.New("pusher.webhook.max_attempts must be >= 1")
	}
	if raw := strings.TrimSpace(c.Pusher.Webhook.Timeout); raw != "" {
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("pusher.webhook.timeout: %w", err)
		}
	}
	return nil
}

// Load decodes arbitrary input (struct, map, cfg struct) using cfgx helpers.
// Map input is decoded over Defaults so omitted keys keep their default values.
func Load(input any, opts ...LoadOption) (Config, error) {
	settings := loadOptions{}
	if _, ok := input.(map[string]any); ok {
		settings.buildOpts = append(settings.buildOpts, cfgx.WithDefaultFunc(func() (Config, error) {
			return Defaults(), nil
		}))
	}
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := cfgx.Build(input, settings.buildOpts...)
	if err != nil {
		return Config{}, err
	}

	if isZero(cfg) {
		if cfg, err = decodeFallback(input); err != nil {
			return Config{}, err
		}
	}

	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadOption lets callers amend cfgx build options.
type LoadOption func(*loadOptions)

type loadOptions struct {
	buildOpts []cfgx.Option[Config]
}

// WithBuildOptions forwards cfgx options (duration hooks, preprocessors, etc.).
func WithBuildOptions(opts ...cfgx.Option[Config]) LoadOption {
	return func(lo *loadOptions) {
		lo.buildOpts = append(lo.buildOpts, opts...)
	}
}

func (c Config) withDefaults() Config {
	defaults := Defaults()

	c.Relay.ListenerPolicy = strings.ToLower(strings.TrimSpace(c.Relay.ListenerPolicy))
	if c.Relay.ListenerPolicy == "" {
		c.Relay.ListenerPolicy = defaults.Relay.ListenerPolicy
	}
	c.Pusher.Target = strings.ToLower(strings.TrimSpace(c.Pusher.Target))
	if c.Pusher.Target == "" {
		c.Pusher.Target = defaults.Pusher.Target
	}
	if c.Pusher.Webhook.MaxAttempts == 0 {
		c.Pusher.Webhook.MaxAttempts = defaults.Pusher.Webhook.MaxAttempts
	}
	if c.Pusher.Webhook.Timeout == "" {
		c.Pusher.Webhook.Timeout = defaults.Pusher.Webhook.Timeout
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = defaults.Metrics.Namespace
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	return c
}

func isZero(cfg Config) bool {
	return reflect.DeepEqual(cfg, Config{})
}

func decodeFallback(input any) (Config, error) {
	switch v := input.(type) {
	case nil:
		return Defaults(), nil
	case Config:
		if isZero(v) {
			return Defaults(), nil
		}
		return v, nil
	case *Config:
		if v == nil || isZero(*v) {
			return Defaults(), nil
		}
		return *v, nil
	case map[string]any:
		cfg := Defaults()
		if err := decodeMap(v, &cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	default:
		return Config{}, fmt.Errorf("unsupported config input type: %T", input)
	}
}

func decodeMap(input map[string]any, cfg *Config) error {
	if input == nil {
		return nil
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, cfg)
}
