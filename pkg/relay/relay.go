// Package relay turns native social-profile notifications into typed events
// on an events.Bus.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-profile-events/pkg/activity"
	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/events"
	"github.com/goliatone/go-profile-events/pkg/interfaces/logger"
	"github.com/goliatone/go-profile-events/pkg/interfaces/store"
	"github.com/goliatone/go-profile-events/pkg/metrics"
	"github.com/goliatone/go-profile-events/pkg/redact"
	"github.com/goliatone/go-profile-events/pkg/rewards"
	"github.com/goliatone/go-profile-events/pkg/wire"
)

var (
	// ErrUnknownMethod is returned by Handle for method names no handler serves.
	ErrUnknownMethod = errors.New("relay: unknown method")

	errBusRequired = errors.New("relay: bus is required")
)

// NativeBridge primes the native layer so it starts delivering notifications.
type NativeBridge interface {
	Initialize(ctx context.Context) error
}

// NopBridge is used when no native layer is attached.
type NopBridge struct{}

func (NopBridge) Initialize(context.Context) error { return nil }

// RewardRegistry resolves and grants rewards referenced from payloads.
type RewardRegistry interface {
	Lookup(ctx context.Context, id string) (*domain.RewardDefinition, error)
	Give(ctx context.Context, reward *domain.RewardDefinition, grant rewards.GrantContext) error
}

type nopRewards struct{}

func (nopRewards) Lookup(context.Context, string) (*domain.RewardDefinition, error) {
	return nil, rewards.ErrRewardNotFound
}

func (nopRewards) Give(context.Context, *domain.RewardDefinition, rewards.GrantContext) error {
	return nil
}

// Dependencies wires the relay collaborators. Only Bus is required.
type Dependencies struct {
	Bus     *events.Bus
	Rewards RewardRegistry
	Bridge  NativeBridge
	Journal store.JournalRepository
	Hooks   activity.Hooks
	Metrics metrics.Recorder
	Logger  logger.Logger
}

// Relay decodes inbound notifications and publishes the matching events.
type Relay struct {
	bus     *events.Bus
	rewards RewardRegistry
	bridge  NativeBridge
	journal store.JournalRepository
	hooks   activity.Hooks
	metrics metrics.Recorder
	logger  logger.Logger

	initOnce sync.Once
	initErr  error

	handlers map[string]func(context.Context, string) error
}

// New constructs a relay.
func New(deps Dependencies) (*Relay, error) {
	if deps.Bus == nil {
		return nil, errBusRequired
	}
	if deps.Rewards == nil {
		deps.Rewards = nopRewards{}
	}
	if deps.Bridge == nil {
		deps.Bridge = NopBridge{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	r := &Relay{
		bus:     deps.Bus,
		rewards: deps.Rewards,
		bridge:  deps.Bridge,
		journal: deps.Journal,
		hooks:   deps.Hooks,
		metrics: deps.Metrics,
		logger:  deps.Logger,
	}
	r.handlers = r.routes()
	return r, nil
}

// Init primes the native bridge once. Later calls return the first result.
func (r *Relay) Init(ctx context.Context) error {
	r.initOnce.Do(func() {
		r.initErr = r.bridge.Initialize(ctx)
		if r.initErr != nil {
			r.logger.Error("relay: native bridge initialization failed", logger.Err(r.initErr))
			return
		}
		r.logger.Debug("relay: native bridge initialized")
	})
	return r.initErr
}

// Bus returns the bus events are published on.
func (r *Relay) Bus() *events.Bus { return r.bus }

// Methods lists the native method names Handle accepts.
func (r *Relay) Methods() []string {
	out := make([]string, 0, len(r.handlers))
	for _, name := range events.Names() {
		if method, ok := wire.MethodFor(name); ok {
			out = append(out, method)
		}
	}
	return out
}

// Handle routes a native method name to its handler. Surrounding whitespace
// in method is ignored.
func (r *Relay) Handle(ctx context.Context, method, message string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	method = strings.TrimSpace(method)
	handler, ok := r.handlers[method]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownMethod, method)
		r.metrics.NotificationReceived(method)
		r.reject(ctx, method, message, err)
		return err
	}
	return handler(ctx, message)
}

type decodeFunc func(ctx context.Context, msg wire.Message) (events.Event, error)

func (r *Relay) relay(ctx context.Context, method, message string, decode decodeFunc) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r.metrics.NotificationReceived(method)

	msg, err := wire.Parse(message)
	var evt events.Event
	if err == nil {
		evt, err = decode(ctx, msg)
	}
	if err != nil {
		r.reject(ctx, method, message, err)
		return fmt.Errorf("relay: %s: %w", method, err)
	}
	return r.dispatch(ctx, method, message, evt)
}

func (r *Relay) dispatch(ctx context.Context, method, message string, evt events.Event) error {
	if ctx == nil {
		ctx = context.Background()
	}
	name := evt.EventName()
	err := r.bus.Publish(ctx, evt)
	if events.Refused(err) {
		r.reject(ctx, method, message, err)
		return err
	}

	r.metrics.EventDispatched(string(name))
	for _, lerr := range listenerErrors(err) {
		r.metrics.ListenerFailed(string(lerr.Event))
	}

	provider := ""
	if p, ok := events.ProviderOf(evt); ok {
		provider = p.String()
	}
	r.record(ctx, &domain.JournalEntry{
		Method:    method,
		EventName: string(name),
		Provider:  provider,
		Status:    domain.JournalStatusDispatched,
		Error:     errorText(err),
		Message:   message,
	})
	r.hooks.Notify(ctx, activity.Event{
		Verb:      activity.VerbNotificationDispatched,
		EventName: string(name),
		Method:    method,
		Provider:  provider,
	})
	r.logger.Debug("relay: event dispatched",
		logger.Field{Key: "method", Value: method},
		logger.Field{Key: "event", Value: name},
	)
	return err
}

func (r *Relay) reject(ctx context.Context, method, message string, err error) {
	reason := rejectReason(err)
	r.metrics.NotificationRejected(method, reason)
	r.logger.Warn("relay: notification rejected",
		logger.Field{Key: "method", Value: method},
		logger.Field{Key: "reason", Value: reason},
		logger.Err(err),
	)
	entry := &domain.JournalEntry{
		Method:  method,
		Status:  domain.JournalStatusRejected,
		Error:   err.Error(),
		Message: message,
	}
	if name, ok := wire.EventFor(method); ok {
		entry.EventName = string(name)
	}
	r.record(ctx, entry)
	r.hooks.Notify(ctx, activity.Event{
		Verb:      activity.VerbNotificationRejected,
		EventName: entry.EventName,
		Method:    method,
		Metadata:  map[string]any{"reason": reason},
	})
}

func (r *Relay) record(ctx context.Context, entry *domain.JournalEntry) {
	if r.journal == nil {
		return
	}
	entry.Message = redact.Document(entry.Message, wire.FieldUserProfile, wire.FieldContacts)
	if err := r.journal.Create(ctx, entry); err != nil {
		r.logger.Warn("relay: journal write failed",
			logger.Field{Key: "method", Value: entry.Method},
			logger.Err(err),
		)
	}
}

// grantReward gives the reward named by the payload, if any. Misses and
// grant failures never block the event.
func (r *Relay) grantReward(ctx context.Context, name events.Name, provider domain.Provider, payload domain.Payload) {
	if payload.RewardID == "" {
		return
	}
	reward, err := r.rewards.Lookup(ctx, payload.RewardID)
	if err != nil {
		if errors.Is(err, rewards.ErrRewardNotFound) {
			r.logger.Debug("relay: reward not found", logger.Field{Key: "reward", Value: payload.RewardID})
			return
		}
		r.logger.Warn("relay: reward lookup failed",
			logger.Field{Key: "reward", Value: payload.RewardID},
			logger.Err(err),
		)
		return
	}
	if reward == nil {
		return
	}
	err = r.rewards.Give(ctx, reward, rewards.GrantContext{
		EventName: string(name),
		Provider:  provider.String(),
		Payload:   payload.Value,
	})
	switch {
	case err == nil:
		r.metrics.RewardGranted(reward.Code)
	case errors.Is(err, rewards.ErrAlreadyGranted):
		r.logger.Debug("relay: reward already granted", logger.Field{Key: "reward", Value: reward.Code})
	default:
		r.logger.Warn("relay: reward grant failed",
			logger.Field{Key: "reward", Value: reward.Code},
			logger.Err(err),
		)
	}
}

func listenerErrors(err error) []*events.ListenerError {
	if err == nil {
		return nil
	}
	var out []*events.ListenerError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, listenerErrors(e)...)
		}
		return out
	}
	var lerr *events.ListenerError
	if errors.As(err, &lerr) {
		out = append(out, lerr)
	}
	return out
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownMethod):
		return "unknown_method"
	case errors.Is(err, domain.ErrUnknownProviderCode), errors.Is(err, domain.ErrUnknownActionCode):
		return "unknown_code"
	case errors.Is(err, wire.ErrMalformedMessage):
		return "malformed"
	case errors.Is(err, events.ErrReentrancyLimit):
		return "reentrancy"
	default:
		return "error"
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
