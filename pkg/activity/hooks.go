package activity

import (
	"context"
	"time"

	"github.com/goliatone/go-profile-events/pkg/interfaces/logger"
)

// Activity verbs emitted by the relay and reward services.
const (
	VerbNotificationDispatched = "notification.dispatched"
	VerbNotificationRejected   = "notification.rejected"
	VerbRewardGranted          = "reward.granted"
	VerbRewardRegistered       = "reward.registered"
)

// Event captures the common fields consumers need to record activity/audit events.
type Event struct {
	Verb       string
	EventName  string
	Method     string
	Provider   string
	RewardCode string
	ObjectType string
	ObjectID   string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Hook observers receive activity events.
type Hook interface {
	Notify(ctx context.Context, evt Event)
}

// Hooks provides a convenient fan-out collection.
type Hooks []Hook

// Notify delivers the event to every hook, skipping nil entries.
func (h Hooks) Notify(ctx context.Context, evt Event) {
	if len(h) == 0 {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	for _, hook := range h {
		if hook == nil {
			continue
		}
		hook.Notify(ctx, evt)
	}
}

// Nop is a no-op hook useful for defaults.
type Nop struct{}

func (Nop) Notify(_ context.Context, _ Event) {}

// Func adapts a plain function into a Hook.
type Func func(ctx context.Context, evt Event)

func (f Func) Notify(ctx context.Context, evt Event) {
	if f != nil {
		f(ctx, evt)
	}
}

// LogHook writes every activity event to a logger at info level.
type LogHook struct {
	Logger logger.Logger
}

func (h LogHook) Notify(_ context.Context, evt Event) {
	if h.Logger == nil {
		return
	}
	fields := []logger.Field{
		{Key: "verb", Value: evt.Verb},
		{Key: "occurred_at", Value: evt.OccurredAt.Format(time.RFC3339Nano)},
	}
	for _, f := range []logger.Field{
		{Key: "event", Value: evt.EventName},
		{Key: "method", Value: evt.Method},
		{Key: "provider", Value: evt.Provider},
		{Key: "reward", Value: evt.RewardCode},
		{Key: "object_type", Value: evt.ObjectType},
		{Key: "object_id", Value: evt.ObjectID},
	} {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}
	for k, v := range evt.Metadata {
		fields = append(fields, logger.Field{Key: k, Value: v})
	}
	h.Logger.Info("activity", fields...)
}

// CloneMetadata makes a shallow copy so hooks can mutate without affecting callers.
func CloneMetadata(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
