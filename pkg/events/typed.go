package events

import (
	"context"
	"fmt"
)

// On subscribes a typed handler to the event T. T must be one of the value
// event types declared in this package.
func On[T Event](b *Bus, fn func(ctx context.Context, evt T) error) Subscription {
	if b == nil || fn == nil {
		return Subscription{}
	}
	var zero T
	name := zero.EventName()
	return b.Subscribe(name, func(ctx context.Context, evt Event) error {
		typed, ok := evt.(T)
		if !ok {
			return fmt.Errorf("events: unexpected payload %T for %s", evt, name)
		}
		return fn(ctx, typed)
	})
}

// Observe is On for handlers that cannot fail.
func Observe[T Event](b *Bus, fn func(ctx context.Context, evt T)) Subscription {
	if fn == nil {
		return Subscription{}
	}
	return On(b, func(ctx context.Context, evt T) error {
		fn(ctx, evt)
		return nil
	})
}
