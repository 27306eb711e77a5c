package broadcaster

import (
	"context"
	"errors"
	"fmt"
)

// Func adapts a function to the Broadcaster interface.
type Func func(ctx context.Context, event Event) error

// Broadcast satisfies the Broadcaster interface.
func (f Func) Broadcast(ctx context.Context, event Event) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

// Fanout forwards events to multiple downstream broadcasters.
type Fanout struct {
	targets []Broadcaster
}

// NewFanout assembles a broadcaster that multicasts to the provided targets.
func NewFanout(targets ...Broadcaster) *Fanout {
	filtered := make([]Broadcaster, 0, len(targets))
	for _, target := range targets {
		if target != nil {
			filtered = append(filtered, target)
		}
	}
	return &Fanout{targets: filtered}
}

var _ Broadcaster = (*Fanout)(nil)

// Broadcast delivers the event to every target and joins their errors.
// A failing target never stops delivery to the next one.
func (f *Fanout) Broadcast(ctx context.Context, event Event) error {
	var errs []error
	for i, target := range f.targets {
		if err := target.Broadcast(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("broadcaster %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Len reports how many targets receive each event.
func (f *Fanout) Len() int { return len(f.targets) }
