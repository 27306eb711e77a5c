// Package broadcast publishes pushes to a broadcaster.Broadcaster under the
// topic "profile.<event>".
package broadcast

import (
	"context"

	"github.com/goliatone/go-profile-events/pkg/interfaces/broadcaster"
	"github.com/goliatone/go-profile-events/pkg/pusher"
)

// TopicPrefix is prepended to the event name.
const TopicPrefix = "profile."

type Forwarder struct {
	target broadcaster.Broadcaster
}

// New constructs a forwarder. A nil target discards pushes.
func New(target broadcaster.Broadcaster) *Forwarder {
	if target == nil {
		target = &broadcaster.Nop{}
	}
	return &Forwarder{target: target}
}

// Sink wraps the forwarder as a pusher.Sink.
func (f *Forwarder) Sink() pusher.Sink {
	return pusher.NewForwardingSink(f)
}

func (f *Forwarder) Forward(ctx context.Context, push pusher.Push) error {
	return f.target.Broadcast(ctx, broadcaster.Event{
		Topic:   TopicPrefix + string(push.Event),
		Payload: push,
	})
}
