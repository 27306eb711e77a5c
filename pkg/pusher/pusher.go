// Package pusher forwards login, logout and social action events to a
// secondary native layer.
package pusher

import (
	"context"

	"github.com/goliatone/go-profile-events/pkg/events"
	"github.com/goliatone/go-profile-events/pkg/interfaces/logger"
	"github.com/goliatone/go-profile-events/pkg/metrics"
)

// Pusher subscribes a Sink to the forwarded events.
type Pusher struct {
	sink    Sink
	logger  logger.Logger
	metrics metrics.Recorder
	subs    []events.Subscription
}

type Option func(*Pusher)

// WithMetrics records sink failures.
func WithMetrics(rec metrics.Recorder) Option {
	return func(p *Pusher) {
		if rec != nil {
			p.metrics = rec
		}
	}
}

// New subscribes sink to bus. A nil sink forwards nothing.
func New(bus *events.Bus, sink Sink, lgr logger.Logger, opts ...Option) *Pusher {
	if sink == nil {
		sink = NopSink{}
	}
	if lgr == nil {
		lgr = &logger.Nop{}
	}
	p := &Pusher{
		sink:    sink,
		logger:  lgr,
		metrics: metrics.Nop{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if bus == nil {
		return p
	}
	p.subs = []events.Subscription{
		subscribe(p, bus, sink.LoginStarted),
		subscribe(p, bus, sink.LoginFinished),
		subscribe(p, bus, sink.LoginCancelled),
		subscribe(p, bus, sink.LoginFailed),
		subscribe(p, bus, sink.LogoutStarted),
		subscribe(p, bus, sink.LogoutFinished),
		subscribe(p, bus, sink.LogoutFailed),
		subscribe(p, bus, sink.SocialActionStarted),
		subscribe(p, bus, sink.SocialActionFinished),
		subscribe(p, bus, sink.SocialActionCancelled),
		subscribe(p, bus, sink.SocialActionFailed),
	}
	return p
}

// subscribe wires one sink method. Sink errors are logged and never reach the bus.
func subscribe[T events.Event](p *Pusher, bus *events.Bus, fn func(context.Context, T) error) events.Subscription {
	return events.Observe(bus, func(ctx context.Context, evt T) {
		if err := fn(ctx, evt); err != nil {
			p.metrics.SinkFailed(string(evt.EventName()))
			p.logger.Warn("pusher: sink failed",
				logger.Field{Key: "event", Value: evt.EventName()},
				logger.Err(err),
			)
		}
	})
}

// Close detaches the pusher from the bus.
func (p *Pusher) Close() {
	if p == nil {
		return
	}
	for _, sub := range p.subs {
		sub.Unsubscribe()
	}
	p.subs = nil
}

// Sink returns the sink events are forwarded to.
func (p *Pusher) Sink() Sink { return p.sink }
