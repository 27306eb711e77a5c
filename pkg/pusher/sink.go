package pusher

import (
	"context"
	"fmt"

	"github.com/goliatone/go-profile-events/pkg/events"
	"github.com/goliatone/go-profile-events/pkg/wire"
)

// Sink receives the events forwarded to a secondary native layer.
type Sink interface {
	LoginStarted(ctx context.Context, evt events.LoginStarted) error
	LoginFinished(ctx context.Context, evt events.LoginFinished) error
	LoginCancelled(ctx context.Context, evt events.LoginCancelled) error
	LoginFailed(ctx context.Context, evt events.LoginFailed) error
	LogoutStarted(ctx context.Context, evt events.LogoutStarted) error
	LogoutFinished(ctx context.Context, evt events.LogoutFinished) error
	LogoutFailed(ctx context.Context, evt events.LogoutFailed) error
	SocialActionStarted(ctx context.Context, evt events.SocialActionStarted) error
	SocialActionFinished(ctx context.Context, evt events.SocialActionFinished) error
	SocialActionCancelled(ctx context.Context, evt events.SocialActionCancelled) error
	SocialActionFailed(ctx context.Context, evt events.SocialActionFailed) error
}

// NopSink ignores every event. Embed it to implement a subset of Sink.
type NopSink struct{}

var _ Sink = NopSink{}

func (NopSink) LoginStarted(context.Context, events.LoginStarted) error                 { return nil }
func (NopSink) LoginFinished(context.Context, events.LoginFinished) error               { return nil }
func (NopSink) LoginCancelled(context.Context, events.LoginCancelled) error             { return nil }
func (NopSink) LoginFailed(context.Context, events.LoginFailed) error                   { return nil }
func (NopSink) LogoutStarted(context.Context, events.LogoutStarted) error               { return nil }
func (NopSink) LogoutFinished(context.Context, events.LogoutFinished) error             { return nil }
func (NopSink) LogoutFailed(context.Context, events.LogoutFailed) error                 { return nil }
func (NopSink) SocialActionStarted(context.Context, events.SocialActionStarted) error   { return nil }
func (NopSink) SocialActionFinished(context.Context, events.SocialActionFinished) error { return nil }
func (NopSink) SocialActionCancelled(context.Context, events.SocialActionCancelled) error {
	return nil
}
func (NopSink) SocialActionFailed(context.Context, events.SocialActionFailed) error { return nil }

// Push is an event rendered for a native push call.
type Push struct {
	Event   events.Name `json:"event"`
	Method  string      `json:"method"`
	Message string      `json:"message"`
}

// Forwarder delivers rendered pushes to a transport.
type Forwarder interface {
	Forward(ctx context.Context, push Push) error
}

// ForwarderFunc adapts a function to Forwarder.
type ForwarderFunc func(ctx context.Context, push Push) error

func (f ForwarderFunc) Forward(ctx context.Context, push Push) error {
	if f == nil {
		return nil
	}
	return f(ctx, push)
}

// Render encodes evt in the native format with its push method name.
func Render(evt events.Event) (Push, error) {
	env, err := wire.Encode(evt)
	if err != nil {
		return Push{}, fmt.Errorf("pusher: %w", err)
	}
	return Push{Event: env.Event, Method: wire.PushMethod(env.Method), Message: env.Message}, nil
}

// ForwardingSink renders every event and hands it to a Forwarder.
type ForwardingSink struct {
	forwarder Forwarder
}

var _ Sink = (*ForwardingSink)(nil)

// NewForwardingSink wraps f as a Sink.
func NewForwardingSink(f Forwarder) *ForwardingSink {
	return &ForwardingSink{forwarder: f}
}

func (s *ForwardingSink) forward(ctx context.Context, evt events.Event) error {
	if s == nil || s.forwarder == nil {
		return nil
	}
	push, err := Render(evt)
	if err != nil {
		return err
	}
	return s.forwarder.Forward(ctx, push)
}

func (s *ForwardingSink) LoginStarted(ctx context.Context, evt events.LoginStarted) error {
	return s.forward(ctx, evt)
}

func (s *ForwardingSink) LoginFinished(ctx context.Context, evt events.LoginFinished) error {
	return s.forward(ctx, evt)
}

func (s *ForwardingSink) LoginCancelled(ctx context.Context, evt events.LoginCancelled) error {
	return s.forward(ctx, evt)
}

func (s *ForwardingSink) LoginFailed(ctx context.Context, evt events.LoginFailed) error {
	return s.forward(ctx, evt)
}

func (s *ForwardingSink) LogoutStarted(ctx context.Context, evt events.LogoutStarted) error {
	return s.forward(ctx, evt)
}

func (s *ForwardingSink) LogoutFinished(ctx context.Context, evt events.LogoutFinished) error {
	return s.forward(ctx, evt)
}

func (s *ForwardingSink) LogoutFailed(ctx context.Context, evt events.LogoutFailed) error {
	return s.forward(ctx, evt)
}

func (s *ForwardingSink) SocialActionStarted(ctx context.Context, evt events.SocialActionStarted) error {
	return s.forward(ctx, evt)
}

func (s *ForwardingSink) SocialActionFinished(ctx context.Context, evt events.SocialActionFinished) error {
	return s.forward(ctx, evt)
}

func (s *ForwardingSink) SocialActionCancelled(ctx context.Context, evt events.SocialActionCancelled) error {
	return s.forward(ctx, evt)
}

func (s *ForwardingSink) SocialActionFailed(ctx context.Context, evt events.SocialActionFailed) error {
	return s.forward(ctx, evt)
}
