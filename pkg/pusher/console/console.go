// Package console forwards pushes to a logger for debugging.
package console

import (
	"context"
	"fmt"
	"io"

	"github.com/goliatone/go-profile-events/pkg/interfaces/logger"
	"github.com/goliatone/go-profile-events/pkg/pusher"
	"github.com/goliatone/go-profile-events/pkg/redact"
	"github.com/goliatone/go-profile-events/pkg/wire"
)

// Forwarder writes every push to the configured logger, and optionally to a
// plain writer in the native call format.
type Forwarder struct {
	logger logger.Logger
	out    io.Writer
}

type Option func(*Forwarder)

// WithWriter also prints each push as `method(message)` to w.
func WithWriter(w io.Writer) Option {
	return func(f *Forwarder) {
		f.out = w
	}
}

// New constructs a console forwarder.
func New(l logger.Logger, opts ...Option) *Forwarder {
	if l == nil {
		l = &logger.Nop{}
	}
	f := &Forwarder{logger: l}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Sink wraps the forwarder as a pusher.Sink.
func (f *Forwarder) Sink() pusher.Sink {
	return pusher.NewForwardingSink(f)
}

func (f *Forwarder) Forward(_ context.Context, push pusher.Push) error {
	message := redact.Document(push.Message, wire.FieldUserProfile)
	f.logger.Info("console push",
		logger.Field{Key: "event", Value: push.Event},
		logger.Field{Key: "method", Value: push.Method},
		logger.Field{Key: "message", Value: message},
	)
	if f.out != nil {
		if _, err := fmt.Fprintf(f.out, "%s(%s)\n", push.Method, message); err != nil {
			return fmt.Errorf("console: write: %w", err)
		}
	}
	return nil
}
