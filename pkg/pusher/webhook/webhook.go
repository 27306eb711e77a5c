// Package webhook posts pushes to an HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-profile-events/pkg/interfaces/logger"
	"github.com/goliatone/go-profile-events/pkg/pusher"
	"github.com/goliatone/go-profile-events/pkg/retry"
)

// Config configures the webhook forwarder.
type Config struct {
	URL           string
	Method        string
	Headers       map[string]string
	Timeout       time.Duration
	MaxAttempts   int
	BasicAuthUser string
	BasicAuthPass string
}

type Forwarder struct {
	cfg     Config
	client  *http.Client
	backoff retry.Backoff
	logger  logger.Logger
}

type Option func(*Forwarder)

// WithConfig sets the forwarder configuration.
func WithConfig(cfg Config) Option {
	return func(f *Forwarder) {
		f.cfg = cfg
	}
}

// WithClient allows injecting a custom HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Forwarder) {
		if c != nil {
			f.client = c
		}
	}
}

// WithBackoff overrides the delay between attempts.
func WithBackoff(b retry.Backoff) Option {
	return func(f *Forwarder) {
		if b != nil {
			f.backoff = b
		}
	}
}

// New constructs the webhook forwarder.
func New(l logger.Logger, opts ...Option) *Forwarder {
	if l == nil {
		l = &logger.Nop{}
	}
	f := &Forwarder{
		cfg: Config{
			Method:      http.MethodPost,
			Timeout:     10 * time.Second,
			MaxAttempts: 1,
		},
		backoff: retry.DefaultBackoff(),
		logger:  l,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.cfg.Method == "" {
		f.cfg.Method = http.MethodPost
	}
	if f.cfg.MaxAttempts < 1 {
		f.cfg.MaxAttempts = 1
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: f.cfg.Timeout}
	}
	return f
}

// Sink wraps the forwarder as a pusher.Sink.
func (f *Forwarder) Sink() pusher.Sink {
	return pusher.NewForwardingSink(f)
}

// Forward posts push as JSON, retrying network errors and 5xx responses up
// to MaxAttempts.
func (f *Forwarder) Forward(ctx context.Context, push pusher.Push) error {
	if strings.TrimSpace(f.cfg.URL) == "" {
		return fmt.Errorf("webhook: url is required")
	}
	body, err := json.Marshal(push)
	if err != nil {
		return fmt.Errorf("webhook: encode push: %w", err)
	}

	return retry.Do(ctx, f.cfg.MaxAttempts, f.backoff, func(ctx context.Context, _ int) error {
		retryable, err := f.send(ctx, body)
		if err != nil && !retryable {
			return retry.Permanent(err)
		}
		return err
	}, func(attempt int, err error) {
		f.logger.Warn("webhook: delivery failed",
			logger.Field{Key: "event", Value: push.Event},
			logger.Field{Key: "attempt", Value: attempt},
			logger.Err(err),
		)
	})
}

func (f *Forwarder) send(ctx context.Context, body []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(f.cfg.Method), f.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("webhook: build request: %w", err)
	}
	for k, v := range f.cfg.Headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if f.cfg.BasicAuthUser != "" {
		req.SetBasicAuth(f.cfg.BasicAuthUser, f.cfg.BasicAuthPass)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return true, fmt.Errorf("webhook: request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return resp.StatusCode >= 500, fmt.Errorf("webhook: unexpected status %d", resp.StatusCode)
	}
	return false, nil
}
