package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExponentialBackoffDoublesAndCaps(t *testing.T) {
	b := ExponentialBackoff{Base: 10 * time.Millisecond, Max: 50 * time.Millisecond}
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond, 50 * time.Millisecond}
	for i, expected := range want {
		if got := b.Next(i + 1); got != expected {
			t.Fatalf("attempt %d: expected %s, got %s", i+1, expected, got)
		}
	}
	if got := b.Next(0); got != 10*time.Millisecond {
		t.Fatalf("attempt 0 should clamp to the first delay, got %s", got)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	failures := 0
	err := Do(context.Background(), 3, Constant(0), func(_ context.Context, attempt int) error {
		calls++
		if attempt < 3 {
			return errors.New("transient")
		}
		return nil
	}, func(int, error) { failures++ })
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 || failures != 2 {
		t.Fatalf("expected 3 calls and 2 failures, got %d/%d", calls, failures)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	boom := errors.New("bad request")
	calls := 0
	err := Do(context.Background(), 5, Constant(0), func(context.Context, int) error {
		calls++
		return Permanent(boom)
	}, nil)
	if err != boom {
		t.Fatalf("expected the unwrapped permanent error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestDoHonoursContextBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	err := Do(ctx, 3, Constant(time.Hour), func(context.Context, int) error {
		cancel()
		return errors.New("transient")
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
