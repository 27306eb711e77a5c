package broadcaster

import (
	"context"
	"errors"
	"testing"
)

func TestFanoutBroadcast(t *testing.T) {
	var received []Event
	fn := Func(func(ctx context.Context, evt Event) error {
		received = append(received, evt)
		return nil
	})
	f := NewFanout(fn, nil, fn)
	if f.Len() != 2 {
		t.Fatalf("expected nil targets to be dropped, got %d", f.Len())
	}
	if err := f.Broadcast(context.Background(), Event{Topic: "profile.login.started", Payload: "hello"}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if len(received) != 2 {
		t.Fatalf("expected event fanout, got %d", len(received))
	}
}

func TestFanoutJoinsErrors(t *testing.T) {
	calls := 0
	errFirst := errors.New("first down")
	errThird := errors.New("third down")
	fn := Func(func(ctx context.Context, evt Event) error {
		calls++
		switch calls {
		case 1:
			return errFirst
		case 3:
			return errThird
		}
		return nil
	})
	f := NewFanout(fn, fn, fn)
	err := f.Broadcast(context.Background(), Event{})
	if !errors.Is(err, errFirst) || !errors.Is(err, errThird) {
		t.Fatalf("expected both errors joined, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected every target invoked, got %d", calls)
	}
}
