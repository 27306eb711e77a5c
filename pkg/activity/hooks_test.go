package activity

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-profile-events/pkg/interfaces/logger"
)

func TestHooksFanOutSkipsNilAndStampsTime(t *testing.T) {
	var got []Event
	hooks := Hooks{nil, Func(func(_ context.Context, evt Event) { got = append(got, evt) }), Nop{}}

	hooks.Notify(context.Background(), Event{Verb: VerbRewardGranted, RewardCode: "badge"})

	if len(got) != 1 {
		t.Fatalf("expected one delivery, got %d", len(got))
	}
	if got[0].OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at to be stamped")
	}
}

func TestLogHookWritesVerbAndFields(t *testing.T) {
	var buf bytes.Buffer
	hook := LogHook{Logger: logger.NewBasic(&buf, logger.LevelDebug)}

	hook.Notify(context.Background(), Event{Verb: VerbNotificationDispatched, EventName: "login.started", Provider: "facebook"})

	out := buf.String()
	for _, want := range []string{"verb=notification.dispatched", "event=login.started", "provider=facebook"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	if strings.Contains(out, "reward=") {
		t.Fatalf("empty fields should be omitted: %q", out)
	}
}
