package di

import (
	"context"
	"testing"

	"github.com/goliatone/go-profile-events/pkg/config"
	"github.com/goliatone/go-profile-events/pkg/interfaces/broadcaster"
	"github.com/goliatone/go-profile-events/pkg/interfaces/store"
	"github.com/goliatone/go-profile-events/pkg/pusher"
	"github.com/goliatone/go-profile-events/pkg/wire"
)

func TestContainerDefaults(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	if c.Relay == nil || c.Bus == nil || c.Rewards == nil || c.Commands == nil || c.Pusher == nil {
		t.Fatalf("expected services to be wired: %+v", c)
	}
	if c.Gatherer == nil {
		t.Fatalf("expected a private prometheus registry when metrics are enabled")
	}
	if _, ok := c.Pusher.Sink().(pusher.NopSink); !ok {
		t.Fatalf("expected nop sink by default, got %T", c.Pusher.Sink())
	}
}

func TestContainerJournalAndBroadcast(t *testing.T) {
	cfg := config.Defaults()
	cfg.Journal.Enabled = true
	cfg.Metrics.Enabled = false
	cfg.Pusher.Target = config.TargetBroadcast

	var topics []string
	c, err := New(Options{
		Config: cfg,
		Broadcaster: broadcaster.Func(func(_ context.Context, evt broadcaster.Event) error {
			topics = append(topics, evt.Topic)
			return nil
		}),
	})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	if c.Gatherer != nil {
		t.Fatalf("expected no registry with metrics disabled")
	}

	ctx := context.Background()
	if err := c.Relay.Handle(ctx, wire.MethodLogoutStarted, `{"provider":1}`); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(topics) != 1 || topics[0] != "profile.logout.started" {
		t.Fatalf("unexpected broadcast topics %v", topics)
	}
	entries, err := c.Storage.Journal.ListByStatus(ctx, "", store.ListOptions{})
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	if entries.Total != 1 {
		t.Fatalf("expected one journal entry, got %d", entries.Total)
	}
}

func TestContainerBroadcastRequiresBroadcaster(t *testing.T) {
	cfg := config.Defaults()
	cfg.Pusher.Target = config.TargetBroadcast
	if _, err := New(Options{Config: cfg}); err == nil {
		t.Fatalf("expected error without broadcaster")
	}
}
