package relay

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/events"
	"github.com/goliatone/go-profile-events/pkg/interfaces/store"
	"github.com/goliatone/go-profile-events/pkg/rewards"
	"github.com/goliatone/go-profile-events/pkg/storage"
	"github.com/goliatone/go-profile-events/pkg/wire"
)

type fixture struct {
	relay     *Relay
	bus       *events.Bus
	rewards   *rewards.Service
	providers storage.Providers
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	providers := storage.NewMemoryProviders()
	svc, err := rewards.New(rewards.Dependencies{
		Rewards:     providers.Rewards,
		Grants:      providers.Grants,
		Transaction: providers.Transaction,
	})
	if err != nil {
		t.Fatalf("rewards: %v", err)
	}
	bus := events.NewBus(events.Options{})
	r, err := New(Dependencies{
		Bus:     bus,
		Rewards: svc,
		Journal: providers.Journal,
	})
	if err != nil {
		t.Fatalf("relay: %v", err)
	}
	return fixture{relay: r, bus: bus, rewards: svc, providers: providers}
}

type countingBridge struct {
	calls int
	err   error
}

func (b *countingBridge) Initialize(context.Context) error {
	b.calls++
	return b.err
}

func TestNewRequiresBus(t *testing.T) {
	if _, err := New(Dependencies{}); err == nil {
		t.Fatalf("expected error without bus")
	}
}

func TestInitRunsBridgeOnce(t *testing.T) {
	bridge := &countingBridge{err: errors.New("no native layer")}
	r, err := New(Dependencies{Bus: events.NewBus(events.Options{}), Bridge: bridge})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	first := r.Init(ctx)
	second := r.Init(ctx)
	if bridge.calls != 1 {
		t.Fatalf("expected a single bridge call, got %d", bridge.calls)
	}
	if first == nil || first != second {
		t.Fatalf("expected the first error to be returned twice, got %v / %v", first, second)
	}
}

func TestLoginFinishedGrantsRewardBeforeEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.rewards.Register(ctx, rewards.RewardInput{Code: "first-login"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	var got []events.LoginFinished
	var grantsAtDispatch int
	events.Observe(f.bus, func(ctx context.Context, evt events.LoginFinished) {
		grants, _ := f.rewards.Grants(ctx, "first-login")
		grantsAtDispatch = len(grants)
		got = append(got, evt)
	})

	message := `{"provider":5,"userProfile":"{\"provider\":\"twitter\",\"profileId\":\"t-1\",\"email\":\"t@example.com\"}","payload":"{\"payload\":\"corr-7\",\"rewardId\":\"first-login\"}"}`
	if err := f.relay.OnLoginFinished(ctx, message); err != nil {
		t.Fatalf("login finished: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected one event, got %d", len(got))
	}
	if grantsAtDispatch != 1 {
		t.Fatalf("expected the reward to be granted before the event, saw %d grants", grantsAtDispatch)
	}
	evt := got[0]
	if evt.Payload != "corr-7" || evt.Profile.ProfileID != "t-1" || evt.Profile.Provider != domain.ProviderTwitter {
		t.Fatalf("unexpected event %+v", evt)
	}
}

func TestLoginFinishedWithoutRewardStillRaises(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	count := 0
	events.Observe(f.bus, func(context.Context, events.LoginFinished) { count++ })

	messages := []string{
		`{"userProfile":{"provider":"google","profileId":"g-1"},"payload":"{\"payload\":\"p\"}"}`,
		`{"userProfile":{"provider":"google","profileId":"g-1"},"payload":"{\"payload\":\"p\",\"rewardId\":\"unknown\"}"}`,
	}
	for _, message := range messages {
		if err := f.relay.OnLoginFinished(ctx, message); err != nil {
			t.Fatalf("login finished: %v", err)
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 events, got %d", count)
	}
	grants, err := f.providers.Grants.List(ctx, store.ListOptions{})
	if err != nil {
		t.Fatalf("list grants: %v", err)
	}
	if grants.Total != 0 {
		t.Fatalf("expected no grants, got %d", grants.Total)
	}
}

func TestSocialActionFinishedGrantsReward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.rewards.Register(ctx, rewards.RewardInput{Code: "share", Repeatable: true}); err != nil {
		t.Fatalf("register: %v", err)
	}

	var got events.SocialActionFinished
	events.Observe(f.bus, func(_ context.Context, evt events.SocialActionFinished) { got = evt })

	message := `{"provider":0,"socialActionType":2,"payload":"{\"payload\":\"img\",\"rewardId\":\"share\"}"}`
	if err := f.relay.OnSocialActionFinished(ctx, message); err != nil {
		t.Fatalf("social action finished: %v", err)
	}
	if got.Action != domain.ActionUploadImage || got.Provider != domain.ProviderFacebook || got.Payload != "img" {
		t.Fatalf("unexpected event %+v", got)
	}
	grants, _ := f.rewards.Grants(ctx, "share")
	if len(grants) != 1 || grants[0].EventName != string(events.NameSocialActionFinished) {
		t.Fatalf("unexpected grants %+v", grants)
	}
}

func TestFeedFinishedListenersInOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var order []int
	var feeds [][]string
	for i := 0; i < 4; i++ {
		i := i
		events.Observe(f.bus, func(_ context.Context, evt events.FeedFinished) {
			if evt.Provider != domain.ProviderFacebook {
				t.Errorf("listener %d: unexpected provider %s", i, evt.Provider)
			}
			order = append(order, i)
			feeds = append(feeds, evt.Feed)
		})
	}

	message := `{"provider":0,"feeds":"[\"a\",\"b\",\"c\"]"}`
	if err := f.relay.OnGetFeedFinished(ctx, message); err != nil {
		t.Fatalf("feed finished: %v", err)
	}
	if !reflect.DeepEqual(order, []int{0, 1, 2, 3}) {
		t.Fatalf("unexpected order %v", order)
	}
	for _, feed := range feeds {
		if !reflect.DeepEqual(feed, []string{"a", "b", "c"}) {
			t.Fatalf("unexpected feed %v", feed)
		}
	}
}

func TestUserProfileUpdatedWithoutProfileIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	raised := false
	events.Observe(f.bus, func(context.Context, events.UserProfileUpdated) { raised = true })

	err := f.relay.OnUserProfileUpdated(ctx, `{"provider":0}`)
	if !errors.Is(err, wire.ErrMalformedMessage) {
		t.Fatalf("expected ErrMalformedMessage, got %v", err)
	}
	if raised {
		t.Fatalf("no event should be raised")
	}

	rejected, err := f.providers.Journal.ListByStatus(ctx, domain.JournalStatusRejected, store.ListOptions{})
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	if rejected.Total != 1 || rejected.Items[0].Method != wire.MethodUserProfileUpdated {
		t.Fatalf("expected one rejected journal entry, got %+v", rejected)
	}
}

func TestLogoutStartedIgnoresPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var got []events.LogoutStarted
	events.Observe(f.bus, func(_ context.Context, evt events.LogoutStarted) { got = append(got, evt) })

	if err := f.relay.OnLogoutStarted(ctx, `{"provider":0,"payload":"{\"payload\":\"corr-1\"}"}`); err != nil {
		t.Fatalf("logout started: %v", err)
	}
	if len(got) != 1 || got[0] != (events.LogoutStarted{Provider: domain.ProviderFacebook}) {
		t.Fatalf("unexpected events %+v", got)
	}
}

func TestUnknownProviderCodeRaisesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	raised := 0
	f.bus.SubscribeAll(func(context.Context, events.Event) error {
		raised++
		return nil
	})

	err := f.relay.OnLoginStarted(ctx, `{"provider":42,"payload":"{\"payload\":\"\"}"}`)
	if !errors.Is(err, domain.ErrUnknownProviderCode) {
		t.Fatalf("expected ErrUnknownProviderCode, got %v", err)
	}
	err = f.relay.OnSocialActionStarted(ctx, `{"provider":0,"socialActionType":9,"payload":"{}"}`)
	if !errors.Is(err, domain.ErrUnknownActionCode) {
		t.Fatalf("expected ErrUnknownActionCode, got %v", err)
	}
	if raised != 0 {
		t.Fatalf("expected no events, got %d", raised)
	}
}

func TestHandleRoutesEveryMethod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var seen []events.Name
	f.bus.SubscribeAll(func(_ context.Context, evt events.Event) error {
		seen = append(seen, evt.EventName())
		return nil
	})

	for _, name := range events.Names() {
		evt := sampleEvent(name)
		env, err := wire.Encode(evt)
		if err != nil {
			t.Fatalf("%s: encode: %v", name, err)
		}
		if err := f.relay.Handle(ctx, env.Method, env.Message); err != nil {
			t.Fatalf("%s: handle: %v", name, err)
		}
	}
	if !reflect.DeepEqual(seen, events.Names()) {
		t.Fatalf("unexpected events %v", seen)
	}
	if len(f.relay.Methods()) != len(events.Names()) {
		t.Fatalf("expected a method per event, got %d", len(f.relay.Methods()))
	}

	if err := f.relay.Handle(ctx, "onSomethingElse", "{}"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
}

func TestListenerFailureIsJournalledAndReturned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	boom := errors.New("boom")
	f.bus.Subscribe(events.NameLogoutFinished, func(context.Context, events.Event) error { return boom })
	called := false
	f.bus.Subscribe(events.NameLogoutFinished, func(context.Context, events.Event) error {
		called = true
		return nil
	})

	err := f.relay.OnLogoutFinished(ctx, `{"provider":3}`)
	if !errors.Is(err, boom) {
		t.Fatalf("expected listener error, got %v", err)
	}
	if !called {
		t.Fatalf("remaining listeners should still run")
	}

	entries, _ := f.providers.Journal.ListByStatus(ctx, domain.JournalStatusDispatched, store.ListOptions{})
	if entries.Total != 1 || entries.Items[0].Provider != "linkedin" || entries.Items[0].Error == "" {
		t.Fatalf("unexpected journal entries %+v", entries)
	}
}

func TestJournalRedactsProfiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	message := `{"userProfile":"{\"provider\":\"facebook\",\"profileId\":\"secret-id\"}"}`
	if err := f.relay.OnUserProfileUpdated(ctx, message); err != nil {
		t.Fatalf("profile updated: %v", err)
	}
	entries, _ := f.providers.Journal.List(ctx, store.ListOptions{})
	if entries.Total != 1 {
		t.Fatalf("expected one journal entry, got %d", entries.Total)
	}
	if got := entries.Items[0].Message; got != `{"userProfile":"[redacted]"}` {
		t.Fatalf("expected profile to be redacted, got %s", got)
	}
}

func sampleEvent(name events.Name) events.Event {
	profile := domain.UserProfile{Provider: domain.ProviderGoogle, ProfileID: "g-1"}
	switch name {
	case events.NameProfileInitialized:
		return events.ProfileInitialized{}
	case events.NameUserRatingRequested:
		return events.UserRatingRequested{}
	case events.NameUserProfileUpdated:
		return events.UserProfileUpdated{Profile: profile}
	case events.NameLoginStarted:
		return events.LoginStarted{Provider: domain.ProviderGoogle, Payload: "p"}
	case events.NameLoginFinished:
		return events.LoginFinished{Profile: profile, Payload: "p"}
	case events.NameLoginCancelled:
		return events.LoginCancelled{Provider: domain.ProviderGoogle, Payload: "p"}
	case events.NameLoginFailed:
		return events.LoginFailed{Provider: domain.ProviderGoogle, Message: "m", Payload: "p"}
	case events.NameLogoutStarted:
		return events.LogoutStarted{Provider: domain.ProviderGoogle}
	case events.NameLogoutFinished:
		return events.LogoutFinished{Provider: domain.ProviderGoogle}
	case events.NameLogoutFailed:
		return events.LogoutFailed{Provider: domain.ProviderGoogle, Message: "m"}
	case events.NameSocialActionStarted:
		return events.SocialActionStarted{Provider: domain.ProviderGoogle, Action: domain.ActionUpdateStatus, Payload: "p"}
	case events.NameSocialActionFinished:
		return events.SocialActionFinished{Provider: domain.ProviderGoogle, Action: domain.ActionUpdateStatus, Payload: "p"}
	case events.NameSocialActionCancelled:
		return events.SocialActionCancelled{Provider: domain.ProviderGoogle, Action: domain.ActionUpdateStatus, Payload: "p"}
	case events.NameSocialActionFailed:
		return events.SocialActionFailed{Provider: domain.ProviderGoogle, Action: domain.ActionUpdateStatus, Message: "m", Payload: "p"}
	case events.NameContactsStarted:
		return events.ContactsStarted{Provider: domain.ProviderGoogle, Payload: "p"}
	case events.NameContactsFinished:
		return events.ContactsFinished{Provider: domain.ProviderGoogle, Contacts: []domain.UserProfile{profile}, Payload: "p"}
	case events.NameContactsFailed:
		return events.ContactsFailed{Provider: domain.ProviderGoogle, Message: "m", Payload: "p"}
	case events.NameFeedStarted:
		return events.FeedStarted{Provider: domain.ProviderGoogle}
	case events.NameFeedFinished:
		return events.FeedFinished{Provider: domain.ProviderGoogle, Feed: []string{"a"}}
	case events.NameFeedFailed:
		return events.FeedFailed{Provider: domain.ProviderGoogle, Message: "m"}
	case events.NameAddAppRequestStarted:
		return events.AddAppRequestStarted{Provider: domain.ProviderGoogle}
	case events.NameAddAppRequestFinished:
		return events.AddAppRequestFinished{Provider: domain.ProviderGoogle, Message: "m"}
	case events.NameAddAppRequestFailed:
		return events.AddAppRequestFailed{Provider: domain.ProviderGoogle, Message: "m"}
	}
	return nil
}

func TestHandleTrimsMethodName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	raised := 0
	events.Observe(f.bus, func(context.Context, events.LogoutStarted) { raised++ })

	if err := f.relay.Handle(ctx, "  onLogoutStarted\n", `{"provider":1}`); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if raised != 1 {
		t.Fatalf("expected one event, got %d", raised)
	}
	entries, _ := f.providers.Journal.ListByStatus(ctx, domain.JournalStatusDispatched, store.ListOptions{})
	if entries.Total != 1 || entries.Items[0].Method != wire.MethodLogoutStarted {
		t.Fatalf("unexpected journal entries %+v", entries)
	}
}

func TestReentrantDispatchJournalsOnlyTheRefusedLevel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	deliveries := 0
	events.On(f.bus, func(ctx context.Context, evt events.LogoutStarted) error {
		deliveries++
		return f.relay.OnLogoutStarted(ctx, `{"provider":0}`)
	})

	err := f.relay.OnLogoutStarted(ctx, `{"provider":0}`)
	if !errors.Is(err, events.ErrReentrancyLimit) {
		t.Fatalf("expected the innermost refusal to surface, got %v", err)
	}
	if deliveries != events.DefaultMaxDepth {
		t.Fatalf("expected %d deliveries, got %d", events.DefaultMaxDepth, deliveries)
	}

	rejected, _ := f.providers.Journal.ListByStatus(ctx, domain.JournalStatusRejected, store.ListOptions{})
	if rejected.Total != 1 {
		t.Fatalf("expected a single rejected entry, got %d", rejected.Total)
	}
	dispatched, _ := f.providers.Journal.ListByStatus(ctx, domain.JournalStatusDispatched, store.ListOptions{})
	if dispatched.Total != events.DefaultMaxDepth {
		t.Fatalf("expected %d dispatched entries, got %d", events.DefaultMaxDepth, dispatched.Total)
	}
}
