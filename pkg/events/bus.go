package events

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-profile-events/pkg/interfaces/logger"
	"github.com/google/uuid"
)

// All subscribes a listener to every event on the bus.
const All Name = "*"

// Listener handles a published event.
type Listener func(ctx context.Context, evt Event) error

// Policy decides what happens after a listener fails.
type Policy string

const (
	// PolicyIsolate logs the failure and keeps invoking the remaining listeners.
	PolicyIsolate Policy = "isolate"
	// PolicyAbort stops the dispatch at the first failing listener.
	PolicyAbort Policy = "abort"
)

// DefaultMaxDepth bounds nested publishes triggered from listeners when
// Options.MaxDepth is zero. A negative MaxDepth disables the guard.
const DefaultMaxDepth = 8

var (
	ErrNilEvent        = errors.New("events: event is required")
	ErrReentrancyLimit = errors.New("events: reentrancy limit reached")
	ErrListenerPanic   = errors.New("events: listener panicked")
)

// ListenerError wraps a failure returned (or raised) by a single listener.
type ListenerError struct {
	Event        Name
	Subscription uuid.UUID
	Err          error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("events: listener %s for %s: %v", e.Subscription, e.Event, e.Err)
}

func (e *ListenerError) Unwrap() error { return e.Err }

// Options tune bus behavior.
type Options struct {
	Policy   Policy
	MaxDepth int
	Logger   logger.Logger
}

// Bus keeps an ordered listener list per event name and invokes listeners
// synchronously on Publish. It is safe for concurrent use.
type Bus struct {
	mu        sync.RWMutex
	listeners map[Name][]*entry
	seq       uint64

	policy   Policy
	maxDepth int
	logger   logger.Logger
}

type entry struct {
	id      uuid.UUID
	seq     uint64
	fn      Listener
	removed atomic.Bool
}

// NewBus constructs an empty bus.
func NewBus(opts Options) *Bus {
	if opts.Policy == "" {
		opts.Policy = PolicyIsolate
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = &logger.Nop{}
	}
	return &Bus{
		listeners: make(map[Name][]*entry),
		policy:    opts.Policy,
		maxDepth:  opts.MaxDepth,
		logger:    opts.Logger,
	}
}

// Subscription identifies a registered listener.
type Subscription struct {
	bus  *Bus
	name Name
	id   uuid.UUID
}

// ID returns the subscription identifier (zero for a nil listener).
func (s Subscription) ID() uuid.UUID { return s.id }

// Event returns the event name the subscription listens to.
func (s Subscription) Event() Name { return s.name }

// Unsubscribe detaches the listener. It reports whether anything was removed
// and is safe to call more than once, including from inside a listener.
func (s Subscription) Unsubscribe() bool {
	if s.bus == nil {
		return false
	}
	return s.bus.unsubscribe(s.name, s.id)
}

// Subscribe appends fn to the listeners of name.
func (b *Bus) Subscribe(name Name, fn Listener) Subscription {
	if fn == nil || name == "" {
		return Subscription{}
	}
	e := &entry{id: uuid.New(), fn: fn}

	b.mu.Lock()
	b.seq++
	e.seq = b.seq
	b.listeners[name] = append(b.listeners[name], e)
	b.mu.Unlock()

	return Subscription{bus: b, name: name, id: e.id}
}

// SubscribeAll registers fn for every event.
func (b *Bus) SubscribeAll(fn Listener) Subscription {
	return b.Subscribe(All, fn)
}

func (b *Bus) unsubscribe(name Name, id uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.listeners[name]
	for i, e := range current {
		if e.id != id {
			continue
		}
		e.removed.Store(true)
		next := make([]*entry, 0, len(current)-1)
		next = append(next, current[:i]...)
		next = append(next, current[i+1:]...)
		if len(next) == 0 {
			delete(b.listeners, name)
		} else {
			b.listeners[name] = next
		}
		return true
	}
	return false
}

// Count returns the listeners registered for name, excluding All listeners.
func (b *Bus) Count(name Name) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[name])
}

// Publish invokes the listeners of evt in subscription order. Listeners
// subscribed while the dispatch runs are not part of it; listeners removed
// while it runs are skipped. Each listener gets a Detach copy of evt.
// Failures are returned joined as *ListenerError.
func (b *Bus) Publish(ctx context.Context, evt Event) error {
	if evt == nil {
		return ErrNilEvent
	}
	if ctx == nil {
		ctx = context.Background()
	}
	name := evt.EventName()

	depth := depthFrom(ctx)
	if b.maxDepth > 0 && depth >= b.maxDepth {
		b.logger.Warn("events: publish rejected, reentrancy limit reached",
			logger.Field{Key: "event", Value: name},
			logger.Field{Key: "depth", Value: depth},
		)
		return fmt.Errorf("%w: %s at depth %d", ErrReentrancyLimit, name, depth)
	}
	ctx = withDepth(ctx, depth+1)

	var errs []error
	for _, e := range b.snapshot(name) {
		if e.removed.Load() {
			continue
		}
		err := invoke(ctx, e.fn, Detach(evt))
		if err == nil {
			continue
		}
		lerr := &ListenerError{Event: name, Subscription: e.id, Err: err}
		errs = append(errs, lerr)
		b.logger.Error("events: listener failed",
			logger.Field{Key: "event", Value: name},
			logger.Field{Key: "subscription", Value: e.id.String()},
			logger.Err(err),
		)
		if b.policy == PolicyAbort {
			break
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) snapshot(name Name) []*entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	named := b.listeners[name]
	wildcard := b.listeners[All]
	if name == All {
		wildcard = nil
	}
	out := make([]*entry, 0, len(named)+len(wildcard))
	out = append(out, named...)
	out = append(out, wildcard...)
	if len(wildcard) > 0 && len(named) > 0 {
		sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	}
	return out
}

func invoke(ctx context.Context, fn Listener, evt Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrListenerPanic, r)
		}
	}()
	return fn(ctx, evt)
}

// Refused reports whether err is Publish declining to dispatch because of the
// reentrancy guard. Listener failures that wrap a nested refusal do not count.
func Refused(err error) bool {
	if !errors.Is(err, ErrReentrancyLimit) {
		return false
	}
	var lerr *ListenerError
	return !errors.As(err, &lerr)
}

type depthKey struct{}

func depthFrom(ctx context.Context) int {
	if v, ok := ctx.Value(depthKey{}).(int); ok {
		return v
	}
	return 0
}

func withDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, depthKey{}, depth)
}

// Depth reports how many publishes are on the current call stack.
func Depth(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	return depthFrom(ctx)
}
