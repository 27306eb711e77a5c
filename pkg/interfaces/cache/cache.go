package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache exposes the minimal API needed for reward definition caching.
type Cache interface {
	Get(ctx context.Context, key string) (any, bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Nop cache returns misses and ignores writes.
type Nop struct{}

var _ Cache = (*Nop)(nil)

func (n *Nop) Get(ctx context.Context, key string) (any, bool, error) { return nil, false, nil }
func (n *Nop) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}
func (n *Nop) Delete(ctx context.Context, key string) error { return nil }

// DefaultMemorySize bounds a Memory cache created with a non-positive size.
const DefaultMemorySize = 256

type memoryItem struct {
	value   any
	expires time.Time
}

// Memory is a process-local LRU cache. Expired entries are dropped on read.
type Memory struct {
	entries *lru.Cache[string, memoryItem]
	now     func() time.Time
}

var _ Cache = (*Memory)(nil)

// NewMemory returns an empty in-process cache holding at most size entries.
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = DefaultMemorySize
	}
	entries, err := lru.New[string, memoryItem](size)
	if err != nil {
		panic(err)
	}
	return &Memory{entries: entries, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (any, bool, error) {
	item, ok := m.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !item.expires.IsZero() && !m.now().Before(item.expires) {
		m.entries.Remove(key)
		return nil, false, nil
	}
	return item.value, true, nil
}

// Set stores value; a non-positive ttl never expires.
func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	item := memoryItem{value: value}
	if ttl > 0 {
		item.expires = m.now().Add(ttl)
	}
	m.entries.Add(key, item)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

// Len reports the number of entries held, expired or not.
func (m *Memory) Len() int { return m.entries.Len() }
