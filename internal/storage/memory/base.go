package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/interfaces/store"
	"github.com/google/uuid"
)

type baseMemoryRepo[T any] struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]T
	extract   func(*T) *domain.RecordMeta
	entityStr string
}

func newBaseMemoryRepo[T any](entity string, extract func(*T) *domain.RecordMeta) baseMemoryRepo[T] {
	return baseMemoryRepo[T]{
		records:   make(map[uuid.UUID]T),
		extract:   extract,
		entityStr: entity,
	}
}

func (r *baseMemoryRepo[T]) notFound(id uuid.UUID) error {
	return fmt.Errorf("%w: %s %s", store.ErrNotFound, r.entityStr, id)
}

// create stores record; unique is evaluated under the write lock so
// uniqueness checks cannot race with concurrent inserts.
func (r *baseMemoryRepo[T]) create(ctx context.Context, record *T, unique func(existing *T) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if unique != nil {
		for _, existing := range r.records {
			candidate := existing
			if !r.extract(&candidate).DeletedAt.IsZero() {
				continue
			}
			if unique(&candidate) {
				return fmt.Errorf("%w: %s", store.ErrDuplicate, r.entityStr)
			}
		}
	}

	base := r.extract(record)
	base.EnsureID()
	now := time.Now().UTC()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
	r.records[base.ID] = *record
	return nil
}

func (r *baseMemoryRepo[T]) update(ctx context.Context, record *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	base := r.extract(record)
	if base.ID == uuid.Nil {
		return r.notFound(base.ID)
	}
	if _, ok := r.records[base.ID]; !ok {
		return r.notFound(base.ID)
	}
	base.UpdatedAt = time.Now().UTC()
	r.records[base.ID] = *record
	return nil
}

func (r *baseMemoryRepo[T]) getByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, r.notFound(id)
	}
	base := r.extract(&record)
	if !includeDeleted && !base.DeletedAt.IsZero() {
		return nil, r.notFound(id)
	}
	copy := record
	return &copy, nil
}

// first returns the oldest live record matching fn.
func (r *baseMemoryRepo[T]) first(ctx context.Context, fn func(*T) bool) (*T, error) {
	items := r.filter(ctx, store.ListOptions{}, fn)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, r.entityStr)
	}
	out := items[0]
	return &out, nil
}

func (r *baseMemoryRepo[T]) list(ctx context.Context, opts store.ListOptions) (store.ListResult[T], error) {
	return r.page(r.filter(ctx, opts, nil), opts), nil
}

// filter returns matching records ordered by creation time.
func (r *baseMemoryRepo[T]) filter(ctx context.Context, opts store.ListOptions, fn func(*T) bool) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []T
	for _, record := range r.records {
		base := r.extract(&record)
		if !opts.IncludeSoftDeleted && !base.DeletedAt.IsZero() {
			continue
		}
		if !opts.Since.IsZero() && base.CreatedAt.Before(opts.Since) {
			continue
		}
		if !opts.Until.IsZero() && base.CreatedAt.After(opts.Until) {
			continue
		}
		if fn != nil && !fn(&record) {
			continue
		}
		filtered = append(filtered, record)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return r.extract(&filtered[i]).CreatedAt.Before(r.extract(&filtered[j]).CreatedAt)
	})
	return filtered
}

func (r *baseMemoryRepo[T]) page(filtered []T, opts store.ListOptions) store.ListResult[T] {
	total := len(filtered)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := total
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}
	return store.ListResult[T]{
		Items: filtered[start:end],
		Total: total,
	}
}

func (r *baseMemoryRepo[T]) softDelete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return r.notFound(id)
	}
	base := r.extract(&record)
	if base.DeletedAt.IsZero() {
		base.DeletedAt = time.Now().UTC()
	}
	r.records[id] = record
	return nil
}
