package memory

import (
	"context"

	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/interfaces/store"
	"github.com/google/uuid"
)

type JournalRepository struct {
	base baseMemoryRepo[domain.JournalEntry]
}

func NewJournalRepository() *JournalRepository {
	return &JournalRepository{
		base: newBaseMemoryRepo("journal entry", func(e *domain.JournalEntry) *domain.RecordMeta { return &e.RecordMeta }),
	}
}

func (r *JournalRepository) Create(ctx context.Context, entry *domain.JournalEntry) error {
	if entry.Status == "" {
		entry.Status = domain.JournalStatusDispatched
	}
	return r.base.create(ctx, entry, nil)
}

func (r *JournalRepository) Update(ctx context.Context, entry *domain.JournalEntry) error {
	return r.base.update(ctx, entry)
}

func (r *JournalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *JournalRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.JournalEntry], error) {
	return r.base.list(ctx, opts)
}

func (r *JournalRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *JournalRepository) ListByStatus(ctx context.Context, status string, opts store.ListOptions) (store.ListResult[domain.JournalEntry], error) {
	matches := r.base.filter(ctx, opts, func(e *domain.JournalEntry) bool {
		return status == "" || e.Status == status
	})
	return r.base.page(matches, opts), nil
}
