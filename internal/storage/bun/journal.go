package bunrepo

import (
	"context"

	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type JournalRepository struct {
	base baseRepository[domain.JournalEntry]
}

func NewJournalRepository(db *bun.DB) *JournalRepository {
	handlers := repository.ModelHandlers[*domain.JournalEntry]{
		NewRecord: func() *domain.JournalEntry { return &domain.JournalEntry{} },
		GetID:     func(e *domain.JournalEntry) uuid.UUID { return e.ID },
		SetID: func(e *domain.JournalEntry, id uuid.UUID) {
			e.ID = id
		},
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(e *domain.JournalEntry) string { return e.ID.String() },
	}
	return &JournalRepository{
		base: newBaseRepository[domain.JournalEntry](db, handlers, func(e *domain.JournalEntry) *domain.RecordMeta { return &e.RecordMeta }),
	}
}

func (r *JournalRepository) Create(ctx context.Context, entry *domain.JournalEntry) error {
	if entry.Status == "" {
		entry.Status = domain.JournalStatusDispatched
	}
	return r.base.create(ctx, entry)
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
	if status == "" {
		return r.base.list(ctx, opts)
	}
	return r.base.list(ctx, opts, withStatus(status))
}
