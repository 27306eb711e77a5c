package bunrepo

import (
	"context"
	"strings"

	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type RewardRepository struct {
	base baseRepository[domain.RewardDefinition]
}

func NewRewardRepository(db *bun.DB) *RewardRepository {
	handlers := repository.ModelHandlers[*domain.RewardDefinition]{
		NewRecord: func() *domain.RewardDefinition { return &domain.RewardDefinition{} },
		GetID:     func(r *domain.RewardDefinition) uuid.UUID { return r.ID },
		SetID: func(r *domain.RewardDefinition, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier:      func() string { return "code" },
		GetIdentifierValue: func(r *domain.RewardDefinition) string { return r.Code },
	}
	return &RewardRepository{
		base: newBaseRepository[domain.RewardDefinition](db, handlers, func(r *domain.RewardDefinition) *domain.RecordMeta { return &r.RecordMeta }),
	}
}

func (r *RewardRepository) Create(ctx context.Context, reward *domain.RewardDefinition) error {
	if _, err := r.GetByCode(ctx, reward.Code); err == nil {
		return store.ErrDuplicate
	}
	return r.base.create(ctx, reward)
}

func (r *RewardRepository) Update(ctx context.Context, reward *domain.RewardDefinition) error {
	return r.base.update(ctx, reward)
}

func (r *RewardRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RewardDefinition, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *RewardRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.RewardDefinition], error) {
	return r.base.list(ctx, opts)
}

func (r *RewardRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *RewardRepository) GetByCode(ctx context.Context, code string) (*domain.RewardDefinition, error) {
	record, err := r.base.repo.GetTx(ctx, r.base.conn(ctx),
		func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("LOWER(code) = ?", strings.ToLower(strings.TrimSpace(code)))
		},
		withoutDeleted(),
	)
	if err != nil {
		return nil, mapError(err)
	}
	return record, nil
}
