package bunrepo

import (
	"context"

	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type RewardGrantRepository struct {
	base baseRepository[domain.RewardGrant]
}

func NewRewardGrantRepository(db *bun.DB) *RewardGrantRepository {
	handlers := repository.ModelHandlers[*domain.RewardGrant]{
		NewRecord: func() *domain.RewardGrant { return &domain.RewardGrant{} },
		GetID:     func(g *domain.RewardGrant) uuid.UUID { return g.ID },
		SetID: func(g *domain.RewardGrant, id uuid.UUID) {
			g.ID = id
		},
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(g *domain.RewardGrant) string { return g.ID.String() },
	}
	return &RewardGrantRepository{
		base: newBaseRepository[domain.RewardGrant](db, handlers, func(g *domain.RewardGrant) *domain.RecordMeta { return &g.RecordMeta }),
	}
}

func (r *RewardGrantRepository) Create(ctx context.Context, grant *domain.RewardGrant) error {
	return r.base.create(ctx, grant)
}

func (r *RewardGrantRepository) Update(ctx context.Context, grant *domain.RewardGrant) error {
	return r.base.update(ctx, grant)
}

func (r *RewardGrantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RewardGrant, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *RewardGrantRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.RewardGrant], error) {
	return r.base.list(ctx, opts)
}

func (r *RewardGrantRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *RewardGrantRepository) ListByReward(ctx context.Context, rewardCode string) ([]domain.RewardGrant, error) {
	result, err := r.base.list(ctx, store.ListOptions{}, withRewardCode(rewardCode))
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (r *RewardGrantRepository) CountByReward(ctx context.Context, rewardCode string) (int, error) {
	return r.base.count(ctx, withRewardCode(rewardCode))
}
