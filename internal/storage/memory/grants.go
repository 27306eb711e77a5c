package memory

import (
	"context"
	"strings"

	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/interfaces/store"
	"github.com/google/uuid"
)

type RewardGrantRepository struct {
	base baseMemoryRepo[domain.RewardGrant]
}

func NewRewardGrantRepository() *RewardGrantRepository {
	return &RewardGrantRepository{
		base: newBaseMemoryRepo("reward grant", func(g *domain.RewardGrant) *domain.RecordMeta { return &g.RecordMeta }),
	}
}

func (r *RewardGrantRepository) Create(ctx context.Context, record *domain.RewardGrant) error {
	return r.base.create(ctx, record, nil)
}

func (r *RewardGrantRepository) Update(ctx context.Context, record *domain.RewardGrant) error {
	return r.base.update(ctx, record)
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
	key := strings.ToLower(rewardCode)
	return r.base.filter(ctx, store.ListOptions{}, func(g *domain.RewardGrant) bool {
		return strings.ToLower(g.RewardCode) == key
	}), nil
}

func (r *RewardGrantRepository) CountByReward(ctx context.Context, rewardCode string) (int, error) {
	grants, err := r.ListByReward(ctx, rewardCode)
	if err != nil {
		return 0, err
	}
	return len(grants), nil
}
