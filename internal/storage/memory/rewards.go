package memory

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/interfaces/store"
	"github.com/google/uuid"
)

type RewardRepository struct {
	base baseMemoryRepo[domain.RewardDefinition]
}

func NewRewardRepository() *RewardRepository {
	return &RewardRepository{
		base: newBaseMemoryRepo("reward", func(r *domain.RewardDefinition) *domain.RecordMeta { return &r.RecordMeta }),
	}
}

func (r *RewardRepository) Create(ctx context.Context, record *domain.RewardDefinition) error {
	if record == nil {
		return store.ErrNotFound
	}
	if strings.TrimSpace(record.Code) == "" {
		return errors.New("reward code is required")
	}
	code := strings.ToLower(record.Code)
	return r.base.create(ctx, record, func(existing *domain.RewardDefinition) bool {
		return strings.ToLower(existing.Code) == code
	})
}

func (r *RewardRepository) Update(ctx context.Context, record *domain.RewardDefinition) error {
	return r.base.update(ctx, record)
}

func (r *RewardRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RewardDefinition, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *RewardRepository) GetByCode(ctx context.Context, code string) (*domain.RewardDefinition, error) {
	key := strings.ToLower(strings.TrimSpace(code))
	return r.base.first(ctx, func(record *domain.RewardDefinition) bool {
		return strings.ToLower(record.Code) == key
	})
}

func (r *RewardRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.RewardDefinition], error) {
	return r.base.list(ctx, opts)
}

func (r *RewardRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}
