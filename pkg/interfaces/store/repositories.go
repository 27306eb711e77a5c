package store

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record cannot be located.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a unique key already exists.
	ErrDuplicate = errors.New("store: duplicate record")
)

// ListOptions capture pagination and filtering knobs common to repositories.
type ListOptions struct {
	Limit              int
	Offset             int
	Since              time.Time
	Until              time.Time
	IncludeSoftDeleted bool
}

// ListResult bundles records and totals.
type ListResult[T any] struct {
	Items []T
	Total int
}

// Repository defines base CRUD helpers reused by entity-specific interfaces.
type Repository[T any] interface {
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, record *T) error
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context, opts ListOptions) (ListResult[T], error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type RewardRepository interface {
	Repository[domain.RewardDefinition]
	GetByCode(ctx context.Context, code string) (*domain.RewardDefinition, error)
}

type RewardGrantRepository interface {
	Repository[domain.RewardGrant]
	ListByReward(ctx context.Context, rewardCode string) ([]domain.RewardGrant, error)
	CountByReward(ctx context.Context, rewardCode string) (int, error)
}

type JournalRepository interface {
	Repository[domain.JournalEntry]
	ListByStatus(ctx context.Context, status string, opts ListOptions) (ListResult[domain.JournalEntry], error)
}
