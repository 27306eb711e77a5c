// Package rewards is the default reward registry consulted by the relay
// before LoginFinished and SocialActionFinished are raised.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-profile-events/pkg/activity"
	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/interfaces/cache"
	"github.com/goliatone/go-profile-events/pkg/interfaces/logger"
	"github.com/goliatone/go-profile-events/pkg/interfaces/store"
)

var (
	// ErrRewardNotFound is returned by Lookup when no definition matches.
	ErrRewardNotFound = errors.New("rewards: reward not found")
	// ErrAlreadyGranted is returned by Give for non-repeatable rewards that were granted before.
	ErrAlreadyGranted = errors.New("rewards: reward already granted")

	errRewardsRequired = errors.New("rewards: reward repository is required")
	errGrantsRequired  = errors.New("rewards: grant repository is required")
	errCodeRequired    = errors.New("rewards: code is required")
	errNilReward       = errors.New("rewards: reward is required")
)

// Dependencies wires repositories and hooks into the service.
type Dependencies struct {
	Rewards     store.RewardRepository
	Grants      store.RewardGrantRepository
	Transaction store.TransactionManager
	Logger      logger.Logger
	Activity    activity.Hooks
	// Cache holds definitions resolved by Lookup. Defaults to no caching.
	Cache       cache.Cache
	CacheTTL    time.Duration
}

// RewardInput describes a reward definition to upsert.
type RewardInput struct {
	Code        string
	Name        string
	Description string
	Repeatable  bool
	Metadata    domain.JSONMap
}

// GrantContext describes the notification that triggered a grant.
type GrantContext struct {
	EventName string
	Provider  string
	Payload   string
	Metadata  map[string]any
}

// Service looks up and grants rewards.
type Service struct {
	rewards  store.RewardRepository
	grants   store.RewardGrantRepository
	tx       store.TransactionManager
	logger   logger.Logger
	activity activity.Hooks
	cache    cache.Cache
	cacheTTL time.Duration

	// serializes the repeatable check with the grant insert
	mu sync.Mutex
}

// New constructs the reward service.
func New(deps Dependencies) (*Service, error) {
	if deps.Rewards == nil {
		return nil, errRewardsRequired
	}
	if deps.Grants == nil {
		return nil, errGrantsRequired
	}
	if deps.Transaction == nil {
		deps.Transaction = &store.NopTransactionManager{}
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	if deps.Cache == nil {
		deps.Cache = &cache.Nop{}
	}
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = time.Minute
	}
	return &Service{
		rewards:  deps.Rewards,
		grants:   deps.Grants,
		tx:       deps.Transaction,
		logger:   deps.Logger,
		activity: deps.Activity,
		cache:    deps.Cache,
		cacheTTL: deps.CacheTTL,
	}, nil
}

// Lookup resolves a reward by its code.
func (s *Service) Lookup(ctx context.Context, id string) (*domain.RewardDefinition, error) {
	code := strings.TrimSpace(id)
	if code == "" {
		return nil, ErrRewardNotFound
	}
	if reward := s.readCache(ctx, code); reward != nil {
		return reward, nil
	}
	reward, err := s.rewards.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRewardNotFound, code)
		}
		return nil, err
	}
	s.writeCache(ctx, reward)
	return reward, nil
}

func (s *Service) readCache(ctx context.Context, code string) *domain.RewardDefinition {
	value, ok, err := s.cache.Get(ctx, cacheKey(code))
	if err != nil {
		s.logger.Warn("rewards cache get failed", logger.Err(err))
		return nil
	}
	if !ok {
		return nil
	}
	reward, ok := value.(domain.RewardDefinition)
	if !ok {
		s.logger.Warn("rewards cache returned unexpected type", logger.Field{Key: "type", Value: fmt.Sprintf("%T", value)})
		return nil
	}
	return &reward
}

func (s *Service) writeCache(ctx context.Context, reward *domain.RewardDefinition) {
	if err := s.cache.Set(ctx, cacheKey(reward.Code), *reward, s.cacheTTL); err != nil {
		s.logger.Warn("rewards cache set failed", logger.Err(err))
	}
}

func cacheKey(code string) string {
	return "reward:" + strings.ToLower(strings.TrimSpace(code))
}

// Give records a grant of reward. Non-repeatable rewards are granted once.
func (s *Service) Give(ctx context.Context, reward *domain.RewardDefinition, grant GrantContext) error {
	if reward == nil {
		return errNilReward
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := &domain.RewardGrant{
		RewardCode: reward.Code,
		EventName:  grant.EventName,
		Payload:    grant.Payload,
		Provider:   grant.Provider,
		Metadata:   domain.JSONMap(activity.CloneMetadata(grant.Metadata)),
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if !reward.Repeatable {
			count, err := s.grants.CountByReward(ctx, reward.Code)
			if err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("%w: %s", ErrAlreadyGranted, reward.Code)
			}
		}
		return s.grants.Create(ctx, record)
	})
	if err != nil {
		return err
	}

	s.logger.Info("reward granted",
		logger.Field{Key: "reward", Value: reward.Code},
		logger.Field{Key: "event", Value: grant.EventName},
	)
	s.activity.Notify(ctx, activity.Event{
		Verb:       activity.VerbRewardGranted,
		EventName:  grant.EventName,
		Provider:   record.Provider,
		RewardCode: reward.Code,
		ObjectType: "reward_grant",
		ObjectID:   record.ID.String(),
	})
	return nil
}

// Register creates the reward or updates an existing definition with the same code.
func (s *Service) Register(ctx context.Context, input RewardInput) (*domain.RewardDefinition, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, errCodeRequired
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = code
	}

	var out *domain.RewardDefinition
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.rewards.GetByCode(ctx, code)
		switch {
		case err == nil:
			existing.Name = name
			existing.Description = input.Description
			existing.Repeatable = input.Repeatable
			existing.Metadata = input.Metadata
			if err := s.rewards.Update(ctx, existing); err != nil {
				return err
			}
			out = existing
			return nil
		case errors.Is(err, store.ErrNotFound):
			record := &domain.RewardDefinition{
				Code:        code,
				Name:        name,
				Description: input.Description,
				Repeatable:  input.Repeatable,
				Metadata:    input.Metadata,
			}
			if err := s.rewards.Create(ctx, record); err != nil {
				return err
			}
			out = record
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	if err := s.cache.Delete(ctx, cacheKey(out.Code)); err != nil {
		s.logger.Warn("rewards cache delete failed", logger.Err(err))
	}

	s.activity.Notify(ctx, activity.Event{
		Verb:       activity.VerbRewardRegistered,
		RewardCode: out.Code,
		ObjectType: "reward",
		ObjectID:   out.ID.String(),
	})
	return out, nil
}

// Grants lists every grant recorded for the reward code.
func (s *Service) Grants(ctx context.Context, rewardID string) ([]domain.RewardGrant, error) {
	return s.grants.ListByReward(ctx, strings.TrimSpace(rewardID))
}
