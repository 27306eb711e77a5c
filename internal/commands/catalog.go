package commands

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/interfaces/logger"
	"github.com/goliatone/go-profile-events/pkg/rewards"
)

// Catalog exposes go-command compatible handlers for host transports.
type Catalog struct {
	HandleNotification command.Commander[HandleNotification]
	RegisterReward     command.Commander[RegisterReward]
	GrantReward        command.Commander[GrantReward]
}

type relayService interface {
	Handle(ctx context.Context, method, message string) error
}

type rewardService interface {
	Lookup(ctx context.Context, id string) (*domain.RewardDefinition, error)
	Give(ctx context.Context, reward *domain.RewardDefinition, grant rewards.GrantContext) error
	Register(ctx context.Context, input rewards.RewardInput) (*domain.RewardDefinition, error)
}

// Dependencies wires services into the command catalog.
type Dependencies struct {
	Relay   relayService
	Rewards rewardService
	Logger  logger.Logger
}

// NewCatalog builds the command catalog using the supplied dependencies.
func NewCatalog(deps Dependencies) (*Catalog, error) {
	if deps.Relay == nil {
		return nil, errors.New("commands: relay is required")
	}
	if deps.Rewards == nil {
		return nil, errors.New("commands: rewards service is required")
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}

	return &Catalog{
		HandleNotification: handleNotificationCommand{relay: deps.Relay},
		RegisterReward:     registerRewardCommand{svc: deps.Rewards, logger: deps.Logger},
		GrantReward:        grantRewardCommand{svc: deps.Rewards},
	}, nil
}

// HandleNotification carries one native notification.
type HandleNotification struct {
	Method  string `json:"method"`
	Message string `json:"message"`
}

type handleNotificationCommand struct {
	relay relayService
}

func (c handleNotificationCommand) Execute(ctx context.Context, msg HandleNotification) error {
	method := strings.TrimSpace(msg.Method)
	if method == "" {
		return errors.New("commands: notification method is required")
	}
	return c.relay.Handle(ctx, method, msg.Message)
}

// RegisterReward creates or updates a reward definition.
type RegisterReward struct {
	Code        string         `json:"code"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Repeatable  bool           `json:"repeatable"`
	Metadata    map[string]any `json:"metadata"`
}

type registerRewardCommand struct {
	svc    rewardService
	logger logger.Logger
}

func (c registerRewardCommand) Execute(ctx context.Context, msg RegisterReward) error {
	reward, err := c.svc.Register(ctx, rewards.RewardInput{
		Code:        msg.Code,
		Name:        msg.Name,
		Description: msg.Description,
		Repeatable:  msg.Repeatable,
		Metadata:    domain.JSONMap(msg.Metadata),
	})
	if err != nil {
		return err
	}
	c.logger.Debug("commands: reward registered", logger.Field{Key: "reward", Value: reward.Code})
	return nil
}

// GrantReward gives a reward outside of a notification, e.g. from an admin tool.
type GrantReward struct {
	RewardID string         `json:"reward_id"`
	Provider string         `json:"provider"`
	Reason   string         `json:"reason"`
	Metadata map[string]any `json:"metadata"`
}

type grantRewardCommand struct {
	svc rewardService
}

func (c grantRewardCommand) Execute(ctx context.Context, msg GrantReward) error {
	reward, err := c.svc.Lookup(ctx, strings.TrimSpace(msg.RewardID))
	if err != nil {
		return err
	}
	grant := rewards.GrantContext{
		EventName: msg.Reason,
		Metadata:  msg.Metadata,
	}
	if msg.Provider != "" {
		provider, err := domain.ProviderFromString(msg.Provider)
		if err != nil {
			return err
		}
		grant.Provider = provider.String()
	}
	return c.svc.Give(ctx, reward, grant)
}
