package commands

import (
	command "github.com/goliatone/go-command"
	internalcommands "github.com/goliatone/go-profile-events/internal/commands"
	"github.com/goliatone/go-profile-events/pkg/interfaces/logger"
	"github.com/goliatone/go-profile-events/pkg/relay"
	"github.com/goliatone/go-profile-events/pkg/rewards"
)

// Re-export request types so consumers need not import internal packages.
type (
	HandleNotification = internalcommands.HandleNotification
	RegisterReward     = internalcommands.RegisterReward
	GrantReward        = internalcommands.GrantReward
)

// Registry exposes go-command compatible handlers backed by the module services.
type Registry struct {
	Catalog            *internalcommands.Catalog
	HandleNotification command.Commander[HandleNotification]
	RegisterReward     command.Commander[RegisterReward]
	GrantReward        command.Commander[GrantReward]
}

// Dependencies mirror the internal command dependencies but keep them public.
type Dependencies struct {
	Relay   *relay.Relay
	Rewards *rewards.Service
	Logger  logger.Logger
}

// New builds the registry using the provided dependencies.
func New(deps Dependencies) (*Registry, error) {
	internalDeps := internalcommands.Dependencies{Logger: deps.Logger}
	// typed nils must not leak into the interface fields
	if deps.Relay != nil {
		internalDeps.Relay = deps.Relay
	}
	if deps.Rewards != nil {
		internalDeps.Rewards = deps.Rewards
	}
	catalog, err := internalcommands.NewCatalog(internalDeps)
	if err != nil {
		return nil, err
	}
	return &Registry{
		Catalog:            catalog,
		HandleNotification: catalog.HandleNotification,
		RegisterReward:     catalog.RegisterReward,
		GrantReward:        catalog.GrantReward,
	}, nil
}

// Commanders returns every handler so callers can register them with go-command registries.
func (r *Registry) Commanders() []any {
	if r == nil {
		return nil
	}
	return []any{
		r.HandleNotification,
		r.RegisterReward,
		r.GrantReward,
	}
}
