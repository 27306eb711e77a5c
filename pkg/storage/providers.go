package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	bunrepo "github.com/goliatone/go-profile-events/internal/storage/bun"
	"github.com/goliatone/go-profile-events/internal/storage/memory"
	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/interfaces/store"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// Providers exposes all repositories needed by services.
type Providers struct {
	Rewards     store.RewardRepository
	Grants      store.RewardGrantRepository
	Journal     store.JournalRepository
	Transaction store.TransactionManager
}

// Models lists the persisted entities in creation order.
func Models() []any {
	return []any{
		(*domain.RewardDefinition)(nil),
		(*domain.RewardGrant)(nil),
		(*domain.JournalEntry)(nil),
	}
}

// NewMemoryProviders returns repositories backed by in-memory maps.
func NewMemoryProviders() Providers {
	return Providers{
		Rewards:     memory.NewRewardRepository(),
		Grants:      memory.NewRewardGrantRepository(),
		Journal:     memory.NewJournalRepository(),
		Transaction: &store.NopTransactionManager{},
	}
}

var registerModels sync.Once

// NewBunProviders wires Bun-backed repositories using go-repository-bun.
// The caller owns the *bun.DB lifecycle.
func NewBunProviders(db *bun.DB) Providers {
	if db == nil {
		panic("storage: bun DB is required")
	}

	// Register models so go-persistence-bun migrations can pick them up.
	registerModels.Do(func() {
		persistence.RegisterModel(Models()...)
	})

	return Providers{
		Rewards:     bunrepo.NewRewardRepository(db),
		Grants:      bunrepo.NewRewardGrantRepository(db),
		Journal:     bunrepo.NewJournalRepository(db),
		Transaction: bunTransactions(db),
	}
}

// CreateTables creates any missing tables for the persisted entities.
func CreateTables(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table for %T: %w", model, err)
		}
	}
	return nil
}

// bunTransactions runs fn inside db.RunInTx. The bun repositories pick the
// transaction up from the context, so the grant count and insert in
// rewards.Service.Give commit together. On sqlite a concurrent writer fails
// with SQLITE_BUSY instead of double granting; other dialects need a
// serializable isolation level for the same guarantee.
func bunTransactions(db *bun.DB) store.TransactionManager {
	return store.TransactionFunc(func(ctx context.Context, fn func(ctx context.Context) error) error {
		if _, ok := bunrepo.TxFrom(ctx); ok {
			return fn(ctx)
		}
		return db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
			return fn(bunrepo.WithTx(ctx, tx))
		})
	})
}
