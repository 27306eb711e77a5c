package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func TestBunProvidersRoundTrip(t *testing.T) {
	sqldb, err := sql.Open(sqliteshim.DriverName(), "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if err := CreateTables(ctx, db); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	if err := CreateTables(ctx, db); err != nil {
		t.Fatalf("create tables is not idempotent: %v", err)
	}

	providers := NewBunProviders(db)
	err = providers.Transaction.WithinTransaction(ctx, func(ctx context.Context) error {
		return providers.Rewards.Create(ctx, &domain.RewardDefinition{Code: "first-login", Name: "First"})
	})
	if err != nil {
		t.Fatalf("create in transaction: %v", err)
	}
	if _, err := providers.Rewards.GetByCode(ctx, "first-login"); err != nil {
		t.Fatalf("get by code: %v", err)
	}

	boom := errors.New("boom")
	if err := providers.Transaction.WithinTransaction(ctx, func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
}

func TestBunTransactionRollsBackRepositoryWrites(t *testing.T) {
	sqldb, err := sql.Open(sqliteshim.DriverName(), "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if err := CreateTables(ctx, db); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	providers := NewBunProviders(db)

	boom := errors.New("boom")
	err = providers.Transaction.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := providers.Grants.Create(ctx, &domain.RewardGrant{RewardCode: "share"}); err != nil {
			return err
		}
		count, err := providers.Grants.CountByReward(ctx, "share")
		if err != nil {
			return err
		}
		if count != 1 {
			t.Errorf("expected the grant to be visible inside the transaction, got %d", count)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	count, err := providers.Grants.CountByReward(ctx, "share")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected the grant to be rolled back, got %d", count)
	}
}

func TestMemoryProvidersAreIndependent(t *testing.T) {
	ctx := context.Background()
	a, b := NewMemoryProviders(), NewMemoryProviders()
	if err := a.Rewards.Create(ctx, &domain.RewardDefinition{Code: "share"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := b.Rewards.GetByCode(ctx, "share"); err == nil {
		t.Fatalf("expected providers not to share state")
	}
}
