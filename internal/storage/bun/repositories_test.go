package bunrepo

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/interfaces/store"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupSQLiteDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.DriverName(), "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	models := []any{
		(*domain.RewardDefinition)(nil),
		(*domain.RewardGrant)(nil),
		(*domain.JournalEntry)(nil),
	}
	for _, model := range models {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		if err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func TestRewardRepositoryBun(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewRewardRepository(db)
	ctx := context.Background()

	reward := &domain.RewardDefinition{
		Code: "first-login",
		Name: "First Login",
	}
	if err := repo.Create(ctx, reward); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, &domain.RewardDefinition{Code: "First-Login", Name: "Dup"}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	got, err := repo.GetByCode(ctx, "FIRST-LOGIN")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if got.Code != "first-login" {
		t.Fatalf("unexpected code %s", got.Code)
	}

	if _, err := repo.GetByCode(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	list, err := repo.List(ctx, store.ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("expected total 1, got %d", list.Total)
	}
}

func TestRewardGrantRepositoryBun(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewRewardGrantRepository(db)
	ctx := context.Background()

	for _, code := range []string{"share", "share", "login"} {
		grant := &domain.RewardGrant{RewardCode: code, EventName: "social_action.finished", Provider: "facebook"}
		if err := repo.Create(ctx, grant); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	count, err := repo.CountByReward(ctx, "share")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 grants, got %d", count)
	}

	grants, err := repo.ListByReward(ctx, "login")
	if err != nil {
		t.Fatalf("list by reward: %v", err)
	}
	if len(grants) != 1 || grants[0].RewardCode != "login" {
		t.Fatalf("unexpected grants %+v", grants)
	}
}

func TestJournalRepositoryBun(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewJournalRepository(db)
	ctx := context.Background()

	entries := []*domain.JournalEntry{
		{Method: "onLoginStarted", EventName: "login.started", Message: `{"provider":0}`},
		{Method: "onLoginFailed", Status: domain.JournalStatusRejected, Error: "wire: malformed message"},
	}
	for _, entry := range entries {
		if err := repo.Create(ctx, entry); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	rejected, err := repo.ListByStatus(ctx, domain.JournalStatusRejected, store.ListOptions{})
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if rejected.Total != 1 || rejected.Items[0].Method != "onLoginFailed" {
		t.Fatalf("unexpected rejected entries %+v", rejected)
	}

	got, err := repo.GetByID(ctx, entries[0].ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Status != domain.JournalStatusDispatched {
		t.Fatalf("expected default status, got %s", got.Status)
	}
}
