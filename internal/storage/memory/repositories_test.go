package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/interfaces/store"
)

func TestRewardRepositoryMemory(t *testing.T) {
	repo := NewRewardRepository()
	ctx := context.Background()

	reward := &domain.RewardDefinition{Code: "first-login", Name: "First Login"}
	if err := repo.Create(ctx, reward); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, &domain.RewardDefinition{Code: "FIRST-LOGIN", Name: "Dup"}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	got, err := repo.GetByCode(ctx, "First-Login")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if got.ID != reward.ID {
		t.Fatalf("expected id %s, got %s", reward.ID, got.ID)
	}

	if err := repo.SoftDelete(ctx, reward.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := repo.GetByCode(ctx, "first-login"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestRewardGrantRepositoryCounts(t *testing.T) {
	repo := NewRewardGrantRepository()
	ctx := context.Background()

	for _, code := range []string{"share", "share", "login"} {
		if err := repo.Create(ctx, &domain.RewardGrant{RewardCode: code}); err != nil {
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
}

func TestJournalRepositoryListByStatus(t *testing.T) {
	repo := NewJournalRepository()
	ctx := context.Background()

	entries := []*domain.JournalEntry{
		{Method: "onLoginStarted"},
		{Method: "onLoginFailed", Status: domain.JournalStatusRejected, Error: "bad provider"},
		{Method: "onLogoutStarted"},
	}
	for _, entry := range entries {
		if err := repo.Create(ctx, entry); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	rejected, err := repo.ListByStatus(ctx, domain.JournalStatusRejected, store.ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if rejected.Total != 1 || rejected.Items[0].Method != "onLoginFailed" {
		t.Fatalf("unexpected rejected entries %+v", rejected)
	}

	all, err := repo.ListByStatus(ctx, "", store.ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all.Total != 3 || len(all.Items) != 2 {
		t.Fatalf("expected page of 2 out of 3, got %d/%d", len(all.Items), all.Total)
	}
}
