package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/housie/internal/domain/game"
)

func TestGameRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository(nil)

	item := game.Game{ID: "g1", Name: "Friday", Drawn: []int{}, CreatedAt: time.Now()}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, item); err == nil {
		t.Fatalf("expected duplicate create to fail")
	}

	drawn := []int{7, 42}
	if err := repo.UpdateDrawn(ctx, "g1", drawn); err != nil {
		t.Fatalf("update drawn: %v", err)
	}
	if err := repo.UpdateDrawn(ctx, "g1", drawn); err != nil {
		t.Fatalf("repeat update drawn: %v", err)
	}
	drawn[0] = 1

	got, ok, err := repo.GetByID(ctx, "g1")
	if err != nil || !ok {
		t.Fatalf("get: %v %v", ok, err)
	}
	if len(got.Drawn) != 2 || got.Drawn[0] != 7 {
		t.Fatalf("unexpected drawn %v", got.Drawn)
	}
	got.Drawn[1] = 99
	again, _, _ := repo.GetByID(ctx, "g1")
	if again.Drawn[1] != 42 {
		t.Fatalf("repository leaked internal slice")
	}

	deleted, err := repo.Delete(ctx, "g1")
	if err != nil || !deleted {
		t.Fatalf("delete: %v %v", deleted, err)
	}
	deleted, err = repo.Delete(ctx, "g1")
	if err != nil || deleted {
		t.Fatalf("second delete: %v %v", deleted, err)
	}
	if err := repo.UpdateDrawn(ctx, "g1", []int{1}); err == nil {
		t.Fatalf("expected update of deleted game to fail")
	}
}

func TestGameRepository_DeleteAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository([]game.Game{
		{ID: "g1", Name: "one"},
		{ID: "g2", Name: "two"},
	})

	items, _ := repo.List(ctx)
	if len(items) != 2 {
		t.Fatalf("expected seeded games, got %d", len(items))
	}

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	items, _ = repo.List(ctx)
	if len(items) != 0 {
		t.Fatalf("expected no games, got %d", len(items))
	}
}
