package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/riskibarqy/housie/internal/domain/game"
)

type GameRepository struct {
	mu     sync.RWMutex
	items  map[string]game.Game
	orders []string
}

func NewGameRepository(games []game.Game) *GameRepository {
	items := make(map[string]game.Game, len(games))
	orders := make([]string, 0, len(games))

	for _, g := range games {
		items[g.ID] = g.Clone()
		orders = append(orders, g.ID)
	}

	return &GameRepository{
		items:  items,
		orders: orders,
	}
}

func (r *GameRepository) List(_ context.Context) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id].Clone())
	}

	return out, nil
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.items[gameID]
	if !ok {
		return game.Game{}, false, nil
	}

	return g.Clone(), true, nil
}

func (r *GameRepository) Create(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("game %s already exists", item.ID)
	}
	r.items[item.ID] = item.Clone()
	r.orders = append(r.orders, item.ID)

	return nil
}

func (r *GameRepository) UpdateDrawn(_ context.Context, gameID string, drawn []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.items[gameID]
	if !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	g.Drawn = append([]int(nil), drawn...)
	r.items[gameID] = g

	return nil
}

func (r *GameRepository) Delete(_ context.Context, gameID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[gameID]; !ok {
		return false, nil
	}
	delete(r.items, gameID)
	r.orders = slices.DeleteFunc(r.orders, func(id string) bool { return id == gameID })

	return true, nil
}

func (r *GameRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[string]game.Game)
	r.orders = nil

	return nil
}
