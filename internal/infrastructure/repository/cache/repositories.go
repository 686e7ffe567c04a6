package cache

import (
	"context"

	"github.com/riskibarqy/housie/internal/domain/game"
	"github.com/riskibarqy/housie/internal/domain/preference"
	basecache "github.com/riskibarqy/housie/internal/platform/cache"
)

const (
	gamePrefix    = "game:"
	gameListKey   = "game:list"
	gameKeyPrefix = "game:id:"
	prefKeyPrefix = "preference:"
)

type GameRepository struct {
	next  game.Repository
	cache *basecache.Store
}

func NewGameRepository(next game.Repository, cache *basecache.Store) *GameRepository {
	return &GameRepository{next: next, cache: cache}
}

func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	v, err := r.cache.GetOrLoad(ctx, gameListKey, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return cloneGames(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]game.Game)
	return cloneGames(items), nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, gameKeyPrefix+gameID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return cachedGameByID{value: item.Clone(), exists: exists}, nil
	})
	if err != nil {
		return game.Game{}, false, err
	}

	cached, _ := v.(cachedGameByID)
	return cached.value.Clone(), cached.exists, nil
}

func (r *GameRepository) Create(ctx context.Context, item game.Game) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx, item.ID)
	return nil
}

func (r *GameRepository) UpdateDrawn(ctx context.Context, gameID string, drawn []int) error {
	err := r.next.UpdateDrawn(ctx, gameID, drawn)
	r.invalidate(ctx, gameID)
	return err
}

func (r *GameRepository) Delete(ctx context.Context, gameID string) (bool, error) {
	deleted, err := r.next.Delete(ctx, gameID)
	r.invalidate(ctx, gameID)
	return deleted, err
}

func (r *GameRepository) DeleteAll(ctx context.Context) error {
	err := r.next.DeleteAll(ctx)
	r.cache.DeletePrefix(ctx, gamePrefix)
	return err
}

func (r *GameRepository) invalidate(ctx context.Context, gameID string) {
	r.cache.Delete(ctx, gameListKey)
	r.cache.Delete(ctx, gameKeyPrefix+gameID)
}

type cachedGameByID struct {
	value  game.Game
	exists bool
}

func cloneGames(items []game.Game) []game.Game {
	out := make([]game.Game, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}

type PreferenceRepository struct {
	next  preference.Repository
	cache *basecache.Store
}

func NewPreferenceRepository(next preference.Repository, cache *basecache.Store) *PreferenceRepository {
	return &PreferenceRepository{next: next, cache: cache}
}

func (r *PreferenceRepository) Get(ctx context.Context, key string) (preference.Preference, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, prefKeyPrefix+key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		return cachedPreference{value: item, exists: exists}, nil
	})
	if err != nil {
		return preference.Preference{}, false, err
	}

	cached, _ := v.(cachedPreference)
	return cached.value, cached.exists, nil
}

func (r *PreferenceRepository) Upsert(ctx context.Context, item preference.Preference) error {
	err := r.next.Upsert(ctx, item)
	r.cache.Delete(ctx, prefKeyPrefix+item.Key)
	return err
}

type cachedPreference struct {
	value  preference.Preference
	exists bool
}
