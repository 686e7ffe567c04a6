package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/housie/internal/domain/preference"
)

type PreferenceRepository struct {
	mu    sync.RWMutex
	items map[string]preference.Preference
}

func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{items: make(map[string]preference.Preference)}
}

func (r *PreferenceRepository) Get(_ context.Context, key string) (preference.Preference, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[key]
	return item, ok, nil
}

func (r *PreferenceRepository) Upsert(_ context.Context, item preference.Preference) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.Key] = item
	return nil
}
