package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/housie/internal/domain/preference"
	"github.com/riskibarqy/housie/internal/platform/logging"
)

type PreferenceService struct {
	prefRepo preference.Repository
	logger   *logging.Logger
	now      func() time.Time

	// mu keeps read-modify-write toggles from interleaving.
	mu sync.Mutex
}

func NewPreferenceService(prefRepo preference.Repository, logger *logging.Logger) *PreferenceService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PreferenceService{
		prefRepo: prefRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// NarrationMuted reports whether draws are announced silently. A missing
// preference is stored as unmuted on first read.
func (s *PreferenceService) NarrationMuted(ctx context.Context) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PreferenceService.NarrationMuted")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.loadOrCreate(ctx, preference.KeyNarrationMuted)
	if err != nil {
		return false, err
	}

	return item.Enabled, nil
}

func (s *PreferenceService) SetNarrationMuted(ctx context.Context, muted bool) (preference.Preference, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PreferenceService.SetNarrationMuted")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, preference.KeyNarrationMuted, muted)
}

// ToggleNarration flips the mute switch and returns the stored value.
func (s *PreferenceService) ToggleNarration(ctx context.Context) (preference.Preference, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PreferenceService.ToggleNarration")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadOrCreate(ctx, preference.KeyNarrationMuted)
	if err != nil {
		return preference.Preference{}, err
	}

	return s.save(ctx, preference.KeyNarrationMuted, !current.Enabled)
}

func (s *PreferenceService) loadOrCreate(ctx context.Context, key string) (preference.Preference, error) {
	item, exists, err := s.prefRepo.Get(ctx, key)
	if err != nil {
		return preference.Preference{}, fmt.Errorf("%w: get preference %s: %w", ErrDependencyUnavailable, key, err)
	}
	if exists {
		return item, nil
	}

	return s.save(ctx, key, false)
}

func (s *PreferenceService) save(ctx context.Context, key string, enabled bool) (preference.Preference, error) {
	item := preference.Preference{
		Key:       key,
		Enabled:   enabled,
		UpdatedAt: s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return preference.Preference{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.prefRepo.Upsert(ctx, item); err != nil {
		return preference.Preference{}, fmt.Errorf("%w: save preference %s: %w", ErrDependencyUnavailable, key, err)
	}

	s.logger.InfoContext(ctx, "preference saved", "key", key, "enabled", enabled)

	return item, nil
}
