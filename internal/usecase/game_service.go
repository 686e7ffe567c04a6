package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/riskibarqy/housie/internal/domain/announce"
	"github.com/riskibarqy/housie/internal/domain/game"
	"github.com/riskibarqy/housie/internal/platform/cache"
	idgen "github.com/riskibarqy/housie/internal/platform/id"
	"github.com/riskibarqy/housie/internal/platform/logging"
	"github.com/riskibarqy/housie/internal/platform/random"
	"github.com/riskibarqy/housie/internal/platform/resilience"
)

// GameServiceConfig tunes optional game behaviour.
type GameServiceConfig struct {
	// RestoreWindow is how long a deleted game can be brought back. Zero disables restore.
	RestoreWindow time.Duration
	Voices        []string
}

// Session is a loaded game together with the engine that owns its pool.
type Session struct {
	Game   game.Game
	Engine *game.Engine
}

type DrawResult struct {
	Game          game.Game
	Numbers       []int
	Announcements []announce.Announcement
	Exhausted     bool
}

type DeleteResult struct {
	RestoreToken string
	ExpiresAt    time.Time
}

type tombstone struct {
	Name      string
	Drawn     []int
	CreatedAt time.Time
}

type GameService struct {
	gameRepo    game.Repository
	preferences *PreferenceService
	sink        announce.Sink
	random      random.Source
	idGen       idgen.Generator
	tombstones  *cache.Store
	voices      []string
	logger      *logging.Logger
	now         func() time.Time

	locks resilience.KeyedMutex
}

func NewGameService(
	gameRepo game.Repository,
	preferences *PreferenceService,
	sink announce.Sink,
	src random.Source,
	idGen idgen.Generator,
	cfg GameServiceConfig,
	logger *logging.Logger,
) *GameService {
	if logger == nil {
		logger = logging.Default()
	}
	if sink == nil {
		sink = announce.Discard
	}

	var tombstones *cache.Store
	if cfg.RestoreWindow > 0 {
		tombstones = cache.NewStore(cfg.RestoreWindow)
	}

	return &GameService{
		gameRepo:    gameRepo,
		preferences: preferences,
		sink:        sink,
		random:      src,
		idGen:       idGen,
		tombstones:  tombstones,
		voices:      append([]string(nil), cfg.Voices...),
		logger:      logger,
		now:         time.Now,
	}
}

func (s *GameService) Create(ctx context.Context, name string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Create")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return game.Game{}, fmt.Errorf("%w: game name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > game.MaxNameLength {
		return game.Game{}, fmt.Errorf("%w: game name must be at most %d characters", ErrInvalidInput, game.MaxNameLength)
	}

	now := s.now().UTC()
	item, err := s.insert(ctx, game.Game{
		Name:      name,
		Drawn:     []int{},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return game.Game{}, err
	}

	s.logger.InfoContext(ctx, "game created", "game_id", item.ID, "name", item.Name)

	return item, nil
}

func (s *GameService) Get(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Get")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	item, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("%w: get game: %w", ErrDependencyUnavailable, err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	return item, nil
}

// Open loads a game and rebuilds its engine from the stored history.
func (s *GameService) Open(ctx context.Context, gameID string) (*Session, error) {
	item, err := s.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}

	engine, err := game.NewEngine(item.Drawn, s.random)
	if err != nil {
		return nil, fmt.Errorf("open game %s: %w", item.ID, err)
	}

	return &Session{Game: item, Engine: engine}, nil
}

// List returns every game, newest first.
func (s *GameService) List(ctx context.Context) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.List")
	defer span.End()

	items, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list games: %w", ErrDependencyUnavailable, err)
	}

	slices.SortStableFunc(items, func(a, b game.Game) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return items, nil
}

// Draw takes count numbers from the game's pool. A count below one draws a
// single number. The new history is saved before anything is published. When
// the pool runs dry the numbers drawn so far are kept and the returned error
// wraps game.ErrGameComplete.
func (s *GameService) Draw(ctx context.Context, gameID string, count int) (DrawResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Draw")
	defer span.End()

	if count < 1 {
		count = 1
	}

	unlock := s.locks.Lock(strings.TrimSpace(gameID))
	defer unlock()

	session, err := s.Open(ctx, gameID)
	if err != nil {
		return DrawResult{}, err
	}

	numbers, drawErr := session.Engine.DrawMany(count)
	if drawErr != nil && !errors.Is(drawErr, game.ErrGameComplete) {
		return DrawResult{}, fmt.Errorf("draw numbers: %w", drawErr)
	}

	item := session.Game
	result := DrawResult{
		Game:          item,
		Numbers:       numbers,
		Announcements: []announce.Announcement{},
		Exhausted:     drawErr != nil,
	}
	if len(numbers) == 0 {
		return result, fmt.Errorf("%w: game=%s", game.ErrGameComplete, item.ID)
	}

	item.Drawn = session.Engine.Drawn()
	item.UpdatedAt = s.now().UTC()
	if err := s.gameRepo.UpdateDrawn(ctx, item.ID, item.Drawn); err != nil {
		s.logger.ErrorContext(ctx, "save drawn numbers failed", "game_id", item.ID, "error", err)
		return DrawResult{}, fmt.Errorf("%w: save drawn numbers: %w", ErrDependencyUnavailable, err)
	}
	result.Game = item

	sink, collected := s.sinkFor(ctx)
	firstSequence := len(item.Drawn) - len(numbers) + 1
	for i, n := range numbers {
		err := sink.Publish(ctx, announce.Draw{
			GameID:   item.ID,
			GameName: item.Name,
			Number:   n,
			Sequence: firstSequence + i,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "publish draw failed", "game_id", item.ID, "number", n, "error", err)
		}
	}
	result.Announcements = collected.announcements

	s.logger.InfoContext(ctx, "numbers drawn",
		"game_id", item.ID,
		"numbers", numbers,
		"remaining", session.Engine.RemainingCount(),
		"state", session.Engine.State(),
	)

	if result.Exhausted {
		return result, fmt.Errorf("%w: game=%s", game.ErrGameComplete, item.ID)
	}

	return result, nil
}

// Delete removes a game and keeps a snapshot that Restore can bring back
// until the restore window closes.
func (s *GameService) Delete(ctx context.Context, gameID string) (DeleteResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Delete")
	defer span.End()

	unlock := s.locks.Lock(strings.TrimSpace(gameID))
	defer unlock()

	item, err := s.Get(ctx, gameID)
	if err != nil {
		return DeleteResult{}, err
	}

	deleted, err := s.gameRepo.Delete(ctx, item.ID)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("%w: delete game: %w", ErrDependencyUnavailable, err)
	}
	if !deleted {
		return DeleteResult{}, fmt.Errorf("%w: game=%s", ErrNotFound, item.ID)
	}

	s.logger.InfoContext(ctx, "game deleted", "game_id", item.ID)

	if s.tombstones == nil {
		return DeleteResult{}, nil
	}

	token, err := s.idGen.NewID()
	if err != nil {
		return DeleteResult{}, fmt.Errorf("generate restore token: %w", err)
	}
	expiresAt := s.tombstones.Set(ctx, token, tombstone{
		Name:      item.Name,
		Drawn:     append([]int(nil), item.Drawn...),
		CreatedAt: item.CreatedAt,
	})

	return DeleteResult{RestoreToken: token, ExpiresAt: expiresAt}, nil
}

// Restore recreates a deleted game under a new id. Each token works once.
func (s *GameService) Restore(ctx context.Context, token string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Restore")
	defer span.End()

	token = strings.TrimSpace(token)
	if token == "" {
		return game.Game{}, fmt.Errorf("%w: restore token is required", ErrInvalidInput)
	}
	if s.tombstones == nil {
		return game.Game{}, fmt.Errorf("%w: restore token", ErrNotFound)
	}

	raw, ok := s.tombstones.Take(ctx, token)
	if !ok {
		return game.Game{}, fmt.Errorf("%w: restore token expired or already used", ErrNotFound)
	}
	snapshot, ok := raw.(tombstone)
	if !ok {
		return game.Game{}, fmt.Errorf("%w: restore token", ErrNotFound)
	}

	item, err := s.insert(ctx, game.Game{
		Name:      snapshot.Name,
		Drawn:     snapshot.Drawn,
		CreatedAt: snapshot.CreatedAt,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		s.tombstones.Set(ctx, token, snapshot)
		return game.Game{}, err
	}

	s.logger.InfoContext(ctx, "game restored", "game_id", item.ID, "drawn", len(item.Drawn))

	return item, nil
}

func (s *GameService) DeleteAll(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.DeleteAll")
	defer span.End()

	if err := s.gameRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("%w: delete all games: %w", ErrDependencyUnavailable, err)
	}

	s.logger.WarnContext(ctx, "all games deleted")

	return nil
}

func (s *GameService) insert(ctx context.Context, item game.Game) (game.Game, error) {
	gameID, err := s.idGen.NewID()
	if err != nil {
		return game.Game{}, fmt.Errorf("generate game id: %w", err)
	}
	item.ID = gameID

	if err := item.Validate(); err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.gameRepo.Create(ctx, item); err != nil {
		return game.Game{}, fmt.Errorf("%w: create game: %w", ErrDependencyUnavailable, err)
	}

	return item, nil
}

// sinkFor picks silent or narrated delivery from the stored preference.
// Announcements produced along the way are collected for the caller.
func (s *GameService) sinkFor(ctx context.Context) (announce.Sink, *collectingSink) {
	collected := &collectingSink{next: s.sink, announcements: []announce.Announcement{}}

	muted := false
	if s.preferences != nil {
		value, err := s.preferences.NarrationMuted(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "read narration preference failed, narrating", "error", err)
		} else {
			muted = value
		}
	}

	return announce.Select(muted, collected, s.voices, s.random), collected
}

type collectingSink struct {
	next          announce.Sink
	announcements []announce.Announcement
}

func (c *collectingSink) Publish(ctx context.Context, draw announce.Draw) error {
	if draw.Announcement != nil {
		c.announcements = append(c.announcements, *draw.Announcement)
	}
	return c.next.Publish(ctx, draw)
}
