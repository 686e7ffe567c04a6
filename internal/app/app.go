package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/housie/internal/config"
	"github.com/riskibarqy/housie/internal/domain/game"
	"github.com/riskibarqy/housie/internal/domain/preference"
	"github.com/riskibarqy/housie/internal/infrastructure/broadcast"
	cacherepo "github.com/riskibarqy/housie/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/housie/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/housie/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/housie/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/housie/internal/platform/cache"
	idgen "github.com/riskibarqy/housie/internal/platform/id"
	"github.com/riskibarqy/housie/internal/platform/logging"
	"github.com/riskibarqy/housie/internal/platform/random"
	"github.com/riskibarqy/housie/internal/usecase"
)

const dbPingTimeout = 5 * time.Second

type repositories struct {
	games       game.Repository
	preferences preference.Repository
	close       func() error
}

// NewHTTPServer wires storage, services and the router. The returned cleanup
// closes the live feed and the database handle.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, err := newRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	src := random.NewSource()
	hub := broadcast.NewHub(broadcast.DefaultBuffer, logger.Named("broadcast"))

	preferenceSvc := usecase.NewPreferenceService(repos.preferences, logger.Named("usecase.preference"))
	gameSvc := usecase.NewGameService(
		repos.games,
		preferenceSvc,
		hub,
		src,
		idgen.NewUUIDGenerator(),
		usecase.GameServiceConfig{
			RestoreWindow: cfg.GameRestoreWindow,
			Voices:        cfg.NarrationVoices,
		},
		logger.Named("usecase.game"),
	)
	ticketSvc := usecase.NewTicketService(src, usecase.TicketServiceConfig{
		BatchMax: cfg.TicketBatchMax,
		Workers:  cfg.TicketWorkers,
	}, logger.Named("usecase.ticket"))

	handler := httpapi.NewHandler(gameSvc, ticketSvc, preferenceSvc, hub, httpapi.HandlerConfig{
		DrawCooldown:       cfg.DrawCooldown,
		FeedWriteTimeout:   cfg.FeedWriteTimeout,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}, logger.Named("httpapi"))
	router := httpapi.NewRouter(handler, logger.Named("httpapi"), cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	cleanup := func() error {
		hub.Close()
		return repos.close()
	}

	return server, cleanup, nil
}

func newRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	var repos repositories

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openPostgres(cfg)
		if err != nil {
			return repositories{}, err
		}
		repos = repositories{
			games:       postgres.NewGameRepository(db),
			preferences: postgres.NewPreferenceRepository(db),
			close:       db.Close,
		}
		logger.Info("storage ready", "driver", cfg.StorageDriver, "db_name", dbNameFromURL(cfg.DBURL))
	default:
		repos = repositories{
			games:       memory.NewGameRepository(nil),
			preferences: memory.NewPreferenceRepository(),
			close:       func() error { return nil },
		}
		logger.Info("storage ready", "driver", config.StorageMemory)
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.games = cacherepo.NewGameRepository(repos.games, store)
		repos.preferences = cacherepo.NewPreferenceRepository(repos.preferences, store)
		logger.Info("repository cache enabled", "ttl", store.TTL().String())
	}

	return repos, nil
}

func openPostgres(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres",
		normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "open postgres")
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, crerr.Wrapf(err, "ping postgres %s", dbNameFromURL(cfg.DBURL))
	}

	return db, nil
}
