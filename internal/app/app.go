package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/trackmetrics/pitchsync/internal/config"
	"github.com/trackmetrics/pitchsync/internal/domain/event"
	"github.com/trackmetrics/pitchsync/internal/domain/feature"
	"github.com/trackmetrics/pitchsync/internal/domain/match"
	"github.com/trackmetrics/pitchsync/internal/domain/rawdata"
	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
	"github.com/trackmetrics/pitchsync/internal/infrastructure/repository/memory"
	"github.com/trackmetrics/pitchsync/internal/infrastructure/repository/postgres"
	"github.com/trackmetrics/pitchsync/internal/interfaces/httpapi"
	"github.com/trackmetrics/pitchsync/internal/platform/cache"
	"github.com/trackmetrics/pitchsync/internal/platform/logging"
	"github.com/trackmetrics/pitchsync/internal/platform/resilience"
	"github.com/trackmetrics/pitchsync/internal/provider/metrica"
	"github.com/trackmetrics/pitchsync/internal/usecase"
)

// StorageMemory selects the seeded in-memory repositories instead of
// Postgres: set DB_URL=memory.
const StorageMemory = "memory"

type repositories struct {
	match    match.Repository
	event    event.Repository
	tracking tracking.Repository
	feature  feature.Repository
	raw      rawdata.Repository
}

// NewHTTPServer wires the full service and returns it together with a
// cleanup func releasing the worker pool and the database handle.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, db, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	} else {
		cacheStore = cache.NewDisabledStore()
	}

	provider := metrica.NewClient(metrica.ClientConfig{
		BaseURL:    cfg.MetricaBaseURL,
		Timeout:    cfg.MetricaTimeout,
		MaxRetries: cfg.MetricaMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.MetricaCircuitEnabled,
			FailureThreshold: cfg.MetricaCircuitFailureCount,
			OpenTimeout:      cfg.MetricaCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.MetricaCircuitHalfOpenMax,
		},
	})

	matchSvc := usecase.NewMatchService(provider, repos.match, repos.event, repos.tracking, repos.raw, cacheStore, logger)
	syncSvc, err := usecase.NewSyncService(repos.match, repos.event, repos.tracking, cacheStore, logger, usecase.SyncConfig{
		Window:     cfg.SyncWindow,
		TimeWeight: cfg.SyncTimeWeight,
		DistWeight: cfg.SyncDistWeight,
		GapPenalty: cfg.SyncGapPenalty,
		MaxWorkers: cfg.SyncMaxWorkers,
	})
	if err != nil {
		closeDB(db, logger)
		return nil, nil, fmt.Errorf("build sync service: %w", err)
	}

	kinematicsSvc := usecase.NewKinematicsService(repos.match, repos.tracking, repos.feature, cacheStore, logger, usecase.KinematicsConfig{
		SmoothingWindow: cfg.SmoothingWindow,
		MaxSpeedMS:      cfg.MaxPlayerSpeedMS,
	})
	pressureSvc := usecase.NewPressureService(repos.match, repos.event, repos.tracking, repos.feature, cacheStore, logger, usecase.PressureConfig{
		MaxAheadM:  cfg.PressureMaxAhead,
		MaxBehindM: cfg.PressureMaxBehind,
	})
	possessionSvc := usecase.NewPossessionService(repos.match, repos.event, repos.tracking, repos.feature, cacheStore, logger, usecase.PossessionConfig{
		MinDuration: cfg.MinPossessionSpan,
	})
	threatSvc := usecase.NewThreatService(repos.match, repos.event, repos.feature, cacheStore, logger)
	pipeline := usecase.NewFeaturePipeline(kinematicsSvc, pressureSvc, possessionSvc, threatSvc, logger)

	var readiness httpapi.ReadinessPinger
	if db != nil {
		readiness = db
	}

	handler := httpapi.NewHandler(matchSvc, syncSvc, pipeline, kinematicsSvc, pressureSvc, possessionSvc, threatSvc, readiness, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		syncSvc.Close()
		closeDB(db, logger)
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func() {
		syncSvc.Close()
		closeDB(db, logger)
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if strings.EqualFold(strings.TrimSpace(cfg.DBURL), StorageMemory) {
		logger.Info("storage mode", "mode", "memory")
		return seededMemoryRepositories()
	}

	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect database: %w", err)
	}
	logger.Info("storage mode", "mode", "postgres", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
		match:    postgres.NewMatchRepository(db),
		event:    postgres.NewEventRepository(db),
		tracking: postgres.NewTrackingRepository(db),
		feature:  postgres.NewFeatureRepository(db),
		raw:      postgres.NewRawDataRepository(db),
	}, db, nil
}

func seededMemoryRepositories() (repositories, *sqlx.DB, error) {
	eventRepo := memory.NewEventRepository()
	trackingRepo := memory.NewTrackingRepository()

	ctx := context.Background()
	if err := eventRepo.ReplaceByMatch(ctx, memory.MatchIDDemo, memory.SeedEvents()); err != nil {
		return repositories{}, nil, fmt.Errorf("seed events: %w", err)
	}
	if err := trackingRepo.ReplaceByMatch(ctx, memory.MatchIDDemo, memory.SeedFrames()); err != nil {
		return repositories{}, nil, fmt.Errorf("seed frames: %w", err)
	}

	return repositories{
		match:    memory.NewMatchRepository(memory.SeedMatches()),
		event:    eventRepo,
		tracking: trackingRepo,
		feature:  memory.NewFeatureRepository(),
		raw:      memory.NewRawDataRepository(),
	}, nil, nil
}

func closeDB(db *sqlx.DB, logger *logging.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Warn("close database", "error", err)
	}
}
