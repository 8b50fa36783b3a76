package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/AdrianaLegalReis/cartola-warehouse/external/cartola"
	"github.com/AdrianaLegalReis/cartola-warehouse/external/notify"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/config"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/report"
	repocache "github.com/AdrianaLegalReis/cartola-warehouse/internal/infrastructure/repository/cache"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/infrastructure/repository/postgres"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/infrastructure/snapshot"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/interfaces/httpapi"
	basecache "github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/cache"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/logging"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/resilience"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/usecase"
)

// ConnectDB opens the warehouse database with OTel instrumentation and
// verifies the connection before returning it.
func ConnectDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// NewPipeline assembles the full ETL pipeline against the Cartola API, the
// warehouse database and the snapshot directory.
func NewPipeline(cfg config.Config, db *sqlx.DB, logger *logging.Logger) (*usecase.PipelineService, error) {
	if logger == nil {
		logger = logging.Default()
	}

	client := cartola.NewClient(cartola.ClientConfig{
		BaseURL:    cfg.CartolaBaseURL,
		Timeout:    cfg.CartolaTimeout,
		MaxRetries: cfg.CartolaMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CartolaCircuitEnabled,
			FailureThreshold: cfg.CartolaCircuitFailureCount,
			OpenTimeout:      cfg.CartolaCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CartolaCircuitHalfOpenMaxReq,
		},
	})

	snapshots, err := snapshot.NewStore(cfg.SnapshotDir)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	var notifier usecase.RunNotifier
	if cfg.WebhookEnabled {
		notifier = notify.NewWebhookPublisher(notify.WebhookPublisherConfig{
			URL:          cfg.WebhookURL,
			Token:        cfg.WebhookToken,
			Timeout:      cfg.WebhookTimeout,
			Retries:      cfg.WebhookRetries,
			CaptureBody:  cfg.UptraceCaptureRequestBody,
			BodyMaxBytes: cfg.UptraceRequestBodyMaxBytes,
			Logger:       logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WebhookCircuitEnabled,
				FailureThreshold: cfg.WebhookCircuitFailureCount,
				OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMaxReq,
			},
		})
	}

	return usecase.NewPipelineService(
		client,
		snapshots,
		postgres.NewRoundRepository(db),
		postgres.NewClubRepository(db),
		postgres.NewPositionRepository(db),
		postgres.NewMatchRepository(db),
		postgres.NewScoringRepository(db),
		notifier,
		nil,
		usecase.PipelineConfig{
			FirstRound: cfg.FirstRound,
			LastRound:  cfg.LastRound,
		},
		logger,
	), nil
}

// NewHTTPServer assembles the read-only report API over the warehouse.
func NewHTTPServer(cfg config.Config, db *sqlx.DB, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var reportRepo report.Repository = postgres.NewReportRepository(db)
	if cfg.CacheEnabled {
		reportRepo = repocache.NewReportRepository(reportRepo, basecache.NewStore(cfg.CacheTTL))
	}

	handler := httpapi.NewHandler(usecase.NewReportService(reportRepo), logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
