package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/rankwatch/rankwatch/api"
	"github.com/rankwatch/rankwatch/app/eventbus"
	"github.com/rankwatch/rankwatch/app/modules/rank"
	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
	"github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/ranksource"
	"github.com/rankwatch/rankwatch/app/modules/stats"
	statsdb "github.com/rankwatch/rankwatch/app/modules/stats/infrastructure/repositories"
	"github.com/rankwatch/rankwatch/config"
	"github.com/rankwatch/rankwatch/internal/observability"
	"github.com/rankwatch/rankwatch/internal/observability/attr"
)

// App wires the modules together.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	RankModule    *rank.Module
	StatsModule   *stats.Module

	httpServer *http.Server
}

// NewApp builds the full application from configuration.
func NewApp(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	logger := obs.Logger

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	bus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create watermill router: %w", err)
	}
	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	rankRepo := &rankdb.RankDBImpl{DB: db}
	statsRepo := &statsdb.StatsDBImpl{DB: db}

	source := ranksource.NewHTTPClient(
		cfg.RankSource.BaseURL,
		cfg.RankSource.APIKey,
		cfg.RankSource.RequestsPerSecond,
		cfg.RankSource.Burst,
		logger,
	)

	rankModule, err := rank.NewRankModule(ctx, obs, rankRepo, source, bus, router)
	if err != nil {
		return nil, fmt.Errorf("failed to create rank module: %w", err)
	}

	statsModule, err := stats.NewStatsModule(ctx, obs, statsRepo, rankRepo, bus, stats.Config{
		PostgresDSN:        cfg.Postgres.DSN,
		CycleInterval:      cfg.Stats.CycleInterval,
		BatchGroupSize:     cfg.Stats.BatchGroupSize,
		EligibilityMinimum: cfg.Stats.EligibilityMinimum,
		ResetHourUTC:       cfg.Stats.ResetHourUTC,
		ApexCutoffs: rankdomain.ApexCutoffs{
			Grandmaster: cfg.Stats.ApexCutoffs.Grandmaster,
			Challenger:  cfg.Stats.ApexCutoffs.Challenger,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create stats module: %w", err)
	}

	handlers := api.NewHandlers(rankModule.RankService, statsModule.StatsService, statsModule.Queue, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           api.NewRouter(handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		Config:        cfg,
		Observability: obs,
		DB:            db,
		EventBus:      bus,
		Router:        router,
		RankModule:    rankModule,
		StatsModule:   statsModule,
		httpServer:    httpServer,
	}, nil
}

// Run starts the router, modules, and HTTP server, then blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	logger := a.Observability.Logger

	var wg sync.WaitGroup

	wg.Add(1)
	go a.RankModule.Run(ctx, &wg)

	wg.Add(1)
	go a.StatsModule.Run(ctx, &wg)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.Router.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorContext(ctx, "Watermill router stopped", attr.Error(err))
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.InfoContext(ctx, "HTTP server listening", attr.String("address", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "HTTP server stopped", attr.Error(err))
		}
	}()

	if addr := a.Config.Observability.MetricsAddress; addr != "" {
		a.Observability.ServeMetrics(addr)
	}

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", attr.Error(err))
	}

	wg.Wait()
	return nil
}

// Close releases every resource in reverse dependency order.
func (a *App) Close() error {
	var errs []error

	if err := a.StatsModule.Close(); err != nil {
		errs = append(errs, fmt.Errorf("stats module: %w", err))
	}
	if err := a.RankModule.Close(); err != nil {
		errs = append(errs, fmt.Errorf("rank module: %w", err))
	}
	if err := a.EventBus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("event bus: %w", err))
	}
	if err := a.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Observability.Close(closeCtx); err != nil {
		errs = append(errs, fmt.Errorf("observability: %w", err))
	}

	return errors.Join(errs...)
}
