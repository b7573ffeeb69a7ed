package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rankwatch/rankwatch/app/eventbus"
	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
	statsservice "github.com/rankwatch/rankwatch/app/modules/stats/application"
	statsqueue "github.com/rankwatch/rankwatch/app/modules/stats/infrastructure/queue"
	statsdb "github.com/rankwatch/rankwatch/app/modules/stats/infrastructure/repositories"
	"github.com/rankwatch/rankwatch/internal/observability"
	"github.com/rankwatch/rankwatch/internal/observability/metrics"
)

// Config carries the stats module's wiring knobs.
type Config struct {
	PostgresDSN        string
	CycleInterval      time.Duration
	BatchGroupSize     int
	EligibilityMinimum int
	ResetHourUTC       int
	ApexCutoffs        rankdomain.ApexCutoffs
}

// Module bundles the stats service with its River-backed cycle scheduler.
type Module struct {
	StatsService statsservice.Service
	Queue        statsqueue.QueueService
	logger       *slog.Logger
	cancelFunc   context.CancelFunc
}

// NewStatsModule creates the stats module and its queue service. The queue
// is created but not started; Run starts it so cycles only fire once the
// whole app is wired.
func NewStatsModule(
	ctx context.Context,
	obs *observability.Observability,
	repo statsdb.Repository,
	rankRepo rankdb.Repository,
	eventBus eventbus.EventBus,
	cfg Config,
) (*Module, error) {
	logger := obs.Logger
	statsMetrics := metrics.NewStatsMetrics(obs.Registry)

	service := statsservice.NewStatsService(repo, rankRepo, eventBus, logger, statsMetrics, obs.Tracer, statsservice.Config{
		BatchGroupSize:     cfg.BatchGroupSize,
		EligibilityMinimum: cfg.EligibilityMinimum,
		ResetHourUTC:       cfg.ResetHourUTC,
		ApexCutoffs:        cfg.ApexCutoffs,
	})

	interval := cfg.CycleInterval
	if interval <= 0 {
		interval = time.Hour
	}

	queue, err := statsqueue.NewService(ctx, cfg.PostgresDSN, interval, service, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create stats queue service: %w", err)
	}

	return &Module{
		StatsService: service,
		Queue:        queue,
		logger:       logger,
	}, nil
}

// Run starts the cycle scheduler and keeps the module alive until the
// context is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting stats module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.Queue.Start(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Failed to start stats queue service", "error", err)
		return
	}

	<-ctx.Done()
	m.logger.Info("Stats module stopped")
}

// Close stops the cycle scheduler.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	return m.Queue.Stop(stopCtx)
}
