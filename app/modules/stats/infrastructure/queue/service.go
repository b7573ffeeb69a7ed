package statsqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	statsservice "github.com/rankwatch/rankwatch/app/modules/stats/application"
	"github.com/rankwatch/rankwatch/internal/observability/attr"
)

// QueueService schedules and runs aggregation cycle jobs.
type QueueService interface {
	EnqueueManualCycle(ctx context.Context, asOfDate string) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service runs the periodic aggregation cycle on River.
type Service struct {
	client *river.Client[pgx.Tx]
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewService creates a River-backed queue service. River requires pgx, not
// database/sql, so it owns its own pool against the same DSN bun uses.
func NewService(ctx context.Context, dsn string, interval time.Duration, stats statsservice.Service, logger *slog.Logger) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("component", "river_queue"),
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &cycleWorker{stats: stats, logger: ctxLogger})

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			// Cycles must not overlap; one worker is the concurrency limit.
			river.QueueDefault: {MaxWorkers: 1},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(interval),
				func() (river.JobArgs, *river.InsertOpts) {
					return AggregationCycleArgs{}, nil
				},
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		},
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	ctxLogger.InfoContext(ctx, "Stats queue service initialized",
		attr.Duration("cycle_interval", interval),
	)

	return &Service{
		client: riverClient,
		pool:   pool,
		logger: ctxLogger,
	}, nil
}

// Start starts the River client and with it the periodic cycle.
func (s *Service) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.logger.InfoContext(ctx, "Stats queue service started")
	return nil
}

// Stop drains in-flight jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.pool.Close()
	s.logger.InfoContext(ctx, "Stats queue service stopped")
	return nil
}

// EnqueueManualCycle inserts an immediate cycle job, for backfills and
// operator-triggered recomputes. ByArgs uniqueness collapses duplicate
// requests for the same date while one is still pending.
func (s *Service) EnqueueManualCycle(ctx context.Context, asOfDate string) error {
	result, err := s.client.Insert(ctx, AggregationCycleArgs{AsOfDate: asOfDate}, &river.InsertOpts{
		UniqueOpts: river.UniqueOpts{ByArgs: true},
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue aggregation cycle: %w", err)
	}

	s.logger.InfoContext(ctx, "Manual aggregation cycle enqueued",
		attr.String("as_of_date", asOfDate),
		attr.Int64("job_id", result.Job.ID),
	)
	return nil
}
