package statsservice

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
	statsdomain "github.com/rankwatch/rankwatch/app/modules/stats/domain"
	statsdb "github.com/rankwatch/rankwatch/app/modules/stats/infrastructure/repositories"
	"github.com/rankwatch/rankwatch/app/eventbus"
	"github.com/rankwatch/rankwatch/internal/observability/metrics"
)

// Config carries the aggregation knobs.
type Config struct {
	// BatchGroupSize is how many channels aggregate concurrently before the
	// next group starts.
	BatchGroupSize int
	// EligibilityMinimum is the qualifying-viewer count a channel needs to
	// appear on the public leaderboard.
	EligibilityMinimum int
	// ResetHourUTC anchors the daily stat window.
	ResetHourUTC int
	// ApexCutoffs feed the inverse score mapping for display ranks.
	ApexCutoffs rankdomain.ApexCutoffs
}

// StatsService implements the Service interface.
type StatsService struct {
	repo     statsdb.Repository
	rankRepo rankdb.Repository
	eventBus eventbus.EventBus
	logger   *slog.Logger
	metrics  metrics.StatsMetrics
	tracer   trace.Tracer

	clock statsdomain.Clock
	cfg   Config
}

// NewStatsService creates a new StatsService.
func NewStatsService(
	repo statsdb.Repository,
	rankRepo rankdb.Repository,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	statsMetrics metrics.StatsMetrics,
	tracer trace.Tracer,
	cfg Config,
) *StatsService {
	if cfg.BatchGroupSize <= 0 {
		cfg.BatchGroupSize = 50
	}
	if cfg.EligibilityMinimum <= 0 {
		cfg.EligibilityMinimum = 10
	}
	if cfg.ApexCutoffs == (rankdomain.ApexCutoffs{}) {
		cfg.ApexCutoffs = rankdomain.DefaultApexCutoffs()
	}

	return &StatsService{
		repo:     repo,
		rankRepo: rankRepo,
		eventBus: eventBus,
		logger:   logger,
		metrics:  statsMetrics,
		tracer:   tracer,
		clock:    statsdomain.NewClock(cfg.ResetHourUTC),
		cfg:      cfg,
	}
}

// GetChannelStats retrieves the stored stats row for a channel and window.
func (s *StatsService) GetChannelStats(ctx context.Context, channelID string, window statsdomain.Window) (*statsdb.ChannelStats, error) {
	return s.repo.GetChannelStats(ctx, channelID, window)
}

// StatDate exposes the canonical stat date for an instant.
func (s *StatsService) StatDate(now time.Time) string {
	return s.clock.StatDate(now)
}
