package statsservice

import (
	"context"
	"time"

	statsdomain "github.com/rankwatch/rankwatch/app/modules/stats/domain"
	statsdb "github.com/rankwatch/rankwatch/app/modules/stats/infrastructure/repositories"
)

// Service defines the interface for channel statistics operations.
type Service interface {
	RunCycle(ctx context.Context, asOf time.Time) (CycleReport, error)
	AggregateChannel(ctx context.Context, channelID string, day statsdomain.Window, snapshot ExclusionSnapshot) error
	GetChannelStats(ctx context.Context, channelID string, window statsdomain.Window) (*statsdb.ChannelStats, error)
	StatDate(now time.Time) string
}

var _ Service = (*StatsService)(nil)
