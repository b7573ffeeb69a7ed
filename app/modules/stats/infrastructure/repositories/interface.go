package statsdb

import (
	"context"

	statsdomain "github.com/rankwatch/rankwatch/app/modules/stats/domain"
)

// Repository is the persistence contract for channels, viewer sessions and
// aggregated statistics.
type Repository interface {
	// GetChannel returns the channel row, or ErrChannelNotFound.
	GetChannel(ctx context.Context, channelID string) (*Channel, error)
	// ChannelIDsWithViewers enumerates every channel that has ever had a
	// recorded viewer session, in stable order.
	ChannelIDsWithViewers(ctx context.Context) ([]string, error)
	// ChannelNames returns the names of all registered channels; the batch
	// cycle snapshots this once per run as its exclusion basis.
	ChannelNames(ctx context.Context) ([]string, error)
	// DistinctViewerIDs returns the de-duplicated viewer identities seen on
	// the channel within the window, in stable order.
	DistinctViewerIDs(ctx context.Context, channelID string, window statsdomain.Window) ([]string, error)
	// UpsertChannelStats atomically replaces the stats row keyed by
	// (channel, scope, stat date).
	UpsertChannelStats(ctx context.Context, row *ChannelStats) error
	// GetChannelStats returns the stats row for a channel and window, or
	// ErrStatsNotFound.
	GetChannelStats(ctx context.Context, channelID string, window statsdomain.Window) (*ChannelStats, error)
}
