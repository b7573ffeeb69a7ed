package statsservice

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
	statsdomain "github.com/rankwatch/rankwatch/app/modules/stats/domain"
	statsdb "github.com/rankwatch/rankwatch/app/modules/stats/infrastructure/repositories"
)

// ------------------------
// Fake Stats Repository
// ------------------------

type FakeStatsRepo struct {
	mu       sync.Mutex
	upserted []*statsdb.ChannelStats

	GetChannelFunc            func(ctx context.Context, channelID string) (*statsdb.Channel, error)
	ChannelIDsWithViewersFunc func(ctx context.Context) ([]string, error)
	ChannelNamesFunc          func(ctx context.Context) ([]string, error)
	DistinctViewerIDsFunc     func(ctx context.Context, channelID string, window statsdomain.Window) ([]string, error)
	UpsertChannelStatsFunc    func(ctx context.Context, row *statsdb.ChannelStats) error
	GetChannelStatsFunc       func(ctx context.Context, channelID string, window statsdomain.Window) (*statsdb.ChannelStats, error)
}

func (f *FakeStatsRepo) GetChannel(ctx context.Context, channelID string) (*statsdb.Channel, error) {
	if f.GetChannelFunc != nil {
		return f.GetChannelFunc(ctx, channelID)
	}
	return &statsdb.Channel{ChannelID: channelID, ChannelName: channelID}, nil
}

func (f *FakeStatsRepo) ChannelIDsWithViewers(ctx context.Context) ([]string, error) {
	if f.ChannelIDsWithViewersFunc != nil {
		return f.ChannelIDsWithViewersFunc(ctx)
	}
	return nil, nil
}

func (f *FakeStatsRepo) ChannelNames(ctx context.Context) ([]string, error) {
	if f.ChannelNamesFunc != nil {
		return f.ChannelNamesFunc(ctx)
	}
	return nil, nil
}

func (f *FakeStatsRepo) DistinctViewerIDs(ctx context.Context, channelID string, window statsdomain.Window) ([]string, error) {
	if f.DistinctViewerIDsFunc != nil {
		return f.DistinctViewerIDsFunc(ctx, channelID, window)
	}
	return nil, nil
}

func (f *FakeStatsRepo) UpsertChannelStats(ctx context.Context, row *statsdb.ChannelStats) error {
	if f.UpsertChannelStatsFunc != nil {
		if err := f.UpsertChannelStatsFunc(ctx, row); err != nil {
			return err
		}
	}
	f.mu.Lock()
	f.upserted = append(f.upserted, row)
	f.mu.Unlock()
	return nil
}

func (f *FakeStatsRepo) GetChannelStats(ctx context.Context, channelID string, window statsdomain.Window) (*statsdb.ChannelStats, error) {
	if f.GetChannelStatsFunc != nil {
		return f.GetChannelStatsFunc(ctx, channelID, window)
	}
	return nil, statsdb.ErrStatsNotFound
}

// Upserted returns the rows written so far.
func (f *FakeStatsRepo) Upserted() []*statsdb.ChannelStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*statsdb.ChannelStats, len(f.upserted))
	copy(out, f.upserted)
	return out
}

// UpsertedFor filters written rows by channel and scope.
func (f *FakeStatsRepo) UpsertedFor(channelID string, scope statsdomain.Scope) []*statsdb.ChannelStats {
	var out []*statsdb.ChannelStats
	for _, row := range f.Upserted() {
		if row.ChannelID == channelID && row.Scope == string(scope) {
			out = append(out, row)
		}
	}
	return out
}

// ------------------------
// Fake Rank Repository
// ------------------------

type FakeRankRepo struct {
	rows map[string]rankdb.ViewerRank

	GetViewerRanksFunc func(ctx context.Context, viewerIDs []string) ([]rankdb.ViewerRank, error)
}

func NewFakeRankRepo(rows ...rankdb.ViewerRank) *FakeRankRepo {
	byID := make(map[string]rankdb.ViewerRank, len(rows))
	for _, row := range rows {
		byID[row.ViewerID] = row
	}
	return &FakeRankRepo{rows: byID}
}

func (f *FakeRankRepo) GetViewerRank(ctx context.Context, viewerID string) (*rankdb.ViewerRank, error) {
	row, ok := f.rows[viewerID]
	if !ok {
		return nil, rankdb.ErrViewerRankNotFound
	}
	return &row, nil
}

// GetViewerRanks returns rows in request order, mirroring the stable scan
// order the real repository guarantees.
func (f *FakeRankRepo) GetViewerRanks(ctx context.Context, viewerIDs []string) ([]rankdb.ViewerRank, error) {
	if f.GetViewerRanksFunc != nil {
		return f.GetViewerRanksFunc(ctx, viewerIDs)
	}
	var out []rankdb.ViewerRank
	for _, id := range viewerIDs {
		if row, ok := f.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *FakeRankRepo) UpsertCurrentRank(ctx context.Context, row *rankdb.ViewerRank) error {
	f.rows[row.ViewerID] = *row
	return nil
}

func (f *FakeRankRepo) UpdatePeak(ctx context.Context, viewerID string, peak rankdomain.Observation) error {
	row, ok := f.rows[viewerID]
	if !ok {
		return rankdb.ErrViewerRankNotFound
	}
	row.PeakTier = peak.Tier.String()
	row.PeakDivision = peak.Division.String()
	row.PeakPoints = peak.Points
	f.rows[viewerID] = row
	return nil
}

func (f *FakeRankRepo) SetShowPeak(ctx context.Context, viewerID string, showPeak bool) error {
	row, ok := f.rows[viewerID]
	if !ok {
		return rankdb.ErrViewerRankNotFound
	}
	row.ShowPeak = showPeak
	f.rows[viewerID] = row
	return nil
}

// ------------------------
// Fake Event Bus
// ------------------------

type FakeEventBus struct {
	mu     sync.Mutex
	topics []string
}

func (f *FakeEventBus) Publish(ctx context.Context, topic string, msg *message.Message) error {
	f.mu.Lock()
	f.topics = append(f.topics, topic)
	f.mu.Unlock()
	return nil
}

func (f *FakeEventBus) Topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.topics))
	copy(out, f.topics)
	return out
}

func (f *FakeEventBus) Subscriber() message.Subscriber { return nil }
func (f *FakeEventBus) Publisher() message.Publisher   { return nil }
func (f *FakeEventBus) Close() error                   { return nil }
