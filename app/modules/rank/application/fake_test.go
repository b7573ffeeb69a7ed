package rankservice

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
)

// ------------------------
// Fake Rank Repository
// ------------------------

type FakeRankRepo struct {
	trace []string

	GetViewerRankFunc     func(ctx context.Context, viewerID string) (*rankdb.ViewerRank, error)
	GetViewerRanksFunc    func(ctx context.Context, viewerIDs []string) ([]rankdb.ViewerRank, error)
	UpsertCurrentRankFunc func(ctx context.Context, row *rankdb.ViewerRank) error
	UpdatePeakFunc        func(ctx context.Context, viewerID string, peak rankdomain.Observation) error
	SetShowPeakFunc       func(ctx context.Context, viewerID string, showPeak bool) error
}

func NewFakeRankRepo() *FakeRankRepo {
	return &FakeRankRepo{trace: []string{}}
}

func (f *FakeRankRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRankRepo) Trace() []string {
	return f.trace
}

func (f *FakeRankRepo) GetViewerRank(ctx context.Context, viewerID string) (*rankdb.ViewerRank, error) {
	f.record("GetViewerRank")
	if f.GetViewerRankFunc != nil {
		return f.GetViewerRankFunc(ctx, viewerID)
	}
	return &rankdb.ViewerRank{ViewerID: viewerID}, nil
}

func (f *FakeRankRepo) GetViewerRanks(ctx context.Context, viewerIDs []string) ([]rankdb.ViewerRank, error) {
	f.record("GetViewerRanks")
	if f.GetViewerRanksFunc != nil {
		return f.GetViewerRanksFunc(ctx, viewerIDs)
	}
	return nil, nil
}

func (f *FakeRankRepo) UpsertCurrentRank(ctx context.Context, row *rankdb.ViewerRank) error {
	f.record("UpsertCurrentRank")
	if f.UpsertCurrentRankFunc != nil {
		return f.UpsertCurrentRankFunc(ctx, row)
	}
	return nil
}

func (f *FakeRankRepo) UpdatePeak(ctx context.Context, viewerID string, peak rankdomain.Observation) error {
	f.record("UpdatePeak")
	if f.UpdatePeakFunc != nil {
		return f.UpdatePeakFunc(ctx, viewerID, peak)
	}
	return nil
}

func (f *FakeRankRepo) SetShowPeak(ctx context.Context, viewerID string, showPeak bool) error {
	f.record("SetShowPeak")
	if f.SetShowPeakFunc != nil {
		return f.SetShowPeakFunc(ctx, viewerID, showPeak)
	}
	return nil
}

// ------------------------
// Fake Rank Source
// ------------------------

type FakeRankSource struct {
	CurrentRankFunc func(ctx context.Context, viewerID string) (rankdomain.Observation, error)
	RankHistoryFunc func(ctx context.Context, viewerID string) ([]rankdomain.Observation, error)
}

func (f *FakeRankSource) CurrentRank(ctx context.Context, viewerID string) (rankdomain.Observation, error) {
	if f.CurrentRankFunc != nil {
		return f.CurrentRankFunc(ctx, viewerID)
	}
	return rankdomain.Observation{}, nil
}

func (f *FakeRankSource) RankHistory(ctx context.Context, viewerID string) ([]rankdomain.Observation, error) {
	if f.RankHistoryFunc != nil {
		return f.RankHistoryFunc(ctx, viewerID)
	}
	return nil, nil
}

// ------------------------
// Fake Event Bus
// ------------------------

type publishedMessage struct {
	topic string
	msg   *message.Message
}

type FakeEventBus struct {
	mu        sync.Mutex
	published []publishedMessage

	PublishFunc func(ctx context.Context, topic string, msg *message.Message) error
}

func (f *FakeEventBus) Publish(ctx context.Context, topic string, msg *message.Message) error {
	f.mu.Lock()
	f.published = append(f.published, publishedMessage{topic: topic, msg: msg})
	f.mu.Unlock()
	if f.PublishFunc != nil {
		return f.PublishFunc(ctx, topic, msg)
	}
	return nil
}

func (f *FakeEventBus) Published() []publishedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]publishedMessage, len(f.published))
	copy(out, f.published)
	return out
}

func (f *FakeEventBus) Topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	topics := make([]string, len(f.published))
	for i, p := range f.published {
		topics[i] = p.topic
	}
	return topics
}

func (f *FakeEventBus) Subscriber() message.Subscriber { return nil }
func (f *FakeEventBus) Publisher() message.Publisher   { return nil }
func (f *FakeEventBus) Close() error                   { return nil }
