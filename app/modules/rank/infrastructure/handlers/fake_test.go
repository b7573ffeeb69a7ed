package rankhandlers

import (
	"context"

	rankservice "github.com/rankwatch/rankwatch/app/modules/rank/application"
	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
)

// ------------------------
// Fake Rank Service
// ------------------------

type FakeRankService struct {
	trace []string

	RecordRankFunc        func(ctx context.Context, viewerID, displayName string, observation rankdomain.Observation) (rankservice.PeakUpdateResult, error)
	RefreshFromSourceFunc func(ctx context.Context, viewerID, displayName string) (rankservice.PeakUpdateResult, error)
	OverridePeakFunc      func(ctx context.Context, viewerID string, peak rankdomain.Observation) (rankservice.PeakUpdateResult, error)
	ReconcileHistoryFunc  func(ctx context.Context, viewerID string) (rankservice.PeakUpdateResult, error)
	SetShowPeakFunc       func(ctx context.Context, viewerID string, showPeak bool) error
	GetViewerRankFunc     func(ctx context.Context, viewerID string) (*rankdb.ViewerRank, error)
}

func NewFakeRankService() *FakeRankService {
	return &FakeRankService{trace: []string{}}
}

func (f *FakeRankService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRankService) Trace() []string {
	return f.trace
}

func (f *FakeRankService) RecordRank(ctx context.Context, viewerID, displayName string, observation rankdomain.Observation) (rankservice.PeakUpdateResult, error) {
	f.record("RecordRank")
	if f.RecordRankFunc != nil {
		return f.RecordRankFunc(ctx, viewerID, displayName, observation)
	}
	return rankservice.PeakUpdateResult{}, nil
}

func (f *FakeRankService) RefreshFromSource(ctx context.Context, viewerID, displayName string) (rankservice.PeakUpdateResult, error) {
	f.record("RefreshFromSource")
	if f.RefreshFromSourceFunc != nil {
		return f.RefreshFromSourceFunc(ctx, viewerID, displayName)
	}
	return rankservice.PeakUpdateResult{}, nil
}

func (f *FakeRankService) OverridePeak(ctx context.Context, viewerID string, peak rankdomain.Observation) (rankservice.PeakUpdateResult, error) {
	f.record("OverridePeak")
	if f.OverridePeakFunc != nil {
		return f.OverridePeakFunc(ctx, viewerID, peak)
	}
	return rankservice.PeakUpdateResult{}, nil
}

func (f *FakeRankService) ReconcileHistory(ctx context.Context, viewerID string) (rankservice.PeakUpdateResult, error) {
	f.record("ReconcileHistory")
	if f.ReconcileHistoryFunc != nil {
		return f.ReconcileHistoryFunc(ctx, viewerID)
	}
	return rankservice.PeakUpdateResult{}, nil
}

func (f *FakeRankService) SetShowPeak(ctx context.Context, viewerID string, showPeak bool) error {
	f.record("SetShowPeak")
	if f.SetShowPeakFunc != nil {
		return f.SetShowPeakFunc(ctx, viewerID, showPeak)
	}
	return nil
}

func (f *FakeRankService) GetViewerRank(ctx context.Context, viewerID string) (*rankdb.ViewerRank, error) {
	f.record("GetViewerRank")
	if f.GetViewerRankFunc != nil {
		return f.GetViewerRankFunc(ctx, viewerID)
	}
	return &rankdb.ViewerRank{ViewerID: viewerID}, nil
}
