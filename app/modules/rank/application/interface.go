package rankservice

import (
	"context"

	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
)

// Service is the rank module's application surface.
type Service interface {
	// RecordRank stores a fresh current-rank observation, runs the default
	// peak path, and kicks off asynchronous history reconciliation.
	RecordRank(ctx context.Context, viewerID, displayName string, observation rankdomain.Observation) (PeakUpdateResult, error)
	// RefreshFromSource pulls the viewer's live rank from the external
	// source and records it.
	RefreshFromSource(ctx context.Context, viewerID, displayName string) (PeakUpdateResult, error)
	// OverridePeak writes a caller-supplied authoritative peak
	// unconditionally.
	OverridePeak(ctx context.Context, viewerID string, peak rankdomain.Observation) (PeakUpdateResult, error)
	// ReconcileHistory re-checks the viewer's historical observations and
	// raises the stored peak when a higher one is found.
	ReconcileHistory(ctx context.Context, viewerID string) (PeakUpdateResult, error)
	// SetShowPeak stores the viewer's display preference.
	SetShowPeak(ctx context.Context, viewerID string, showPeak bool) error
	// GetViewerRank retrieves the stored rank row for a viewer.
	GetViewerRank(ctx context.Context, viewerID string) (*rankdb.ViewerRank, error)
}

var _ Service = (*RankService)(nil)
