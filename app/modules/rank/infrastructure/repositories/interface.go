package rankdb

import (
	"context"

	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
)

// Repository is the persistence contract for viewer rank rows.
type Repository interface {
	// GetViewerRank returns the row for a viewer, or ErrViewerRankNotFound.
	GetViewerRank(ctx context.Context, viewerID string) (*ViewerRank, error)
	// GetViewerRanks returns rows for the given viewers; missing viewers
	// are simply absent from the result.
	GetViewerRanks(ctx context.Context, viewerIDs []string) ([]ViewerRank, error)
	// UpsertCurrentRank writes the current-rank columns atomically,
	// inserting the row when the viewer is new.
	UpsertCurrentRank(ctx context.Context, row *ViewerRank) error
	// UpdatePeak replaces the peak columns for a viewer.
	UpdatePeak(ctx context.Context, viewerID string, peak rankdomain.Observation) error
	// SetShowPeak stores the viewer's display preference.
	SetShowPeak(ctx context.Context, viewerID string, showPeak bool) error
}
