package rankdb

import (
	"time"

	"github.com/uptrace/bun"

	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
)

// ViewerRank is the durable per-viewer rank row: the latest observation,
// the lifetime peak, and the display preference choosing between them.
// Keyed by the stable viewer identity, not the mutable display name.
type ViewerRank struct {
	bun.BaseModel `bun:"table:viewer_ranks,alias:vr"`

	ViewerID    string `bun:"viewer_id,pk"`
	DisplayName string `bun:"display_name,notnull"`

	CurrentTier     string `bun:"current_tier"`
	CurrentDivision string `bun:"current_division"`
	CurrentPoints   int    `bun:"current_points"`

	PeakTier     string `bun:"peak_tier"`
	PeakDivision string `bun:"peak_division"`
	PeakPoints   int    `bun:"peak_points"`

	ShowPeak bool `bun:"show_peak,notnull,default:false"`

	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// CurrentObservation converts the current-rank columns to a domain
// observation. Unparseable tiers come back invalid, never as an error.
func (vr *ViewerRank) CurrentObservation() rankdomain.Observation {
	return rankdomain.Observation{
		Tier:     rankdomain.ParseTier(vr.CurrentTier),
		Division: rankdomain.ParseDivision(vr.CurrentDivision),
		Points:   vr.CurrentPoints,
	}
}

// PeakObservation converts the peak columns to a domain observation.
func (vr *ViewerRank) PeakObservation() rankdomain.Observation {
	return rankdomain.Observation{
		Tier:     rankdomain.ParseTier(vr.PeakTier),
		Division: rankdomain.ParseDivision(vr.PeakDivision),
		Points:   vr.PeakPoints,
	}
}

// EffectiveObservation is the observation aggregation should use for this
// viewer, honoring the show-peak preference.
func (vr *ViewerRank) EffectiveObservation() rankdomain.Observation {
	return rankdomain.Effective(vr.ShowPeak, vr.PeakObservation(), vr.CurrentObservation())
}
