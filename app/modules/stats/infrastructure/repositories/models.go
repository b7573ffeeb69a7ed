package statsdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Channel is a registered streaming channel. LinkedViewerID is the
// streamer's own rank identity, used for self-exclusion.
type Channel struct {
	bun.BaseModel `bun:"table:channels,alias:ch"`

	ChannelID      string    `bun:"channel_id,pk"`
	ChannelName    string    `bun:"channel_name,notnull"`
	LinkedViewerID string    `bun:"linked_viewer_id"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// ViewerSession is one de-duplicated, pre-qualified viewer attribution for
// a (channel, stat day). Written upstream by the session tracker; this
// module only reads it.
type ViewerSession struct {
	bun.BaseModel `bun:"table:viewer_sessions,alias:vs"`

	ID        int64  `bun:"id,pk,autoincrement"`
	ChannelID string `bun:"channel_id,notnull"`
	ViewerID  string `bun:"viewer_id,notnull"`
	StatDate  string `bun:"stat_date,notnull"`
}

// TopEntry is one leaderboard slot in a stats row's top-10 list.
type TopEntry struct {
	DisplayName string  `json:"display_name"`
	Tier        string  `json:"tier"`
	Division    string  `json:"division,omitempty"`
	Points      int     `json:"points"`
	Score       float64 `json:"score"`
}

// ChannelStats is one fully-recomputed statistics row for a channel and
// window. Rows are always replaced whole, never patched, so readers only
// ever see a consistent aggregate.
//
// Aggregate columns are pointers: nil marks the zero-state row for a known
// channel with no qualifying viewers.
type ChannelStats struct {
	bun.BaseModel `bun:"table:channel_stats,alias:cs"`

	ID        int64  `bun:"id,pk,autoincrement"`
	ChannelID string `bun:"channel_id,notnull"`
	Scope     string `bun:"scope,notnull"`
	// StatDate is empty for the all-time window.
	StatDate string `bun:"stat_date,notnull,default:''"`

	ViewerCount int      `bun:"viewer_count,notnull"`
	MeanScore   *float64 `bun:"mean_score"`
	MedianScore *float64 `bun:"median_score"`

	MeanTier       string `bun:"mean_tier"`
	MeanDivision   string `bun:"mean_division"`
	MeanPoints     int    `bun:"mean_points"`
	MedianTier     string `bun:"median_tier"`
	MedianDivision string `bun:"median_division"`
	MedianPoints   int    `bun:"median_points"`

	Top10    []TopEntry `bun:"top10,type:jsonb"`
	Eligible bool       `bun:"eligible,notnull"`

	// Daily rows carry the all-time aggregate of the same run as trend
	// context; nil on all-time rows.
	AllTimeViewerCount *int     `bun:"all_time_viewer_count"`
	AllTimeMeanScore   *float64 `bun:"all_time_mean_score"`
	AllTimeMedianScore *float64 `bun:"all_time_median_score"`

	ComputedAt time.Time `bun:"computed_at,nullzero,notnull,default:current_timestamp"`
}
