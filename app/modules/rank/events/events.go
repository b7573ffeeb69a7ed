package rankevents

// Topics the rank module publishes and subscribes to.
const (
	// RankUpdated fires after a viewer's current rank row is written.
	RankUpdated = "rank.updated.v1"
	// ReconcileRequested asks the reconciliation path to re-check a
	// viewer's historical observations. Fired-and-forgotten by the
	// primary write path.
	ReconcileRequested = "rank.reconcile.requested.v1"
	// PeakUpdated fires after a viewer's peak record changes.
	PeakUpdated = "rank.peak.updated.v1"
)

// RankUpdatedPayload describes a fresh current-rank observation.
type RankUpdatedPayload struct {
	ViewerID    string `json:"viewer_id"`
	DisplayName string `json:"display_name"`
	Tier        string `json:"tier"`
	Division    string `json:"division,omitempty"`
	Points      int    `json:"points"`
}

// ReconcileRequestedPayload identifies the viewer to reconcile.
type ReconcileRequestedPayload struct {
	ViewerID string `json:"viewer_id"`
}

// PeakUpdatedPayload describes a peak record change and which update path
// produced it.
type PeakUpdatedPayload struct {
	ViewerID     string `json:"viewer_id"`
	Tier         string `json:"tier"`
	Division     string `json:"division,omitempty"`
	Points       int    `json:"points"`
	UpdateSource string `json:"update_source"`
}
