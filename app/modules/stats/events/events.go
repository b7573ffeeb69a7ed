package statsevents

// Topics the stats module publishes.
const (
	// CycleCompleted fires after an aggregation cycle finishes, whether or
	// not individual channels failed inside it.
	CycleCompleted = "stats.cycle.completed.v1"
)

// CycleCompletedPayload summarizes one aggregation cycle.
type CycleCompletedPayload struct {
	StatDate          string `json:"stat_date"`
	ChannelsProcessed int    `json:"channels_processed"`
	ChannelsFailed    int    `json:"channels_failed"`
	DurationMillis    int64  `json:"duration_millis"`
}
