package statsqueue

// AggregationCycleArgs is the job payload for one aggregation cycle. AsOfDate
// is a YYYY-MM-DD override for manual backfills; empty means "now".
type AggregationCycleArgs struct {
	AsOfDate string `json:"as_of_date,omitempty"`
}

// Kind returns the job type identifier for River.
func (AggregationCycleArgs) Kind() string { return "stats_aggregation_cycle" }
