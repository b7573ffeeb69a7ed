package statsqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/riverqueue/river"

	statsservice "github.com/rankwatch/rankwatch/app/modules/stats/application"
	statsdomain "github.com/rankwatch/rankwatch/app/modules/stats/domain"
	"github.com/rankwatch/rankwatch/internal/observability/attr"
)

// cycleWorker executes aggregation cycle jobs.
type cycleWorker struct {
	river.WorkerDefaults[AggregationCycleArgs]

	stats  statsservice.Service
	logger *slog.Logger
}

func (w *cycleWorker) Work(ctx context.Context, job *river.Job[AggregationCycleArgs]) error {
	asOf := time.Now().UTC()
	if job.Args.AsOfDate != "" {
		parsed, err := time.Parse(statsdomain.DateLayout, job.Args.AsOfDate)
		if err != nil {
			// A bad date will never parse on retry either.
			return river.JobCancel(fmt.Errorf("invalid as_of_date %q: %w", job.Args.AsOfDate, err))
		}
		// Noon keeps the override date on the requested side of the reset hour.
		asOf = parsed.Add(12 * time.Hour)
	}

	report, err := w.stats.RunCycle(ctx, asOf)
	if err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "Aggregation cycle job completed",
		attr.Int64("job_id", job.ID),
		attr.String("stat_date", report.StatDate),
		attr.Int("channels_processed", report.ChannelsProcessed),
		attr.Int("channels_failed", report.ChannelsFailed),
	)
	return nil
}
