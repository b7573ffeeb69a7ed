package statsservice

import (
	"context"
	"fmt"
	"sync"
	"time"

	statsdomain "github.com/rankwatch/rankwatch/app/modules/stats/domain"
	statsevents "github.com/rankwatch/rankwatch/app/modules/stats/events"
	"github.com/rankwatch/rankwatch/internal/eventutil"
	"github.com/rankwatch/rankwatch/internal/observability/attr"
)

// CycleReport summarizes one aggregation cycle.
type CycleReport struct {
	StatDate          string
	ChannelsProcessed int
	ChannelsFailed    int
	Duration          time.Duration
}

// RunCycle aggregates every channel with recorded viewers, in groups of
// cfg.BatchGroupSize concurrent channels. A channel failure is tallied and
// logged but never stops the cycle; only failures before fan-out (loading
// the channel list or exclusion snapshot) abort it.
func (s *StatsService) RunCycle(ctx context.Context, asOf time.Time) (CycleReport, error) {
	ctx, span := s.tracer.Start(ctx, "RunCycle")
	defer span.End()

	s.metrics.RecordCycleAttempt(ctx)
	start := time.Now()

	statDate := s.clock.StatDate(asOf)
	day := statsdomain.Day(statDate)

	snapshot, err := s.SnapshotEligibleChannels(ctx)
	if err != nil {
		return CycleReport{}, fmt.Errorf("snapshot eligible channels: %w", err)
	}

	channelIDs, err := s.repo.ChannelIDsWithViewers(ctx)
	if err != nil {
		return CycleReport{}, fmt.Errorf("list channels: %w", err)
	}

	s.logger.InfoContext(ctx, "Starting aggregation cycle",
		attr.String("stat_date", statDate),
		attr.Int("channel_count", len(channelIDs)),
	)

	var (
		mu        sync.Mutex
		processed int
		failed    int
	)

	for groupStart := 0; groupStart < len(channelIDs); groupStart += s.cfg.BatchGroupSize {
		groupEnd := groupStart + s.cfg.BatchGroupSize
		if groupEnd > len(channelIDs) {
			groupEnd = len(channelIDs)
		}

		var wg sync.WaitGroup
		for _, channelID := range channelIDs[groupStart:groupEnd] {
			wg.Add(1)
			go func(channelID string) {
				defer wg.Done()
				if err := s.aggregateOne(ctx, channelID, day, snapshot); err != nil {
					s.metrics.RecordChannelFailed(ctx)
					s.logger.ErrorContext(ctx, "Channel aggregation failed",
						attr.String("channel_id", channelID),
						attr.Error(err),
					)
					mu.Lock()
					failed++
					mu.Unlock()
					return
				}
				s.metrics.RecordChannelProcessed(ctx)
				mu.Lock()
				processed++
				mu.Unlock()
			}(channelID)
		}
		wg.Wait()
	}

	report := CycleReport{
		StatDate:          statDate,
		ChannelsProcessed: processed,
		ChannelsFailed:    failed,
		Duration:          time.Since(start),
	}
	s.metrics.RecordCycleDuration(ctx, report.Duration)

	s.publishCycleCompleted(ctx, report)

	s.logger.InfoContext(ctx, "Aggregation cycle finished",
		attr.String("stat_date", report.StatDate),
		attr.Int("channels_processed", report.ChannelsProcessed),
		attr.Int("channels_failed", report.ChannelsFailed),
		attr.Duration("duration", report.Duration),
	)
	return report, nil
}

// aggregateOne wraps AggregateChannel with a panic guard so one misbehaving
// channel cannot take down the whole cycle goroutine group.
func (s *StatsService) aggregateOne(ctx context.Context, channelID string, day statsdomain.Window, snapshot ExclusionSnapshot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic aggregating channel %s: %v", channelID, r)
		}
	}()
	return s.AggregateChannel(ctx, channelID, day, snapshot)
}

// publishCycleCompleted emits the cycle summary event. Failures are logged
// and swallowed: the cycle's database work already committed.
func (s *StatsService) publishCycleCompleted(ctx context.Context, report CycleReport) {
	payload := statsevents.CycleCompletedPayload{
		StatDate:          report.StatDate,
		ChannelsProcessed: report.ChannelsProcessed,
		ChannelsFailed:    report.ChannelsFailed,
		DurationMillis:    report.Duration.Milliseconds(),
	}

	msg, err := eventutil.NewMessage(attr.CorrelationIDFromContext(ctx), payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build cycle completed event", attr.Error(err))
		return
	}
	if err := s.eventBus.Publish(ctx, statsevents.CycleCompleted, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish cycle completed event", attr.Error(err))
	}
}
