package statsservice

import (
	"context"
	"sort"

	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
	statsdomain "github.com/rankwatch/rankwatch/app/modules/stats/domain"
	statsdb "github.com/rankwatch/rankwatch/app/modules/stats/infrastructure/repositories"
	"github.com/rankwatch/rankwatch/internal/observability/attr"
)

// viewerScore is one scored viewer entry within a channel window.
type viewerScore struct {
	viewerID    string
	displayName string
	observation rankdomain.Observation
	score       float64
}

// AggregateChannel recomputes and upserts the all-time stats row for one
// channel, plus the daily row for the given day window. Both windows share
// one pass; the daily row records the all-time aggregate as trend context
// and is skipped entirely when the day sub-window saw no viewers.
func (s *StatsService) AggregateChannel(ctx context.Context, channelID string, day statsdomain.Window, snapshot ExclusionSnapshot) error {
	ctx, span := s.tracer.Start(ctx, "AggregateChannel")
	defer span.End()

	channel, err := s.repo.GetChannel(ctx, channelID)
	if err != nil {
		return err
	}

	allRows, err := s.resolveViewerRanks(ctx, channel, statsdomain.AllTime(), snapshot)
	if err != nil {
		return err
	}
	allScores := s.scoreViewers(allRows)

	allTime := s.buildStats(channelID, statsdomain.AllTime(), allScores)
	if err := s.repo.UpsertChannelStats(ctx, allTime); err != nil {
		return err
	}
	s.metrics.RecordStatsWritten(ctx, string(statsdomain.ScopeAllTime))

	dayRows, err := s.resolveViewerRanks(ctx, channel, day, snapshot)
	if err != nil {
		return err
	}
	dayScores := s.scoreViewers(dayRows)

	// No viewers inside the day sub-window means no daily row at all, even
	// when the all-time aggregate is non-empty.
	if len(dayScores) == 0 {
		s.logger.DebugContext(ctx, "No viewers in day window, skipping daily snapshot",
			attr.String("channel_id", channelID),
			attr.String("stat_date", day.Date),
		)
		return nil
	}

	daily := s.buildStats(channelID, day, dayScores)
	daily.AllTimeViewerCount = &allTime.ViewerCount
	daily.AllTimeMeanScore = allTime.MeanScore
	daily.AllTimeMedianScore = allTime.MedianScore

	if err := s.repo.UpsertChannelStats(ctx, daily); err != nil {
		return err
	}
	s.metrics.RecordStatsWritten(ctx, string(statsdomain.ScopeDaily))
	return nil
}

// scoreViewers converts rank rows to scored entries, honoring each viewer's
// show-peak preference. Rows whose effective observation is unparseable are
// dropped, not defaulted.
func (s *StatsService) scoreViewers(rows []rankdb.ViewerRank) []viewerScore {
	entries := make([]viewerScore, 0, len(rows))
	for _, row := range rows {
		observation := row.EffectiveObservation()
		if !observation.Valid() {
			continue
		}
		entries = append(entries, viewerScore{
			viewerID:    row.ViewerID,
			displayName: row.DisplayName,
			observation: observation,
			score:       rankdomain.Score(observation),
		})
	}
	return entries
}

// buildStats computes one fully-populated stats row. Zero entries produce
// the terminal zero-state row: known channel, no qualifying viewers.
func (s *StatsService) buildStats(channelID string, window statsdomain.Window, entries []viewerScore) *statsdb.ChannelStats {
	row := &statsdb.ChannelStats{
		ChannelID: channelID,
		Scope:     string(window.Scope),
		StatDate:  window.Date,
	}

	if len(entries) == 0 {
		return row
	}

	scores := make([]float64, len(entries))
	var sum float64
	for i, e := range entries {
		scores[i] = e.score
		sum += e.score
	}
	sort.Float64s(scores)

	mean := sum / float64(len(scores))
	median := medianOf(scores)

	meanRank := rankdomain.RankFromScore(mean, s.cfg.ApexCutoffs)
	medianRank := rankdomain.RankFromScore(median, s.cfg.ApexCutoffs)

	row.ViewerCount = len(entries)
	row.MeanScore = &mean
	row.MedianScore = &median
	row.MeanTier = meanRank.Tier.String()
	row.MeanDivision = meanRank.Division.String()
	row.MeanPoints = meanRank.Points
	row.MedianTier = medianRank.Tier.String()
	row.MedianDivision = medianRank.Division.String()
	row.MedianPoints = medianRank.Points
	row.Top10 = topEntries(entries, 10)
	row.Eligible = len(entries) >= s.cfg.EligibilityMinimum

	return row
}

// medianOf expects scores sorted ascending: the middle element for odd
// counts, the average of the two middle elements for even counts.
func medianOf(scores []float64) float64 {
	n := len(scores)
	if n%2 == 1 {
		return scores[n/2]
	}
	return (scores[n/2-1] + scores[n/2]) / 2
}

// topEntries returns up to limit entries by descending score. The sort is
// stable so ties keep scan order, which the repository already fixed.
func topEntries(entries []viewerScore, limit int) []statsdb.TopEntry {
	ranked := make([]viewerScore, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	top := make([]statsdb.TopEntry, len(ranked))
	for i, e := range ranked {
		top[i] = statsdb.TopEntry{
			DisplayName: e.displayName,
			Tier:        e.observation.Tier.String(),
			Division:    e.observation.Division.String(),
			Points:      e.observation.Points,
			Score:       e.score,
		}
	}
	return top
}
