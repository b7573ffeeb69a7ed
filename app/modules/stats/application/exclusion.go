package statsservice

import (
	"context"
	"fmt"
	"strings"

	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
	statsdomain "github.com/rankwatch/rankwatch/app/modules/stats/domain"
	statsdb "github.com/rankwatch/rankwatch/app/modules/stats/infrastructure/repositories"
)

// ExclusionSnapshot is the set of channel names captured once at the start
// of a cycle and reused for every channel in it. Passing the snapshot as a
// value keeps the exclusion basis fixed for the whole run instead of
// drifting as rows are written mid-cycle.
type ExclusionSnapshot map[string]struct{}

// Contains reports whether the display name belongs to a known channel.
// Matching is case-insensitive; stream display names are.
func (s ExclusionSnapshot) Contains(displayName string) bool {
	_, ok := s[strings.ToLower(displayName)]
	return ok
}

// SnapshotEligibleChannels captures the current channel-name set for use as
// a cycle-wide exclusion basis.
func (s *StatsService) SnapshotEligibleChannels(ctx context.Context) (ExclusionSnapshot, error) {
	names, err := s.repo.ChannelNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot channel names: %w", err)
	}

	snapshot := make(ExclusionSnapshot, len(names))
	for _, name := range names {
		snapshot[strings.ToLower(name)] = struct{}{}
	}
	return snapshot, nil
}

// resolveViewerRanks produces the qualifying viewer rank rows for a channel
// and window: the de-duplicated session viewers, minus the channel's own
// linked rank identity, minus viewers whose display name is itself a known
// channel.
func (s *StatsService) resolveViewerRanks(ctx context.Context, channel *statsdb.Channel, window statsdomain.Window, snapshot ExclusionSnapshot) ([]rankdb.ViewerRank, error) {
	viewerIDs, err := s.repo.DistinctViewerIDs(ctx, channel.ChannelID, window)
	if err != nil {
		return nil, err
	}

	filtered := viewerIDs[:0]
	for _, id := range viewerIDs {
		if channel.LinkedViewerID != "" && id == channel.LinkedViewerID {
			continue
		}
		filtered = append(filtered, id)
	}

	rows, err := s.rankRepo.GetViewerRanks(ctx, filtered)
	if err != nil {
		return nil, err
	}

	kept := rows[:0]
	for _, row := range rows {
		if snapshot.Contains(row.DisplayName) {
			continue
		}
		kept = append(kept, row)
	}
	return kept, nil
}
