package rankservice

import (
	"context"
	"fmt"

	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
	rankevents "github.com/rankwatch/rankwatch/app/modules/rank/events"
	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
	"github.com/rankwatch/rankwatch/internal/eventutil"
	"github.com/rankwatch/rankwatch/internal/observability/attr"
)

// RecordRank stores a fresh current-rank observation for a viewer, runs the
// default peak path, and fires a reconciliation request for the history
// feed. The reconciliation publish never blocks or fails the primary write.
func (s *RankService) RecordRank(ctx context.Context, viewerID, displayName string, observation rankdomain.Observation) (PeakUpdateResult, error) {
	return withTelemetry(s, ctx, "RecordRank", viewerID, func(ctx context.Context) (PeakUpdateResult, error) {
		row := &rankdb.ViewerRank{
			ViewerID:        viewerID,
			DisplayName:     displayName,
			CurrentTier:     observation.Tier.String(),
			CurrentDivision: observation.Division.String(),
			CurrentPoints:   observation.Points,
		}
		if err := s.repo.UpsertCurrentRank(ctx, row); err != nil {
			return PeakUpdateResult{}, err
		}

		stored, err := s.repo.GetViewerRank(ctx, viewerID)
		if err != nil {
			return PeakUpdateResult{}, fmt.Errorf("failed to reload viewer after upsert: %w", err)
		}

		result, err := s.applyPeakCandidate(ctx, stored, observation)
		if err != nil {
			return PeakUpdateResult{}, err
		}

		s.publishRankUpdated(ctx, viewerID, displayName, observation)
		s.requestReconciliation(ctx, viewerID)

		return result, nil
	})
}

// RefreshFromSource pulls the viewer's live rank from the external source
// and records it. Source unavailability is not an unranked state; nothing
// is written in that case.
func (s *RankService) RefreshFromSource(ctx context.Context, viewerID, displayName string) (PeakUpdateResult, error) {
	return withTelemetry(s, ctx, "RefreshFromSource", viewerID, func(ctx context.Context) (PeakUpdateResult, error) {
		observation, err := s.source.CurrentRank(ctx, viewerID)
		if err != nil {
			return PeakUpdateResult{}, fmt.Errorf("current rank fetch failed: %w", err)
		}
		return s.RecordRank(ctx, viewerID, displayName, observation)
	})
}

func (s *RankService) publishRankUpdated(ctx context.Context, viewerID, displayName string, observation rankdomain.Observation) {
	msg, err := eventutil.NewMessage(attr.CorrelationIDFromContext(ctx), rankevents.RankUpdatedPayload{
		ViewerID:    viewerID,
		DisplayName: displayName,
		Tier:        observation.Tier.String(),
		Division:    observation.Division.String(),
		Points:      observation.Points,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build rank updated event",
			attr.String("viewer_id", viewerID),
			attr.Error(err),
		)
		return
	}

	if err := s.eventBus.Publish(ctx, rankevents.RankUpdated, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish rank updated event",
			attr.String("viewer_id", viewerID),
			attr.Error(err),
		)
	}
}

// requestReconciliation is fire-and-forget: a lost request only means the
// peak stays where it is until the next refresh.
func (s *RankService) requestReconciliation(ctx context.Context, viewerID string) {
	msg, err := eventutil.NewMessage(attr.CorrelationIDFromContext(ctx), rankevents.ReconcileRequestedPayload{
		ViewerID: viewerID,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build reconcile request",
			attr.String("viewer_id", viewerID),
			attr.Error(err),
		)
		return
	}

	if err := s.eventBus.Publish(ctx, rankevents.ReconcileRequested, msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish reconcile request, peak left to next refresh",
			attr.String("viewer_id", viewerID),
			attr.Error(err),
		)
	}
}
