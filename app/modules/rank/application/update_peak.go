package rankservice

import (
	"context"

	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
	rankevents "github.com/rankwatch/rankwatch/app/modules/rank/events"
	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
	"github.com/rankwatch/rankwatch/internal/eventutil"
	"github.com/rankwatch/rankwatch/internal/observability/attr"
)

// PeakUpdateSource names which update path produced a result.
type PeakUpdateSource string

const (
	// PeakUpdateComparison means the default path found the candidate
	// strictly higher and replaced the stored peak.
	PeakUpdateComparison PeakUpdateSource = "rank_comparison"
	// PeakUpdateOverride means an authoritative peak was written
	// unconditionally.
	PeakUpdateOverride PeakUpdateSource = "explicit_override"
	// PeakUpdateNoOp means the stored peak was left untouched.
	PeakUpdateNoOp PeakUpdateSource = "no_op"
)

// PeakUpdateResult reports the outcome of a peak update attempt.
type PeakUpdateResult struct {
	ViewerID string
	Source   PeakUpdateSource
	// Peak is the peak on record after the operation.
	Peak rankdomain.Observation
}

// applyPeakCandidate runs the default peak path: the stored peak changes
// only when the candidate strictly outranks it, all previous peak fields
// survive otherwise.
func (s *RankService) applyPeakCandidate(ctx context.Context, row *rankdb.ViewerRank, candidate rankdomain.Observation) (PeakUpdateResult, error) {
	stored := row.PeakObservation()
	if !rankdomain.IsHigher(candidate, stored) {
		return PeakUpdateResult{ViewerID: row.ViewerID, Source: PeakUpdateNoOp, Peak: stored}, nil
	}

	if err := s.repo.UpdatePeak(ctx, row.ViewerID, candidate); err != nil {
		return PeakUpdateResult{}, err
	}

	s.metrics.RecordPeakUpdate(ctx, string(PeakUpdateComparison))
	s.publishPeakUpdated(ctx, row.ViewerID, candidate, PeakUpdateComparison)

	return PeakUpdateResult{ViewerID: row.ViewerID, Source: PeakUpdateComparison, Peak: candidate}, nil
}

// OverridePeak writes a caller-supplied authoritative peak unconditionally,
// bypassing the comparison path.
func (s *RankService) OverridePeak(ctx context.Context, viewerID string, peak rankdomain.Observation) (PeakUpdateResult, error) {
	return withTelemetry(s, ctx, "OverridePeak", viewerID, func(ctx context.Context) (PeakUpdateResult, error) {
		if err := s.repo.UpdatePeak(ctx, viewerID, peak); err != nil {
			return PeakUpdateResult{}, err
		}

		s.metrics.RecordPeakUpdate(ctx, string(PeakUpdateOverride))
		s.publishPeakUpdated(ctx, viewerID, peak, PeakUpdateOverride)

		return PeakUpdateResult{ViewerID: viewerID, Source: PeakUpdateOverride, Peak: peak}, nil
	})
}

// publishPeakUpdated emits the peak-changed event. Publish failures are
// logged and swallowed; the row is already durable.
func (s *RankService) publishPeakUpdated(ctx context.Context, viewerID string, peak rankdomain.Observation, source PeakUpdateSource) {
	msg, err := eventutil.NewMessage(attr.CorrelationIDFromContext(ctx), rankevents.PeakUpdatedPayload{
		ViewerID:     viewerID,
		Tier:         peak.Tier.String(),
		Division:     peak.Division.String(),
		Points:       peak.Points,
		UpdateSource: string(source),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build peak updated event",
			attr.String("viewer_id", viewerID),
			attr.Error(err),
		)
		return
	}

	if err := s.eventBus.Publish(ctx, rankevents.PeakUpdated, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish peak updated event",
			attr.String("viewer_id", viewerID),
			attr.Error(err),
		)
	}
}
