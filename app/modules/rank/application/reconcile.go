package rankservice

import (
	"context"
	"errors"

	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
	"github.com/rankwatch/rankwatch/internal/observability/attr"
)

// ReconcileHistory pulls the viewer's historical observations from the
// source, picks the best candidate and runs the default peak path with it.
//
// A failed or empty feed leaves the peak exactly as it was: unavailability
// is logged, never escalated, and never interpreted as a reset.
func (s *RankService) ReconcileHistory(ctx context.Context, viewerID string) (PeakUpdateResult, error) {
	return withTelemetry(s, ctx, "ReconcileHistory", viewerID, func(ctx context.Context) (PeakUpdateResult, error) {
		noOp := PeakUpdateResult{ViewerID: viewerID, Source: PeakUpdateNoOp}

		candidates, err := s.source.RankHistory(ctx, viewerID)
		if err != nil {
			s.logger.WarnContext(ctx, "Rank history feed unavailable, peak left unchanged",
				attr.String("viewer_id", viewerID),
				attr.Error(err),
			)
			return noOp, nil
		}

		best, ok := rankdomain.BestCandidate(candidates)
		if !ok {
			return noOp, nil
		}

		row, err := s.repo.GetViewerRank(ctx, viewerID)
		if err != nil {
			if errors.Is(err, rankdb.ErrViewerRankNotFound) {
				s.logger.WarnContext(ctx, "No rank row for reconciliation target",
					attr.String("viewer_id", viewerID),
				)
				return noOp, nil
			}
			return PeakUpdateResult{}, err
		}

		return s.applyPeakCandidate(ctx, row, best)
	})
}
