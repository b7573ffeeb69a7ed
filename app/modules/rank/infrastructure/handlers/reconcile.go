package rankhandlers

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	rankevents "github.com/rankwatch/rankwatch/app/modules/rank/events"
	"github.com/rankwatch/rankwatch/internal/eventutil"
	"github.com/rankwatch/rankwatch/internal/observability/attr"
)

// HandleReconcileRequested runs the history reconciliation path for one
// viewer. Feed unavailability is handled inside the service; only malformed
// payloads and persistence errors surface here.
func (h *RankHandlers) HandleReconcileRequested(msg *message.Message) error {
	correlationID, payload, err := eventutil.UnmarshalPayload[rankevents.ReconcileRequestedPayload](msg, h.logger)
	if err != nil {
		return fmt.Errorf("failed to unmarshal ReconcileRequestedPayload: %w", err)
	}

	ctx := attr.WithCorrelationID(msg.Context(), correlationID)

	h.logger.InfoContext(ctx, "Received reconcile request",
		attr.String("correlation_id", correlationID),
		attr.String("viewer_id", payload.ViewerID),
	)

	result, err := h.rankService.ReconcileHistory(ctx, payload.ViewerID)
	if err != nil {
		return fmt.Errorf("failed to reconcile history for viewer %s: %w", payload.ViewerID, err)
	}

	h.logger.InfoContext(ctx, "Reconcile request processed",
		attr.String("correlation_id", correlationID),
		attr.String("viewer_id", payload.ViewerID),
		attr.String("update_source", string(result.Source)),
	)
	return nil
}
