package rankrouter

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/rankwatch/rankwatch/app/eventbus"
	rankevents "github.com/rankwatch/rankwatch/app/modules/rank/events"
	rankhandlers "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/handlers"
)

// RankRouter wires rank event subscriptions onto the shared watermill router.
type RankRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber eventbus.EventBus
}

// NewRankRouter creates a new RankRouter.
func NewRankRouter(logger *slog.Logger, router *message.Router, subscriber eventbus.EventBus) *RankRouter {
	return &RankRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
	}
}

// Configure registers the module's handlers. Shared middleware lives on
// the app-level router.
func (r *RankRouter) Configure(_ context.Context, handlers rankhandlers.Handlers) error {
	r.router.AddNoPublisherHandler(
		"rank.reconcile",
		rankevents.ReconcileRequested,
		r.subscriber.Subscriber(),
		handlers.HandleReconcileRequested,
	)
	return nil
}

// Close is a no-op; the shared router owns subscription lifecycles.
func (r *RankRouter) Close() error {
	return nil
}
