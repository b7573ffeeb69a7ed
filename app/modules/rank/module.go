package rank

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	rankservice "github.com/rankwatch/rankwatch/app/modules/rank/application"
	rankhandlers "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/handlers"
	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
	rankrouter "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/router"
	"github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/ranksource"
	"github.com/rankwatch/rankwatch/app/eventbus"
	"github.com/rankwatch/rankwatch/internal/observability"
	"github.com/rankwatch/rankwatch/internal/observability/metrics"
)

// Module bundles the rank module's service and event wiring.
type Module struct {
	RankService rankservice.Service
	rankRouter  *rankrouter.RankRouter
	logger      *slog.Logger
	cancelFunc  context.CancelFunc
}

// NewRankModule creates the rank module and registers its event handlers.
func NewRankModule(
	ctx context.Context,
	obs *observability.Observability,
	repo rankdb.Repository,
	source ranksource.Client,
	eventBus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	logger := obs.Logger
	rankMetrics := metrics.NewRankMetrics(obs.Registry)

	service := rankservice.NewRankService(repo, source, eventBus, logger, rankMetrics, obs.Tracer)
	handlers := rankhandlers.NewRankHandlers(service, logger)

	moduleRouter := rankrouter.NewRankRouter(logger, router, eventBus)
	if err := moduleRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure rank router: %w", err)
	}

	return &Module{
		RankService: service,
		rankRouter:  moduleRouter,
		logger:      logger,
	}, nil
}

// Run keeps the module alive until the context is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting rank module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.Info("Rank module stopped")
}

// Close stops the rank module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return m.rankRouter.Close()
}
