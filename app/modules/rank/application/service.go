package rankservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
	"github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/ranksource"
	"github.com/rankwatch/rankwatch/app/eventbus"
	"github.com/rankwatch/rankwatch/internal/observability/attr"
	"github.com/rankwatch/rankwatch/internal/observability/metrics"
)

// RankService implements the Service interface.
type RankService struct {
	repo     rankdb.Repository
	source   ranksource.Client
	eventBus eventbus.EventBus
	logger   *slog.Logger
	metrics  metrics.RankMetrics
	tracer   trace.Tracer
}

// NewRankService creates a new RankService.
func NewRankService(
	repo rankdb.Repository,
	source ranksource.Client,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	rankMetrics metrics.RankMetrics,
	tracer trace.Tracer,
) *RankService {
	return &RankService{
		repo:     repo,
		source:   source,
		eventBus: eventBus,
		logger:   logger,
		metrics:  rankMetrics,
		tracer:   tracer,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[T any] func(ctx context.Context) (T, error)

// withTelemetry wraps a service operation with tracing, metrics and panic
// recovery.
func withTelemetry[T any](
	s *RankService,
	ctx context.Context,
	operationName string,
	viewerID string,
	op operationFunc[T],
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("viewer_id", viewerID),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.String("viewer_id", viewerID),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("viewer_id", viewerID),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}

// GetViewerRank retrieves the stored rank row for a viewer.
func (s *RankService) GetViewerRank(ctx context.Context, viewerID string) (*rankdb.ViewerRank, error) {
	return s.repo.GetViewerRank(ctx, viewerID)
}

// SetShowPeak stores the viewer's peak-vs-current display preference.
func (s *RankService) SetShowPeak(ctx context.Context, viewerID string, showPeak bool) error {
	_, err := withTelemetry(s, ctx, "SetShowPeak", viewerID, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.repo.SetShowPeak(ctx, viewerID, showPeak)
	})
	return err
}
