package rankhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rankservice "github.com/rankwatch/rankwatch/app/modules/rank/application"
	rankevents "github.com/rankwatch/rankwatch/app/modules/rank/events"
	"github.com/rankwatch/rankwatch/internal/observability"
)

func newReconcileMessage(t *testing.T, correlationID string, payload any) *message.Message {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(middleware.CorrelationIDMetadataKey, correlationID)
	return msg
}

func TestRankHandlers_HandleReconcileRequested(t *testing.T) {
	faker := gofakeit.New(0)
	testViewerID := faker.Username()
	testCorrelationID := watermill.NewUUID()

	t.Run("dispatches to the service", func(t *testing.T) {
		service := NewFakeRankService()
		var gotViewerID string
		service.ReconcileHistoryFunc = func(ctx context.Context, viewerID string) (rankservice.PeakUpdateResult, error) {
			gotViewerID = viewerID
			return rankservice.PeakUpdateResult{ViewerID: viewerID, Source: rankservice.PeakUpdateComparison}, nil
		}
		handlers := NewRankHandlers(service, observability.NoOpLogger)

		msg := newReconcileMessage(t, testCorrelationID, rankevents.ReconcileRequestedPayload{ViewerID: testViewerID})
		err := handlers.HandleReconcileRequested(msg)

		require.NoError(t, err)
		assert.Equal(t, testViewerID, gotViewerID)
		assert.Equal(t, []string{"ReconcileHistory"}, service.Trace())
	})

	t.Run("malformed payload errors without touching the service", func(t *testing.T) {
		service := NewFakeRankService()
		handlers := NewRankHandlers(service, observability.NoOpLogger)

		msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
		err := handlers.HandleReconcileRequested(msg)

		require.Error(t, err)
		assert.Empty(t, service.Trace())
	})

	t.Run("service failure surfaces for redelivery", func(t *testing.T) {
		service := NewFakeRankService()
		service.ReconcileHistoryFunc = func(ctx context.Context, viewerID string) (rankservice.PeakUpdateResult, error) {
			return rankservice.PeakUpdateResult{}, errors.New("database down")
		}
		handlers := NewRankHandlers(service, observability.NoOpLogger)

		msg := newReconcileMessage(t, testCorrelationID, rankevents.ReconcileRequestedPayload{ViewerID: testViewerID})
		err := handlers.HandleReconcileRequested(msg)

		assert.Error(t, err)
	})
}
