package eventutil

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/rankwatch/rankwatch/internal/observability/attr"
)

// NewMessage marshals a payload into a watermill message with a fresh UUID
// and the given correlation ID (a new one is minted when empty).
func NewMessage[T any](correlationID string, payload T) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	middleware.SetCorrelationID(correlationID, msg)
	return msg, nil
}

// UnmarshalPayload decodes a message body into T and returns the message's
// correlation ID alongside it.
func UnmarshalPayload[T any](msg *message.Message, logger *slog.Logger) (string, T, error) {
	correlationID := middleware.MessageCorrelationID(msg)

	var payload T
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		logger.Error("Failed to unmarshal message payload",
			attr.String("correlation_id", correlationID),
			attr.String("message_id", msg.UUID),
			attr.Error(err),
		)
		return correlationID, payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return correlationID, payload, nil
}
