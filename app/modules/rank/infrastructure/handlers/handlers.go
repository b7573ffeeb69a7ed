package rankhandlers

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	rankservice "github.com/rankwatch/rankwatch/app/modules/rank/application"
)

// Handlers is the rank module's message-handling surface.
type Handlers interface {
	HandleReconcileRequested(msg *message.Message) error
}

// RankHandlers routes rank events into the application service.
type RankHandlers struct {
	rankService rankservice.Service
	logger      *slog.Logger
}

var _ Handlers = (*RankHandlers)(nil)

// NewRankHandlers creates a new RankHandlers.
func NewRankHandlers(service rankservice.Service, logger *slog.Logger) *RankHandlers {
	return &RankHandlers{
		rankService: service,
		logger:      logger,
	}
}
