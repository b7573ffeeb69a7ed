package eventbus

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/rankwatch/rankwatch/internal/observability/attr"
)

// initializeStreams provisions the JetStream streams the modules publish to.
// Creation is idempotent; existing streams are left untouched.
func (eb *eventBus) initializeStreams(ctx context.Context) error {
	eb.streamMutex.Lock()
	defer eb.streamMutex.Unlock()

	streamConfigs := []jetstream.StreamConfig{
		{
			Name:     "rank",
			Subjects: []string{"rank.>"},
		},
		{
			Name:     "stats",
			Subjects: []string{"stats.>"},
		},
	}

	for _, streamConfig := range streamConfigs {
		if eb.createdStreams[streamConfig.Name] {
			continue
		}

		_, err := eb.js.Stream(ctx, streamConfig.Name)
		if err == jetstream.ErrStreamNotFound {
			if _, err := eb.js.CreateStream(ctx, streamConfig); err != nil {
				eb.logger.Error("Failed to create JetStream stream",
					attr.String("stream", streamConfig.Name),
					attr.Error(err),
				)
				return fmt.Errorf("failed to create stream %s: %w", streamConfig.Name, err)
			}
			eb.logger.Info("Created JetStream stream", attr.String("stream", streamConfig.Name))
		} else if err != nil {
			return fmt.Errorf("failed to check stream %s: %w", streamConfig.Name, err)
		}

		eb.createdStreams[streamConfig.Name] = true
	}
	return nil
}
