package services

import (
	"context"
	"log"
	"time"

	"ledger-backend/internal/interfaces"
	"ledger-backend/internal/metrics"
)

const publishTimeout = 5 * time.Second

// publish sends an event after its change has committed. A failure is
// logged and counted; the ledger row is already the source of truth.
func publish(ctx context.Context, pub interfaces.EventPublisher, topic, key string, event any) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := pub.Publish(ctx, topic, key, event); err != nil {
		metrics.EventPublishFailures.WithLabelValues(topic).Inc()
		log.Printf("[Events] publish %s for %s failed: %v", topic, key, err)
	}
}
