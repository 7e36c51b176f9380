// Package pubsub contains concrete adapters for interacting with Google
// Cloud Pub/Sub.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"

	"github.com/Beastbaba/Gateguide/pkg/assist"
)

// pubsubPublisher defines the interface for the underlying pubsub publisher.
// This allows us to use a mock for testing.
type pubsubPublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// Producer implements the assist.AlertProducer interface. It serializes a
// FlightAlert and publishes it to the alerts topic.
type Producer struct {
	publisher pubsubPublisher
}

// NewProducer is the constructor for the Pub/Sub producer. The publisher is
// pre-configured with its topic.
func NewProducer(publisher pubsubPublisher) *Producer {
	return &Producer{publisher: publisher}
}

// Publish serializes the alert and sends it to the message bus, waiting for
// the server acknowledgment.
func (p *Producer) Publish(ctx context.Context, alert *assist.FlightAlert) error {
	payloadBytes, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal flight alert for publishing: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{Data: payloadBytes})
	if _, err = result.Get(ctx); err != nil {
		return fmt.Errorf("failed to publish flight alert: %w", err)
	}
	return nil
}
