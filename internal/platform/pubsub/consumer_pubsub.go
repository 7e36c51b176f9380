package pubsub

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/Beastbaba/Gateguide/internal/pipeline"
)

// Consumer adapts a Pub/Sub subscription to the pipeline.MessageConsumer
// interface. Receive callbacks are bridged onto a channel; ack and nack are
// deferred to the pipeline.
type Consumer struct {
	subscriber *pubsub.Subscriber
	outputChan chan pipeline.Message
	logger     zerolog.Logger

	cancel      context.CancelFunc
	receiveDone chan struct{}
	stopOnce    sync.Once
	doneChan    chan struct{}
}

// NewConsumer is the constructor for the Pub/Sub consumer. The subscriber is
// pre-configured with its subscription.
func NewConsumer(subscriber *pubsub.Subscriber, bufferSize int, logger zerolog.Logger) (*Consumer, error) {
	if subscriber == nil {
		return nil, fmt.Errorf("subscriber cannot be nil")
	}
	return &Consumer{
		subscriber:  subscriber,
		outputChan:  make(chan pipeline.Message, bufferSize),
		logger:      logger.With().Str("component", "PubsubConsumer").Logger(),
		receiveDone: make(chan struct{}),
		doneChan:    make(chan struct{}),
	}, nil
}

// Messages returns the channel the pipeline ranges over.
func (c *Consumer) Messages() <-chan pipeline.Message { return c.outputChan }

// Done is closed once the consumer has stopped.
func (c *Consumer) Done() <-chan struct{} { return c.doneChan }

// Start begins pulling from the subscription in the background.
func (c *Consumer) Start(ctx context.Context) error {
	receiveCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	go func() {
		defer close(c.receiveDone)
		err := c.subscriber.Receive(receiveCtx, func(_ context.Context, m *pubsub.Message) {
			select {
			case c.outputChan <- pipeline.Message{
				ID:         m.ID,
				Payload:    m.Data,
				Attributes: m.Attributes,
				AckFunc:    m.Ack,
				NackFunc:   m.Nack,
			}:
			case <-c.doneChan:
				// Shutting down; let the bus redeliver.
				m.Nack()
			}
		})
		if err != nil && receiveCtx.Err() == nil {
			c.logger.Error().Err(err).Msg("Pub/Sub receive failed")
		}
	}()

	c.logger.Info().Msg("Pub/Sub consumer started.")
	return nil
}

// Stop cancels the receive loop and waits for in-flight callbacks, bounded
// by ctx.
func (c *Consumer) Stop(ctx context.Context) error {
	var err error
	c.stopOnce.Do(func() {
		close(c.doneChan)
		if c.cancel != nil {
			c.cancel()
		}

		select {
		case <-c.receiveDone:
		case <-ctx.Done():
			err = ctx.Err()
			return
		}
		close(c.outputChan)
		c.logger.Info().Msg("Pub/Sub consumer stopped.")
	})
	return err
}
