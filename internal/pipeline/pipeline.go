// Package pipeline provides the background stream that turns inbound
// flight-status events into broadcast notifications: a consumer feeds raw
// messages to a pool of workers, each message is transformed into a validated
// domain payload and then processed.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Message is one raw unit of work from the message bus.
type Message struct {
	ID         string
	Payload    []byte
	Attributes map[string]string

	AckFunc  func()
	NackFunc func()
}

// Ack confirms the message. Safe on messages without a bus handle.
func (m *Message) Ack() {
	if m.AckFunc != nil {
		m.AckFunc()
	}
}

// Nack returns the message to the bus for redelivery.
func (m *Message) Nack() {
	if m.NackFunc != nil {
		m.NackFunc()
	}
}

// MessageConsumer is a source of raw messages with a managed lifecycle.
type MessageConsumer interface {
	Messages() <-chan Message
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Done() <-chan struct{}
}

// Transformer converts a raw message into a typed payload. A true skip flag
// drops the message without processing.
type Transformer[T any] func(ctx context.Context, msg *Message) (payload *T, skip bool, err error)

// StreamProcessor handles one transformed payload.
type StreamProcessor[T any] func(ctx context.Context, msg Message, payload *T) error

// ServiceConfig tunes the streaming service.
type ServiceConfig struct {
	NumWorkers int
}

// Service runs the consume → transform → process loop on a worker pool.
type Service[T any] struct {
	cfg         ServiceConfig
	consumer    MessageConsumer
	transformer Transformer[T]
	processor   StreamProcessor[T]
	logger      zerolog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewService wires up a streaming service. NumWorkers defaults to 1, which
// also keeps the processors a single producer towards the hub.
func NewService[T any](
	cfg ServiceConfig,
	consumer MessageConsumer,
	transformer Transformer[T],
	processor StreamProcessor[T],
	logger zerolog.Logger,
) (*Service[T], error) {
	if consumer == nil {
		return nil, fmt.Errorf("consumer cannot be nil")
	}
	if transformer == nil || processor == nil {
		return nil, fmt.Errorf("transformer and processor cannot be nil")
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = 1
	}
	return &Service[T]{
		cfg:         cfg,
		consumer:    consumer,
		transformer: transformer,
		processor:   processor,
		logger:      logger.With().Str("component", "Pipeline").Logger(),
	}, nil
}

// Start launches the consumer and the worker pool. It does not block.
func (s *Service[T]) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	if err := s.consumer.Start(ctx); err != nil {
		s.cancel()
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	s.logger.Info().Int("workers", s.cfg.NumWorkers).Msg("Pipeline starting...")
	for i := 0; i < s.cfg.NumWorkers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
	return nil
}

// Stop shuts the consumer down and waits for in-flight work, bounded by ctx.
func (s *Service[T]) Stop(ctx context.Context) error {
	s.logger.Info().Msg("Pipeline stopping...")

	err := s.consumer.Stop(ctx)
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

func (s *Service[T]) worker(ctx context.Context) {
	defer s.wg.Done()

	for msg := range s.consumer.Messages() {
		payload, skip, err := s.transformer(ctx, &msg)
		if err != nil {
			msg.Nack()
			continue
		}
		if skip {
			msg.Ack()
			continue
		}

		if err := s.processor(ctx, msg, payload); err != nil {
			s.logger.Error().Err(err).Str("msg_id", msg.ID).Msg("Processor failed, nacking message")
			msg.Nack()
			continue
		}
		msg.Ack()
	}
}
