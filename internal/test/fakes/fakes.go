// Package fakes provides in-memory test doubles for the service's message
// bus dependencies. These are used in the local entrypoint and in tests.
package fakes

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Beastbaba/Gateguide/internal/pipeline"
	"github.com/Beastbaba/Gateguide/pkg/assist"
)

// InMemoryConsumer is a pipeline.MessageConsumer fed directly by tests or by
// a paired producer.
type InMemoryConsumer struct {
	outputChan chan pipeline.Message
	logger     zerolog.Logger
	stopOnce   sync.Once
	doneChan   chan struct{}

	mu       sync.Mutex
	stopping bool
	pushers  sync.WaitGroup
}

func NewInMemoryConsumer(bufferSize int, logger zerolog.Logger) *InMemoryConsumer {
	return &InMemoryConsumer{
		outputChan: make(chan pipeline.Message, bufferSize),
		logger:     logger.With().Str("component", "InMemoryConsumer").Logger(),
		doneChan:   make(chan struct{}),
	}
}

// Push hands a raw message to the consumer's subscribers. After Stop it is a
// no-op; the local entrypoint's alert simulator can still be publishing while
// the service shuts down.
func (c *InMemoryConsumer) Push(msg pipeline.Message) {
	c.mu.Lock()
	if c.stopping {
		c.mu.Unlock()
		c.logger.Debug().Str("msg_id", msg.ID).Msg("Consumer stopped, dropping message")
		return
	}
	c.pushers.Add(1)
	c.mu.Unlock()
	defer c.pushers.Done()

	select {
	case c.outputChan <- msg:
	case <-c.doneChan:
	}
}

func (c *InMemoryConsumer) Messages() <-chan pipeline.Message { return c.outputChan }
func (c *InMemoryConsumer) Start(_ context.Context) error     { return nil }

// Stop unblocks in-flight pushes, waits for them to drain, then closes the
// message channel so the pipeline sees a clean end of stream.
func (c *InMemoryConsumer) Stop(_ context.Context) error {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		c.stopping = true
		c.mu.Unlock()
		close(c.doneChan)
		c.pushers.Wait()
		close(c.outputChan)
	})
	return nil
}
func (c *InMemoryConsumer) Done() <-chan struct{} { return c.doneChan }

// AlertProducer is an assist.AlertProducer that feeds a paired
// InMemoryConsumer, standing in for the alerts topic.
type AlertProducer struct {
	consumer *InMemoryConsumer
	logger   zerolog.Logger
}

func NewAlertProducer(consumer *InMemoryConsumer, logger zerolog.Logger) *AlertProducer {
	return &AlertProducer{
		consumer: consumer,
		logger:   logger.With().Str("component", "FakeAlertProducer").Logger(),
	}
}

func (p *AlertProducer) Publish(_ context.Context, alert *assist.FlightAlert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal flight alert: %w", err)
	}
	msg := pipeline.Message{ID: uuid.NewString(), Payload: payload}
	p.logger.Debug().Str("msg_id", msg.ID).Str("flight", alert.FlightNumber).Msg("Publishing fake alert")
	p.consumer.Push(msg)
	return nil
}
