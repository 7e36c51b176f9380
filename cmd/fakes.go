package cmd

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"

	"github.com/Beastbaba/Gateguide/gateguideservice"
	"github.com/Beastbaba/Gateguide/gateguideservice/config"
	"github.com/Beastbaba/Gateguide/internal/pipeline"
	"github.com/Beastbaba/Gateguide/internal/platform/catalog"
	"github.com/Beastbaba/Gateguide/internal/platform/history"
	"github.com/Beastbaba/Gateguide/internal/platform/providers"
	"github.com/Beastbaba/Gateguide/internal/test/fakes"
	"github.com/Beastbaba/Gateguide/pkg/assist"
)

// NewFakeDependencies creates in-memory dependencies for local development.
// The hub is built by the caller because it is shared with the WebSocket
// connection manager. The returned producer feeds the in-memory alerts bus,
// standing in for the Pub/Sub topic.
func NewFakeDependencies(
	ctx context.Context,
	cfg *config.AppConfig,
	hub pipeline.Broadcaster,
	slogger *slog.Logger,
	logger zerolog.Logger,
) (*gateguideservice.Dependencies, *fakes.AlertProducer, error) {
	consumer := fakes.NewInMemoryConsumer(16, logger)
	producer := fakes.NewAlertProducer(consumer, logger)

	hist := history.NewMemoryHistory(cfg.History.MaxEntries)
	welcome := assist.NewNotification(
		assist.NotificationInfo,
		"Welcome to GateGuide",
		"Your smart airport assistant is ready!",
		"",
	)
	if err := hist.Append(ctx, welcome); err != nil {
		return nil, nil, err
	}

	deps := &gateguideservice.Dependencies{
		Transcriber:   providers.NewStubTranscriber(slogger),
		Translator:    providers.NewStubTranslator(slogger),
		TextExtractor: providers.NewStubTextExtractor(slogger),
		Catalog:       catalog.NewSeededCatalog(),
		History:       hist,
		AlertConsumer: consumer,
		AlertProducer: producer,
		Hub:           hub,
	}
	return deps, producer, nil
}
