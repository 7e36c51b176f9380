// Local development entrypoint: runs GateGuide with in-memory dependencies
// and a small simulator that feeds demo flight alerts onto the in-memory bus.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/Beastbaba/Gateguide/cmd"
	"github.com/Beastbaba/Gateguide/gateguideservice"
	"github.com/Beastbaba/Gateguide/gateguideservice/config"
	"github.com/Beastbaba/Gateguide/internal/app"
	"github.com/Beastbaba/Gateguide/internal/realtime"
	"github.com/Beastbaba/Gateguide/internal/test/fakes"
	"github.com/Beastbaba/Gateguide/pkg/assist"
)

func main() {
	// 1. Setup structured logging. Handlers and config use slog, the
	// realtime and pipeline components use zerolog.
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil)).With("service", "gateguide")
	slog.SetDefault(logger)
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	// 2. Load the embedded local config and apply env overrides.
	baseCfg, err := cmd.Load(logger)
	if err != nil {
		logger.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}
	cfg, err := config.UpdateConfigWithEnvOverrides(baseCfg, logger)
	if err != nil {
		logger.Error("Failed to finalize configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// 3. Build the shared broadcast plumbing.
	registry := realtime.NewRegistry()
	hub := realtime.NewHub(registry, zlog)

	// 4. Create in-memory dependencies.
	deps, producer, err := cmd.NewFakeDependencies(ctx, cfg, hub, logger, zlog)
	if err != nil {
		logger.Error("Failed to initialize dependencies", "err", err)
		os.Exit(1)
	}

	// 5. Create the two main services.
	apiService, err := gateguideservice.New(cfg, deps, logger, zlog)
	if err != nil {
		logger.Error("Failed to create API service", "err", err)
		os.Exit(1)
	}

	connManager, err := realtime.NewConnectionManager(
		":"+cfg.WebSocketPort,
		registry,
		hub,
		deps.History,
		zlog,
	)
	if err != nil {
		logger.Error("Failed to create Connection Manager", "err", err)
		os.Exit(1)
	}

	// 6. Feed demo alerts so connected clients see live traffic.
	go simulateAlerts(ctx, producer, logger)

	// 7. Run the application.
	app.Run(ctx, logger, apiService, connManager)
}

// simulateAlerts publishes a rotating set of flight-status changes, one every
// thirty seconds, matching the demo data served by the seeded catalog.
func simulateAlerts(ctx context.Context, producer *fakes.AlertProducer, logger *slog.Logger) {
	demo := []assist.FlightAlert{
		{FlightNumber: "AI 202", Status: assist.StatusGateChanged, Gate: "C5", PreviousGate: "B14"},
		{FlightNumber: "BA 142", Status: assist.StatusDelayed},
		{FlightNumber: "EK 505", Status: assist.StatusBoarding, Gate: "A1"},
	}

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			alert := demo[i%len(demo)]
			if err := producer.Publish(ctx, &alert); err != nil {
				logger.Warn("Failed to publish demo alert", "flight", alert.FlightNumber, "err", err)
			}
		}
	}
}
