// Package gateguideservice wires the GateGuide API server together: the
// request/response handlers, the CORS layer, and the background alert
// pipeline that feeds the broadcast hub.
package gateguideservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/Beastbaba/Gateguide/gateguideservice/config"
	"github.com/Beastbaba/Gateguide/internal/api"
	"github.com/Beastbaba/Gateguide/internal/middleware"
	"github.com/Beastbaba/Gateguide/internal/pipeline"
	"github.com/Beastbaba/Gateguide/pkg/assist"
)

// Dependencies holds all the external collaborators the service needs to
// operate. This struct is used for dependency injection.
type Dependencies struct {
	// --- Providers ---
	Transcriber   assist.Transcriber
	Translator    assist.Translator
	TextExtractor assist.TextExtractor

	// --- Storage ---
	Catalog assist.Catalog
	History assist.History

	// --- Alert ingest ---
	AlertConsumer pipeline.MessageConsumer
	AlertProducer assist.AlertProducer

	// --- Broadcast ---
	Hub pipeline.Broadcaster
}

// Wrapper runs the API HTTP server and the alert processing pipeline.
type Wrapper struct {
	server            *http.Server
	processingService *pipeline.Service[assist.FlightAlert]
	logger            zerolog.Logger

	ready         atomic.Bool
	httpReadyChan chan struct{}
}

// New creates and wires up the entire GateGuide API service. The handlers log
// through slog while the background components use zerolog, so both loggers
// come in from the entrypoint.
func New(
	cfg *config.AppConfig,
	deps *Dependencies,
	apiLogger *slog.Logger,
	logger zerolog.Logger,
) (*Wrapper, error) {
	if deps == nil {
		return nil, fmt.Errorf("dependencies cannot be nil")
	}

	w := &Wrapper{
		logger:        logger,
		httpReadyChan: make(chan struct{}),
	}

	// 1. Create the API handlers.
	apiHandler := api.NewAPI(
		deps.Transcriber,
		deps.Translator,
		deps.TextExtractor,
		deps.Catalog,
		deps.History,
		deps.AlertProducer,
		apiLogger,
	)

	// 2. Create the background alert pipeline.
	processingService, err := newProcessingService(cfg, deps, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create processing service: %w", err)
	}
	w.processingService = processingService

	// 3. Create the router and attach handlers.
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", w.healthzHandler)
	mux.HandleFunc("GET /readyz", w.readyzHandler)
	mux.HandleFunc("GET /api/", apiHandler.IndexHandler)
	mux.HandleFunc("POST /api/stt/transcribe", apiHandler.TranscribeHandler)
	mux.HandleFunc("POST /api/translate", apiHandler.TranslateHandler)
	mux.HandleFunc("POST /api/ocr", apiHandler.ExtractTextHandler)
	mux.HandleFunc("GET /api/gates", apiHandler.ListGatesHandler)
	mux.HandleFunc("GET /api/flights", apiHandler.ListFlightsHandler)
	mux.HandleFunc("GET /api/flights/{flightNumber}", apiHandler.GetFlightHandler)
	mux.HandleFunc("GET /api/notifications", apiHandler.ListNotificationsHandler)
	mux.HandleFunc("POST /api/alerts", apiHandler.PublishAlertHandler)

	w.server = &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: middleware.CORS(cfg.CorsConfig, mux),
	}

	return w, nil
}

// newProcessingService builds the flight-alert processing pipeline.
func newProcessingService(
	cfg *config.AppConfig,
	deps *Dependencies,
	logger zerolog.Logger,
) (*pipeline.Service[assist.FlightAlert], error) {
	processor := pipeline.NewAlertProcessor(deps.Hub, deps.History, logger)

	return pipeline.NewService[assist.FlightAlert](
		pipeline.ServiceConfig{NumWorkers: cfg.NumPipelineWorkers},
		deps.AlertConsumer,
		pipeline.AlertTransformer,
		processor,
		logger,
	)
}

// Start runs the alert pipeline, then the HTTP server, and blocks until the
// server exits. It returns once the listener has failed or been shut down.
func (w *Wrapper) Start(ctx context.Context) error {
	w.logger.Info().Msg("Alert pipeline starting...")
	if err := w.processingService.Start(ctx); err != nil {
		return fmt.Errorf("failed to start processing service: %w", err)
	}

	serverErrChan := make(chan error, 1)
	go func() {
		if err := w.listenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			w.logger.Error().Err(err).Msg("HTTP server failed")
			serverErrChan <- err
		}
		close(serverErrChan)
	}()

	// Wait for EITHER the server to be ready OR for it to fail on startup.
	select {
	case <-w.httpReadyChan:
		w.logger.Info().Str("addr", w.server.Addr).Msg("HTTP listener is active.")
		w.ready.Store(true)
		w.logger.Info().Msg("Service is now ready.")

	case err := <-serverErrChan:
		return fmt.Errorf("HTTP server failed to start: %w", err)

	case <-ctx.Done():
		return ctx.Err()
	}

	// Wait for the server goroutine to exit (which happens on Shutdown).
	if err := <-serverErrChan; err != nil {
		return err
	}
	return nil
}

// listenAndServe splits net.Listen from Serve so readiness can be signalled
// only after the port is actually bound.
func (w *Wrapper) listenAndServe() error {
	listener, err := net.Listen("tcp", w.server.Addr)
	if err != nil {
		return err
	}
	close(w.httpReadyChan)
	return w.server.Serve(listener)
}

// Shutdown gracefully stops all service components in the correct order.
func (w *Wrapper) Shutdown(ctx context.Context) error {
	w.logger.Info().Msg("Shutting down service components...")
	w.ready.Store(false)
	var finalErr error

	if err := w.processingService.Stop(ctx); err != nil {
		w.logger.Error().Err(err).Msg("Alert pipeline shutdown failed.")
		finalErr = err
	}

	if err := w.server.Shutdown(ctx); err != nil {
		w.logger.Error().Err(err).Msg("HTTP server shutdown failed.")
		finalErr = err
	}

	w.logger.Info().Msg("All components shut down.")
	return finalErr
}

// Handler exposes the full routed handler for in-process test servers.
func (w *Wrapper) Handler() http.Handler {
	return w.server.Handler
}

func (w *Wrapper) healthzHandler(rw http.ResponseWriter, _ *http.Request) {
	rw.WriteHeader(http.StatusOK)
	_, _ = rw.Write([]byte("ok"))
}

func (w *Wrapper) readyzHandler(rw http.ResponseWriter, _ *http.Request) {
	if !w.ready.Load() {
		rw.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	rw.WriteHeader(http.StatusOK)
}
