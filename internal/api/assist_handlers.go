// Package api defines the stateless HTTP handlers for the assistant façade:
// transcription, translation, OCR, catalog lookups, and notification history.
package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Beastbaba/Gateguide/internal/response"
	"github.com/Beastbaba/Gateguide/pkg/assist"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// API holds the dependencies for the stateless HTTP handlers.
type API struct {
	transcriber assist.Transcriber
	translator  assist.Translator
	extractor   assist.TextExtractor
	catalog     assist.Catalog
	history     assist.History
	alerts      assist.AlertProducer
	logger      *slog.Logger
}

// NewAPI creates a new, stateless API handler. The alert producer may be nil
// when the deployment has no alerts topic to publish to.
func NewAPI(
	transcriber assist.Transcriber,
	translator assist.Translator,
	extractor assist.TextExtractor,
	catalog assist.Catalog,
	history assist.History,
	alerts assist.AlertProducer,
	logger *slog.Logger,
) *API {
	return &API{
		transcriber: transcriber,
		translator:  translator,
		extractor:   extractor,
		catalog:     catalog,
		history:     history,
		alerts:      alerts,
		logger:      logger,
	}
}

// IndexHandler describes the service and its endpoints.
func (a *API) IndexHandler(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "GateGuide API",
		"version": "1.0.0",
		"endpoints": []string{
			"/api/stt/transcribe",
			"/api/translate",
			"/api/ocr",
			"/api/gates",
			"/api/flights",
			"/api/notifications",
			"/api/alerts",
		},
	})
}

// validAlertStatuses are the flight statuses accepted on the alerts endpoint.
var validAlertStatuses = map[assist.FlightStatus]bool{
	assist.StatusOnTime:      true,
	assist.StatusDelayed:     true,
	assist.StatusBoarding:    true,
	assist.StatusGateChanged: true,
}

// PublishAlertHandler accepts a flight-status change and publishes it to the
// alerts topic. The broadcast itself happens asynchronously once the pipeline
// consumes the event, so a successful publish returns 202.
func (a *API) PublishAlertHandler(w http.ResponseWriter, r *http.Request) {
	if a.alerts == nil {
		response.WriteJSONError(w, http.StatusServiceUnavailable, "alert publishing is not configured")
		return
	}

	var alert assist.FlightAlert
	if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
		a.logger.Warn("Failed to decode flight alert", "err", err)
		response.WriteJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if alert.FlightNumber == "" {
		response.WriteJSONError(w, http.StatusBadRequest, "flight_number is required")
		return
	}
	if !validAlertStatuses[alert.Status] {
		response.WriteJSONError(w, http.StatusBadRequest, "unknown flight status")
		return
	}

	if err := a.alerts.Publish(r.Context(), &alert); err != nil {
		a.logger.Error("Failed to publish flight alert", "flight", alert.FlightNumber, "err", err)
		response.WriteJSONError(w, http.StatusServiceUnavailable, "could not publish alert")
		return
	}

	a.logger.Info("Flight alert accepted", "flight", alert.FlightNumber, "status", string(alert.Status))
	response.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// TranscribeHandler accepts base64 audio and returns its transcription and
// translation.
func (a *API) TranscribeHandler(w http.ResponseWriter, r *http.Request) {
	var req assist.TranscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.logger.Warn("Failed to decode transcription request", "err", err)
		response.WriteJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.AudioData == "" {
		response.WriteJSONError(w, http.StatusBadRequest, "audio_data is required")
		return
	}
	if _, err := base64.StdEncoding.DecodeString(req.AudioData); err != nil {
		response.WriteJSONError(w, http.StatusBadRequest, "audio_data is not valid base64")
		return
	}
	if req.SourceLanguage == "" {
		req.SourceLanguage = "en"
	}
	if req.TargetLanguage == "" {
		req.TargetLanguage = "es"
	}

	resp, err := a.transcriber.Transcribe(r.Context(), req)
	if err != nil {
		a.logger.Error("Transcription provider failed", "err", err)
		response.WriteJSONError(w, http.StatusServiceUnavailable, "transcription provider unavailable")
		return
	}
	response.WriteJSON(w, http.StatusOK, resp)
}

// TranslateHandler translates a piece of text.
func (a *API) TranslateHandler(w http.ResponseWriter, r *http.Request) {
	var req assist.TranslationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.logger.Warn("Failed to decode translation request", "err", err)
		response.WriteJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		response.WriteJSONError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.SourceLanguage == "" {
		req.SourceLanguage = "auto"
	}
	if req.TargetLanguage == "" {
		req.TargetLanguage = "es"
	}

	resp, err := a.translator.Translate(r.Context(), req)
	if err != nil {
		a.logger.Error("Translation provider failed", "err", err)
		response.WriteJSONError(w, http.StatusServiceUnavailable, "translation provider unavailable")
		return
	}
	response.WriteJSON(w, http.StatusOK, resp)
}

// ExtractTextHandler pulls text out of a base64 image and translates it.
func (a *API) ExtractTextHandler(w http.ResponseWriter, r *http.Request) {
	var req assist.OCRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.logger.Warn("Failed to decode OCR request", "err", err)
		response.WriteJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ImageData == "" {
		response.WriteJSONError(w, http.StatusBadRequest, "image_data is required")
		return
	}
	if _, err := base64.StdEncoding.DecodeString(req.ImageData); err != nil {
		response.WriteJSONError(w, http.StatusBadRequest, "image_data is not valid base64")
		return
	}
	if req.TargetLanguage == "" {
		req.TargetLanguage = "es"
	}

	resp, err := a.extractor.ExtractText(r.Context(), req)
	if err != nil {
		a.logger.Error("OCR provider failed", "err", err)
		response.WriteJSONError(w, http.StatusServiceUnavailable, "ocr provider unavailable")
		return
	}
	response.WriteJSON(w, http.StatusOK, resp)
}

// ListGatesHandler returns all gate locations.
func (a *API) ListGatesHandler(w http.ResponseWriter, r *http.Request) {
	gates, err := a.catalog.Gates(r.Context())
	if err != nil {
		a.logger.Error("Failed to list gates", "err", err)
		response.WriteJSONError(w, http.StatusServiceUnavailable, "gate catalog unavailable")
		return
	}
	response.WriteJSON(w, http.StatusOK, gates)
}

// ListFlightsHandler returns all flights.
func (a *API) ListFlightsHandler(w http.ResponseWriter, r *http.Request) {
	flights, err := a.catalog.Flights(r.Context())
	if err != nil {
		a.logger.Error("Failed to list flights", "err", err)
		response.WriteJSONError(w, http.StatusServiceUnavailable, "flight catalog unavailable")
		return
	}
	response.WriteJSON(w, http.StatusOK, flights)
}

// GetFlightHandler returns one flight by number, or 404.
func (a *API) GetFlightHandler(w http.ResponseWriter, r *http.Request) {
	flightNumber := r.PathValue("flightNumber")
	if flightNumber == "" {
		response.WriteJSONError(w, http.StatusBadRequest, "flight number is required")
		return
	}

	flight, err := a.catalog.FlightByNumber(r.Context(), flightNumber)
	if err != nil {
		if errors.Is(err, assist.ErrNotFound) {
			response.WriteJSONError(w, http.StatusNotFound, "flight not found")
			return
		}
		a.logger.Error("Failed to look up flight", "flight", flightNumber, "err", err)
		response.WriteJSONError(w, http.StatusServiceUnavailable, "flight catalog unavailable")
		return
	}
	response.WriteJSON(w, http.StatusOK, flight)
}

// ListNotificationsHandler returns recent notifications, newest first.
func (a *API) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		val, err := strconv.Atoi(limitStr)
		if err != nil {
			a.logger.Warn("Invalid 'limit' parameter", "limit", limitStr)
			response.WriteJSONError(w, http.StatusBadRequest, "invalid 'limit' parameter, must be an integer")
			return
		}
		if val > maxHistoryLimit {
			limit = maxHistoryLimit
		} else if val > 0 {
			limit = val
		}
	}

	notifications, err := a.history.Recent(r.Context(), limit)
	if err != nil {
		a.logger.Error("Failed to read notification history", "err", err)
		response.WriteJSONError(w, http.StatusServiceUnavailable, "notification history unavailable")
		return
	}
	response.WriteJSON(w, http.StatusOK, notifications)
}
