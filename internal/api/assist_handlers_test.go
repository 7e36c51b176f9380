package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beastbaba/Gateguide/internal/platform/catalog"
	"github.com/Beastbaba/Gateguide/internal/platform/history"
	"github.com/Beastbaba/Gateguide/internal/platform/providers"
	"github.com/Beastbaba/Gateguide/pkg/assist"
)

// failingProviders error on every call so the 503 mapping can be checked.
type failingProviders struct{}

func (failingProviders) Transcribe(context.Context, assist.TranscriptionRequest) (*assist.TranscriptionResponse, error) {
	return nil, assist.ErrProviderUnavailable
}
func (failingProviders) Translate(context.Context, assist.TranslationRequest) (*assist.TranslationResponse, error) {
	return nil, assist.ErrProviderUnavailable
}
func (failingProviders) ExtractText(context.Context, assist.OCRRequest) (*assist.OCRResponse, error) {
	return nil, assist.ErrProviderUnavailable
}

type failingCatalog struct{}

func (failingCatalog) Gates(context.Context) ([]assist.GateLocation, error) {
	return nil, errors.New("store down")
}
func (failingCatalog) Flights(context.Context) ([]assist.Flight, error) {
	return nil, errors.New("store down")
}
func (failingCatalog) FlightByNumber(context.Context, string) (*assist.Flight, error) {
	return nil, errors.New("store down")
}

// newTestServer mounts the handlers on the same patterns the service uses.
func newTestServer(t *testing.T, a *API) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/", a.IndexHandler)
	mux.HandleFunc("POST /api/stt/transcribe", a.TranscribeHandler)
	mux.HandleFunc("POST /api/translate", a.TranslateHandler)
	mux.HandleFunc("POST /api/ocr", a.ExtractTextHandler)
	mux.HandleFunc("GET /api/gates", a.ListGatesHandler)
	mux.HandleFunc("GET /api/flights", a.ListFlightsHandler)
	mux.HandleFunc("GET /api/flights/{flightNumber}", a.GetFlightHandler)
	mux.HandleFunc("GET /api/notifications", a.ListNotificationsHandler)
	mux.HandleFunc("POST /api/alerts", a.PublishAlertHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newStubAPI(t *testing.T) (*API, *history.MemoryHistory) {
	t.Helper()
	logger := slog.Default()
	hist := history.NewMemoryHistory(100)
	return NewAPI(
		providers.NewStubTranscriber(logger),
		providers.NewStubTranslator(logger),
		providers.NewStubTextExtractor(logger),
		catalog.NewSeededCatalog(),
		hist,
		nil,
		logger,
	), hist
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestTranscribeHandler(t *testing.T) {
	a, _ := newStubAPI(t)
	server := newTestServer(t, a)
	audio := base64.StdEncoding.EncodeToString([]byte("audio bytes"))

	t.Run("success", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/stt/transcribe", assist.TranscriptionRequest{
			AudioData: audio, SourceLanguage: "en", TargetLanguage: "es",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		got := decode[assist.TranscriptionResponse](t, resp)
		assert.Equal(t, "Where is gate B14?", got.Transcription)
		assert.Equal(t, "¿Dónde está la puerta B14?", got.Translation)
		assert.Equal(t, "en", got.LanguageDetected)
	})

	t.Run("missing audio_data", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/stt/transcribe", assist.TranscriptionRequest{SourceLanguage: "en"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid base64", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/stt/transcribe", assist.TranscriptionRequest{AudioData: "!!not-base64!!"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		resp, err := http.Post(server.URL+"/api/stt/transcribe", "application/json", bytes.NewReader([]byte("{")))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestTranslateHandler(t *testing.T) {
	a, _ := newStubAPI(t)
	server := newTestServer(t, a)

	t.Run("known phrase", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/translate", assist.TranslationRequest{
			Text: "Where is gate B14?", SourceLanguage: "en", TargetLanguage: "es",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		got := decode[assist.TranslationResponse](t, resp)
		assert.Equal(t, "Where is gate B14?", got.OriginalText)
		assert.Equal(t, "¿Dónde está la puerta B14?", got.TranslatedText)
	})

	t.Run("unknown phrase falls back", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/translate", assist.TranslationRequest{Text: "Good evening"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		got := decode[assist.TranslationResponse](t, resp)
		assert.Equal(t, "[Translated: Good evening]", got.TranslatedText)
		assert.Equal(t, "auto", got.SourceLanguage)
		assert.Equal(t, "es", got.TargetLanguage)
	})

	t.Run("missing text", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/translate", assist.TranslationRequest{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestExtractTextHandler(t *testing.T) {
	a, _ := newStubAPI(t)
	server := newTestServer(t, a)
	image := base64.StdEncoding.EncodeToString([]byte("image bytes"))

	resp := postJSON(t, server.URL+"/api/ocr", assist.OCRRequest{ImageData: image, TargetLanguage: "es"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[assist.OCRResponse](t, resp)
	assert.Contains(t, got.ExtractedText, "Gate B14")
	assert.Contains(t, got.TranslatedText, "Puerta B14")
}

func TestCatalogHandlers(t *testing.T) {
	a, _ := newStubAPI(t)
	server := newTestServer(t, a)

	t.Run("list gates", func(t *testing.T) {
		resp := getJSON(t, server.URL+"/api/gates")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		gates := decode[[]assist.GateLocation](t, resp)
		require.Len(t, gates, 3)
	})

	t.Run("list flights", func(t *testing.T) {
		resp := getJSON(t, server.URL+"/api/flights")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		flights := decode[[]assist.Flight](t, resp)
		require.Len(t, flights, 3)
	})

	t.Run("get flight with encoded space", func(t *testing.T) {
		resp := getJSON(t, server.URL+"/api/flights/AI%20202")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		flight := decode[assist.Flight](t, resp)
		assert.Equal(t, "AI 202", flight.FlightNumber)
	})

	t.Run("get flight not found", func(t *testing.T) {
		resp := getJSON(t, server.URL+"/api/flights/ZZ%20999")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("catalog outage maps to 503", func(t *testing.T) {
		broken := NewAPI(nil, nil, nil, failingCatalog{}, nil, nil, slog.Default())
		brokenServer := newTestServer(t, broken)

		resp := getJSON(t, brokenServer.URL+"/api/flights")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		resp = getJSON(t, brokenServer.URL+"/api/flights/AI%20202")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestProviderOutageMapsTo503(t *testing.T) {
	broken := NewAPI(failingProviders{}, failingProviders{}, failingProviders{}, catalog.NewSeededCatalog(), nil, nil, slog.Default())
	server := newTestServer(t, broken)
	blob := base64.StdEncoding.EncodeToString([]byte("bytes"))

	resp := postJSON(t, server.URL+"/api/stt/transcribe", assist.TranscriptionRequest{AudioData: blob})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp = postJSON(t, server.URL+"/api/translate", assist.TranslationRequest{Text: "hello"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp = postJSON(t, server.URL+"/api/ocr", assist.OCRRequest{ImageData: blob})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

// captureProducer records the alerts it is asked to publish.
type captureProducer struct {
	alerts []assist.FlightAlert
	err    error
}

func (p *captureProducer) Publish(_ context.Context, alert *assist.FlightAlert) error {
	if p.err != nil {
		return p.err
	}
	p.alerts = append(p.alerts, *alert)
	return nil
}

func TestPublishAlertHandler(t *testing.T) {
	logger := slog.Default()

	t.Run("accepted alert reaches the producer", func(t *testing.T) {
		producer := &captureProducer{}
		a := NewAPI(nil, nil, nil, nil, nil, producer, logger)
		server := newTestServer(t, a)

		resp := postJSON(t, server.URL+"/api/alerts", assist.FlightAlert{
			FlightNumber: "AI 202",
			Status:       assist.StatusGateChanged,
			Gate:         "C5",
			PreviousGate: "B14",
		})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)

		require.Len(t, producer.alerts, 1)
		assert.Equal(t, "AI 202", producer.alerts[0].FlightNumber)
		assert.Equal(t, assist.StatusGateChanged, producer.alerts[0].Status)
	})

	t.Run("missing flight number rejected", func(t *testing.T) {
		producer := &captureProducer{}
		a := NewAPI(nil, nil, nil, nil, nil, producer, logger)
		server := newTestServer(t, a)

		resp := postJSON(t, server.URL+"/api/alerts", assist.FlightAlert{Status: assist.StatusDelayed})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Empty(t, producer.alerts)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		producer := &captureProducer{}
		a := NewAPI(nil, nil, nil, nil, nil, producer, logger)
		server := newTestServer(t, a)

		resp := postJSON(t, server.URL+"/api/alerts", assist.FlightAlert{
			FlightNumber: "AI 202",
			Status:       assist.FlightStatus("Vanished"),
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("producer failure maps to 503", func(t *testing.T) {
		producer := &captureProducer{err: assist.ErrProviderUnavailable}
		a := NewAPI(nil, nil, nil, nil, nil, producer, logger)
		server := newTestServer(t, a)

		resp := postJSON(t, server.URL+"/api/alerts", assist.FlightAlert{
			FlightNumber: "AI 202",
			Status:       assist.StatusDelayed,
		})
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("no producer configured maps to 503", func(t *testing.T) {
		a := NewAPI(nil, nil, nil, nil, nil, nil, logger)
		server := newTestServer(t, a)

		resp := postJSON(t, server.URL+"/api/alerts", assist.FlightAlert{
			FlightNumber: "AI 202",
			Status:       assist.StatusDelayed,
		})
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestListNotificationsHandler(t *testing.T) {
	a, hist := newStubAPI(t)
	server := newTestServer(t, a)

	ctx := context.Background()
	first := assist.NewNotification(assist.NotificationInfo, "Welcome to GateGuide", "Your smart airport assistant is ready!", "")
	second := assist.NewNotification(assist.NotificationGateChange, "Gate Change", "Flight AI 202 gate changed from B14 to C5", "AI 202")
	require.NoError(t, hist.Append(ctx, first))
	require.NoError(t, hist.Append(ctx, second))

	t.Run("newest first", func(t *testing.T) {
		resp := getJSON(t, server.URL+"/api/notifications")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		got := decode[[]assist.Notification](t, resp)
		require.Len(t, got, 2)
		assert.Equal(t, second.ID, got[0].ID)
		assert.Equal(t, "AI 202", got[0].FlightNumber)
	})

	t.Run("limit applies", func(t *testing.T) {
		resp := getJSON(t, server.URL+"/api/notifications?limit=1")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		got := decode[[]assist.Notification](t, resp)
		require.Len(t, got, 1)
	})

	t.Run("bad limit rejected", func(t *testing.T) {
		resp := getJSON(t, server.URL+"/api/notifications?limit=ten")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
