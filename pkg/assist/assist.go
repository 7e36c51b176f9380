package assist

import (
	"context"
	"errors"
)

// Sentinel errors shared across the façade and its collaborators. Handlers
// map these onto HTTP status codes; everything else is treated as a provider
// failure.
var (
	// ErrNotFound indicates a catalog lookup matched no record.
	ErrNotFound = errors.New("assist: not found")

	// ErrInvalidInput indicates a malformed request payload.
	ErrInvalidInput = errors.New("assist: invalid input")

	// ErrProviderUnavailable indicates an external collaborator could not be
	// reached or failed.
	ErrProviderUnavailable = errors.New("assist: provider unavailable")
)

// Transcriber converts audio into text in the requested languages.
type Transcriber interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
}

// Translator translates text between languages.
type Translator interface {
	Translate(ctx context.Context, req TranslationRequest) (*TranslationResponse, error)
}

// TextExtractor pulls text out of an image and translates it.
type TextExtractor interface {
	ExtractText(ctx context.Context, req OCRRequest) (*OCRResponse, error)
}

// Catalog is the read-only flight/gate data store.
type Catalog interface {
	Gates(ctx context.Context) ([]GateLocation, error)
	Flights(ctx context.Context) ([]Flight, error)
	// FlightByNumber returns ErrNotFound when no flight matches.
	FlightByNumber(ctx context.Context, flightNumber string) (*Flight, error)
}

// History records recently broadcast notifications for the read API.
type History interface {
	Append(ctx context.Context, n Notification) error
	// Recent returns up to limit notifications, newest first.
	Recent(ctx context.Context, limit int) ([]Notification, error)
}

// AlertProducer publishes a flight-status event onto the alerts topic.
type AlertProducer interface {
	Publish(ctx context.Context, alert *FlightAlert) error
}
