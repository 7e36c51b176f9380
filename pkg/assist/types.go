// Package assist contains the public domain models, interfaces, and
// dependency definitions for the GateGuide assistant service. It defines the
// contract for interacting with the service.
package assist

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies a broadcast notification.
type NotificationType string

const (
	NotificationGateChange NotificationType = "gate_change"
	NotificationDelay      NotificationType = "delay"
	NotificationBoarding   NotificationType = "boarding"
	NotificationInfo       NotificationType = "info"
)

// FlightStatus is the display status of a flight as carried by the catalog.
type FlightStatus string

const (
	StatusOnTime      FlightStatus = "On Time"
	StatusDelayed     FlightStatus = "Delayed"
	StatusBoarding    FlightStatus = "Boarding"
	StatusGateChanged FlightStatus = "Gate Changed"
)

// Notification is an immutable event fanned out to every connected client.
// Outbound WebSocket frames are the JSON encoding of this struct.
type Notification struct {
	ID           string           `json:"id,omitempty"`
	Type         NotificationType `json:"type"`
	Title        string           `json:"title,omitempty"`
	Message      string           `json:"message"`
	FlightNumber string           `json:"flight_number,omitempty"`
	Timestamp    time.Time        `json:"timestamp"`
}

// NewNotification stamps a new event with a unique ID and a UTC creation time.
func NewNotification(kind NotificationType, title, message, flightNumber string) Notification {
	return Notification{
		ID:           uuid.NewString(),
		Type:         kind,
		Title:        title,
		Message:      message,
		FlightNumber: flightNumber,
		Timestamp:    time.Now().UTC(),
	}
}

// Flight is a read-only catalog record.
type Flight struct {
	ID            string       `json:"id"`
	FlightNumber  string       `json:"flight_number"`
	Destination   string       `json:"destination"`
	Gate          string       `json:"gate"`
	DepartureTime string       `json:"departure_time"`
	Status        FlightStatus `json:"status"`
	Terminal      string       `json:"terminal,omitempty"`
}

// GateLocation is a read-only catalog record describing a physical gate.
type GateLocation struct {
	GateID    string  `json:"gate_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Terminal  string  `json:"terminal,omitempty"`
}

// FlightAlert is an inbound flight-status event consumed from the alerts
// topic. The pipeline turns it into a Notification for broadcast.
type FlightAlert struct {
	FlightNumber string       `json:"flight_number"`
	Status       FlightStatus `json:"status"`
	Gate         string       `json:"gate,omitempty"`
	PreviousGate string       `json:"previous_gate,omitempty"`
}

// --- Façade payloads ---

type TranscriptionRequest struct {
	AudioData      string `json:"audio_data"` // base64 encoded audio
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

type TranscriptionResponse struct {
	Transcription    string `json:"transcription"`
	Translation      string `json:"translation"`
	LanguageDetected string `json:"language_detected"`
}

type TranslationRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

type TranslationResponse struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

type OCRRequest struct {
	ImageData      string `json:"image_data"` // base64 encoded image
	TargetLanguage string `json:"target_language"`
}

type OCRResponse struct {
	ExtractedText    string `json:"extracted_text"`
	TranslatedText   string `json:"translated_text"`
	LanguageDetected string `json:"language_detected"`
}
