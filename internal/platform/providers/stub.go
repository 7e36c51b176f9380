// Package providers contains clients for the external speech, translation,
// and OCR collaborators. The stub implementations here are the deterministic
// offline mode used when no real provider is configured; they reproduce the
// canned answers of the original service.
package providers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Beastbaba/Gateguide/pkg/assist"
)

var stubPhrases = map[string]string{
	"en": "Where is gate B14?",
	"es": "¿Dónde está la puerta B14?",
	"fr": "Où est la porte B14?",
}

var stubTranslations = map[string]string{
	"Where is gate B14?":          "¿Dónde está la puerta B14?",
	"When does my flight depart?": "¿Cuándo sale mi vuelo?",
	"Where is the bathroom?":      "¿Dónde está el baño?",
}

// StubTranscriber satisfies assist.Transcriber with fixed phrases per language.
type StubTranscriber struct {
	logger *slog.Logger
}

func NewStubTranscriber(logger *slog.Logger) *StubTranscriber {
	return &StubTranscriber{logger: logger.With("component", "stub_transcriber")}
}

func (s *StubTranscriber) Transcribe(_ context.Context, req assist.TranscriptionRequest) (*assist.TranscriptionResponse, error) {
	s.logger.Debug("Serving stub transcription", "source", req.SourceLanguage, "target", req.TargetLanguage)

	transcription, ok := stubPhrases[req.SourceLanguage]
	if !ok {
		transcription = stubPhrases["en"]
	}
	translation, ok := stubPhrases[req.TargetLanguage]
	if !ok {
		translation = stubPhrases["es"]
	}

	return &assist.TranscriptionResponse{
		Transcription:    transcription,
		Translation:      translation,
		LanguageDetected: req.SourceLanguage,
	}, nil
}

// StubTranslator satisfies assist.Translator with a fixed phrase table.
type StubTranslator struct {
	logger *slog.Logger
}

func NewStubTranslator(logger *slog.Logger) *StubTranslator {
	return &StubTranslator{logger: logger.With("component", "stub_translator")}
}

func (s *StubTranslator) Translate(_ context.Context, req assist.TranslationRequest) (*assist.TranslationResponse, error) {
	translated, ok := stubTranslations[req.Text]
	if !ok {
		translated = fmt.Sprintf("[Translated: %s]", req.Text)
	}

	return &assist.TranslationResponse{
		OriginalText:   req.Text,
		TranslatedText: translated,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
	}, nil
}

// StubTextExtractor satisfies assist.TextExtractor with a fixed signage read.
type StubTextExtractor struct {
	logger *slog.Logger
}

func NewStubTextExtractor(logger *slog.Logger) *StubTextExtractor {
	return &StubTextExtractor{logger: logger.With("component", "stub_ocr")}
}

func (s *StubTextExtractor) ExtractText(_ context.Context, _ assist.OCRRequest) (*assist.OCRResponse, error) {
	return &assist.OCRResponse{
		ExtractedText:    "Gate B14\nDepartures\nBaggage Claim",
		TranslatedText:   "Puerta B14\nSalidas\nRecogida de Equipaje",
		LanguageDetected: "en",
	}, nil
}
