package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Beastbaba/Gateguide/pkg/assist"
)

// Broadcaster is the hub-facing half of the processor.
type Broadcaster interface {
	Publish(event assist.Notification)
}

// NewAlertProcessor returns the processor stage: it maps a flight-status
// change onto a Notification, records it in the history store, and hands it
// to the hub for fan-out. A history failure is logged but never blocks the
// broadcast.
func NewAlertProcessor(hub Broadcaster, history assist.History, logger zerolog.Logger) StreamProcessor[assist.FlightAlert] {
	return func(ctx context.Context, msg Message, alert *assist.FlightAlert) error {
		event := NotificationFromAlert(*alert)

		procLogger := logger.With().
			Str("flight", alert.FlightNumber).
			Str("status", string(alert.Status)).
			Str("event_id", event.ID).
			Logger()

		if history != nil {
			if err := history.Append(ctx, event); err != nil {
				procLogger.Warn().Err(err).Msg("Failed to record notification in history")
			}
		}

		hub.Publish(event)
		procLogger.Info().Msg("Broadcast flight alert")
		return nil
	}
}

// NotificationFromAlert builds the outbound event for one status change.
func NotificationFromAlert(alert assist.FlightAlert) assist.Notification {
	switch alert.Status {
	case assist.StatusGateChanged:
		message := fmt.Sprintf("Flight %s gate changed to %s", alert.FlightNumber, alert.Gate)
		if alert.PreviousGate != "" {
			message = fmt.Sprintf("Flight %s gate changed from %s to %s", alert.FlightNumber, alert.PreviousGate, alert.Gate)
		}
		return assist.NewNotification(assist.NotificationGateChange, "Gate Change", message, alert.FlightNumber)

	case assist.StatusDelayed:
		message := fmt.Sprintf("Flight %s is delayed", alert.FlightNumber)
		return assist.NewNotification(assist.NotificationDelay, "Flight Delayed", message, alert.FlightNumber)

	case assist.StatusBoarding:
		message := fmt.Sprintf("Flight %s is now boarding", alert.FlightNumber)
		if alert.Gate != "" {
			message = fmt.Sprintf("Flight %s is now boarding at gate %s", alert.FlightNumber, alert.Gate)
		}
		return assist.NewNotification(assist.NotificationBoarding, "Now Boarding", message, alert.FlightNumber)

	default:
		message := fmt.Sprintf("Flight %s is on time", alert.FlightNumber)
		return assist.NewNotification(assist.NotificationInfo, "Flight Update", message, alert.FlightNumber)
	}
}
