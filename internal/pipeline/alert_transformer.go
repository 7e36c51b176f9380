package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Beastbaba/Gateguide/pkg/assist"
)

// AlertTransformer safely unmarshals a raw bus payload into a validated
// assist.FlightAlert. Malformed payloads are marked for skipping so the
// service Nacks them instead of looping.
func AlertTransformer(_ context.Context, msg *Message) (*assist.FlightAlert, bool, error) {
	var alert assist.FlightAlert
	if err := json.Unmarshal(msg.Payload, &alert); err != nil {
		slog.Error("Failed to unmarshal flight alert", "err", err, "msg_id", msg.ID, "payload", string(msg.Payload))
		return nil, true, fmt.Errorf("failed to unmarshal flight alert from message %s: %w", msg.ID, err)
	}

	if alert.FlightNumber == "" {
		slog.Error("Flight alert has no flight number", "msg_id", msg.ID)
		return nil, true, fmt.Errorf("flight alert from message %s has no flight number", msg.ID)
	}
	switch alert.Status {
	case assist.StatusOnTime, assist.StatusDelayed, assist.StatusBoarding, assist.StatusGateChanged:
	default:
		slog.Error("Flight alert has unknown status", "msg_id", msg.ID, "status", string(alert.Status))
		return nil, true, fmt.Errorf("flight alert from message %s has unknown status %q", msg.ID, alert.Status)
	}

	return &alert, false, nil
}
