package realtime

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/Beastbaba/Gateguide/pkg/assist"
)

// Hub fans each published event out to every connection registered at the
// moment of publish. Delivery is attempted for each member independently: a
// failed enqueue drops that one connection and never affects the rest.
type Hub struct {
	registry *Registry
	logger   zerolog.Logger
}

// NewHub creates a hub over the given registry.
func NewHub(registry *Registry, logger zerolog.Logger) *Hub {
	return &Hub{
		registry: registry,
		logger:   logger.With().Str("component", "Hub").Logger(),
	}
}

// Publish marshals the event once and enqueues the frame to every member of a
// registry snapshot. Per-connection writer goroutines do the transport I/O,
// so one slow client cannot delay delivery to another.
func (h *Hub) Publish(event assist.Notification) {
	frame, err := json.Marshal(event)
	if err != nil {
		// Notification is a plain value type; this is a programming error.
		h.logger.Error().Err(err).Str("event_id", event.ID).Msg("Failed to marshal notification")
		return
	}

	for _, conn := range h.registry.Snapshot() {
		if err := conn.enqueue(frame); err != nil {
			h.logger.Warn().Err(err).
				Str("conn", conn.ID).
				Str("event_id", event.ID).
				Msg("Delivery failed, dropping connection")
			h.Drop(conn)
		}
	}
}

// Drop removes a connection from the registry and closes it. Removal is
// idempotent, so racing read and write failures resolve to a single cleanup.
func (h *Hub) Drop(conn *Connection) {
	h.registry.Remove(conn.ID)
	conn.Close()
}
