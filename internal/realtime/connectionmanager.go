package realtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Beastbaba/Gateguide/pkg/assist"
)

// ConnectionManager owns the WebSocket endpoint. It runs its own dedicated
// HTTP server, registers each upgraded connection with the registry, and
// turns inbound client frames into hub broadcasts.
type ConnectionManager struct {
	server   *http.Server
	upgrader websocket.Upgrader
	registry *Registry
	hub      *Hub
	history  assist.History
	logger   zerolog.Logger
}

// NewConnectionManager creates and wires up a new WebSocket connection manager.
func NewConnectionManager(
	addr string,
	registry *Registry,
	hub *Hub,
	history assist.History,
	logger zerolog.Logger,
) (*ConnectionManager, error) {
	if registry == nil || hub == nil {
		return nil, fmt.Errorf("registry and hub cannot be nil")
	}

	cm := &ConnectionManager{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict to the app's origins once they are fixed
				return true
			},
		},
		registry: registry,
		hub:      hub,
		history:  history,
		logger:   logger.With().Str("component", "ConnectionManager").Logger(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/notifications", cm.connectHandler)
	cm.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	return cm, nil
}

// Start runs the HTTP server for WebSocket connections.
func (cm *ConnectionManager) Start(ctx context.Context) error {
	cm.logger.Info().Str("addr", cm.server.Addr).Msg("WebSocket server starting...")
	if err := cm.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("websocket server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes every registered
// connection.
func (cm *ConnectionManager) Shutdown(ctx context.Context) error {
	cm.logger.Info().Msg("Shutting down WebSocket service...")

	err := cm.server.Shutdown(ctx)
	if err != nil {
		cm.logger.Error().Err(err).Msg("WebSocket server shutdown failed.")
	}

	for _, conn := range cm.registry.Snapshot() {
		cm.hub.Drop(conn)
	}

	cm.logger.Info().Msg("WebSocket service shut down.")
	return err
}

// connectHandler upgrades a new HTTP request to a WebSocket and manages its
// lifecycle: register, read until the transport signals close, unregister.
func (cm *ConnectionManager) connectHandler(w http.ResponseWriter, r *http.Request) {
	ws, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		cm.logger.Error().Err(err).Msg("Failed to upgrade connection.")
		return
	}

	conn := NewConnection(ws)
	if err := cm.registry.Add(conn); err != nil {
		// A uuid collision. Log the defect and reject the connection.
		cm.logger.Error().Err(err).Str("conn", conn.ID).Msg("Registry rejected connection")
		_ = ws.Close()
		return
	}
	defer cm.hub.Drop(conn)

	cm.logger.Info().Str("conn", conn.ID).Msg("Client connected via WebSocket.")

	go func() {
		if err := conn.writeLoop(); err != nil {
			cm.logger.Warn().Err(err).Str("conn", conn.ID).Msg("Write failed, dropping connection")
			cm.hub.Drop(conn)
		}
	}()

	// Read loop. Every inbound frame is echoed to the whole broadcast set as
	// a synthetic info event; a read error means the client disconnected.
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			break
		}
		cm.echo(r.Context(), string(data))
	}

	cm.logger.Info().Str("conn", conn.ID).Msg("Client disconnected.")
}

// echo broadcasts an inbound client message back to all connections.
//
// This mirrors the placeholder behavior of the original service: inbound
// frames are not yet routed anywhere useful. The contract kept here is that
// every inbound message produces exactly one outbound broadcast event.
func (cm *ConnectionManager) echo(ctx context.Context, text string) {
	event := assist.NewNotification(assist.NotificationInfo, "", "Received: "+text, "")

	if cm.history != nil {
		if err := cm.history.Append(ctx, event); err != nil {
			cm.logger.Warn().Err(err).Str("event_id", event.ID).Msg("Failed to record echo event")
		}
	}
	cm.hub.Publish(event)
}
