// Package realtime provides components for managing real-time client
// connections and broadcasting notifications to them.
package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// sendBuffer bounds the per-connection outbound queue. A full buffer is
	// treated as a delivery failure and the connection is dropped.
	sendBuffer = 32

	// writeWait is the deadline for a single transport write, so a stalled
	// client can never block its writer for long.
	writeWait = 10 * time.Second
)

var (
	// ErrDuplicateConnection indicates a registry insert with an ID that is
	// already a member. Treated as an internal invariant violation.
	ErrDuplicateConnection = errors.New("realtime: duplicate connection id")

	errConnectionClosed = errors.New("realtime: connection closed")
	errSendBufferFull   = errors.New("realtime: send buffer full")
)

// wsConn is the subset of *websocket.Conn the realtime package writes to.
// Tests substitute a fake transport.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Connection is the registry's membership record for one client: a unique ID,
// a creation timestamp, and a buffered outbound queue in front of the
// transport. The underlying socket is owned by the network layer; the
// Connection owns the queue and its lifecycle.
type Connection struct {
	ID        string
	CreatedAt time.Time

	ws        wsConn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewConnection wraps an open transport in a membership record.
func NewConnection(ws wsConn) *Connection {
	return &Connection{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		ws:        ws,
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
	}
}

// enqueue hands a frame to the connection's writer without blocking. Channel
// order preserves publish order for any single producer.
func (c *Connection) enqueue(frame []byte) error {
	select {
	case <-c.done:
		return errConnectionClosed
	default:
	}
	select {
	case c.send <- frame:
		return nil
	case <-c.done:
		return errConnectionClosed
	default:
		return errSendBufferFull
	}
}

// Close marks the connection terminal and closes the transport. Idempotent.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// writeLoop drains the outbound queue onto the transport. It returns nil once
// the connection is closed, or the first write error.
func (c *Connection) writeLoop() error {
	for {
		select {
		case frame := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return err
			}
		case <-c.done:
			return nil
		}
	}
}
