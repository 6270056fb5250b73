package websocket

import (
	"context"
	"encoding/json"
)

// Frame is the envelope of every websocket message, in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Conn is one client connection as seen by the session layer.
type Conn interface {
	// ID is the connection id, unique per socket (not per user).
	ID() string
	// Identity is the authenticated user attached during the handshake.
	Identity() string
	// Emit sends a single event to this connection only. Best-effort; a
	// slow consumer is dropped rather than blocking the caller.
	Emit(event string, payload interface{})
}

// Dispatcher receives inbound client events. Implemented by the document
// session service.
type Dispatcher interface {
	OnSubscribe(ctx context.Context, conn Conn, data json.RawMessage)
	OnUnsubscribe(ctx context.Context, conn Conn, data json.RawMessage)
}
