package websocket

import (
	"context"
	"encoding/json"
	"time"

	"collab-docs-be/internal/constant"
	"collab-docs-be/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Id of this connection (not the user; a user may open several).
	Id uuid.UUID

	// User identity attached by the handshake token.
	User string

	// Buffered channel of outbound messages.
	Send chan []byte

	dispatcher Dispatcher
	logger     logger.ILogger
}

func (c *Client) ID() string {
	return c.Id.String()
}

func (c *Client) Identity() string {
	return c.User
}

// Emit queues a single event for this connection. A consumer that cannot
// keep up loses the message rather than blocking the room.
func (c *Client) Emit(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("Client", "Failed to marshal outbound payload", map[string]interface{}{"error": err, "event": event})
		return
	}
	frame, _ := json.Marshal(Frame{Event: event, Data: data})

	select {
	case c.Send <- frame:
	default:
		c.logger.Warn("Client", "Send buffer full, dropping message", map[string]interface{}{"conn_id": c.ID(), "event": event})
	}
}

// readPump pumps messages from the websocket connection to the dispatcher.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("Client", "Unexpected close", map[string]interface{}{"conn_id": c.ID(), "error": err})
			}
			break
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.logger.Warn("Client", "Malformed inbound frame", map[string]interface{}{"conn_id": c.ID(), "error": err})
			continue
		}

		switch frame.Event {
		case constant.WSEventSubscribe:
			c.dispatcher.OnSubscribe(context.Background(), c, frame.Data)
		case constant.WSEventUnsubscribe:
			c.dispatcher.OnUnsubscribe(context.Background(), c, frame.Data)
		default:
			c.logger.Warn("Client", "Unknown inbound event", map[string]interface{}{"conn_id": c.ID(), "event": frame.Event})
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
