package websocket

import (
	"collab-docs-be/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs runs the pumps for one upgraded connection. Blocks until the
// socket closes; membership cleanup happens through the hub's unregister
// path.
func ServeWs(hub *Hub, conn *websocket.Conn, user string, dispatcher Dispatcher, log logger.ILogger) {
	client := &Client{
		Hub:        hub,
		Conn:       conn,
		Id:         uuid.New(),
		User:       user,
		Send:       make(chan []byte, 256),
		dispatcher: dispatcher,
		logger:     log,
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
