package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"collab-docs-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "document_room_events"

// clusterFrame is what one instance publishes to Redis so the other
// instances can fan a broadcast out to their local room members.
type clusterFrame struct {
	Origin string          `json:"origin"`
	Room   string          `json:"room"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data"`
}

// Hub is the session registry: it tracks which connections are interested
// in which document (a "room") and fans events out to current members.
type Hub struct {
	// Room map: document id -> connection id -> connection.
	rooms map[string]map[string]Conn

	// Reverse index: connection id -> rooms it belongs to. Used to clean
	// up every membership when a socket dies.
	memberships map[string]map[string]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fan-out. Optional.
	rdb *redis.Client

	// instanceId suppresses the echo of our own Redis messages.
	instanceId string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		rooms:       make(map[string]map[string]Conn),
		memberships: make(map[string]map[string]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		rdb:         rdb,
		instanceId:  uuid.NewString(),
		logger:      log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"conn_id": client.ID(), "user": client.Identity()})

		case client := <-h.unregister:
			h.RemoveAll(client)
			close(client.Send)
			h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"conn_id": client.ID()})
		}
	}
}

// Join adds the connection to the document's room. Joining twice is the
// same as joining once.
func (h *Hub) Join(documentId string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[documentId]
	if !ok {
		room = make(map[string]Conn)
		h.rooms[documentId] = room
	}
	room[conn.ID()] = conn

	member, ok := h.memberships[conn.ID()]
	if !ok {
		member = make(map[string]bool)
		h.memberships[conn.ID()] = member
	}
	member[documentId] = true
}

// Leave removes the connection from the room. Leaving a room the
// connection never joined is a no-op.
func (h *Hub) Leave(documentId string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(documentId, conn.ID())
}

// RemoveAll drops the connection from every room it belongs to. Called
// when the transport detects a disconnect.
func (h *Hub) RemoveAll(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for documentId := range h.memberships[conn.ID()] {
		h.leaveLocked(documentId, conn.ID())
	}
	delete(h.memberships, conn.ID())
}

func (h *Hub) leaveLocked(documentId, connId string) {
	if room, ok := h.rooms[documentId]; ok {
		delete(room, connId)
		if len(room) == 0 {
			delete(h.rooms, documentId)
		}
	}
	if member, ok := h.memberships[connId]; ok {
		delete(member, documentId)
	}
}

// Broadcast delivers the event to every connection that is a member of the
// document's room at call time; later joiners do not receive it.
func (h *Hub) Broadcast(documentId string, event string, payload interface{}) {
	h.broadcastLocal(documentId, event, payload)

	if h.rdb == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal broadcast payload", map[string]interface{}{"error": err, "room": documentId})
		return
	}
	frame, _ := json.Marshal(clusterFrame{
		Origin: h.instanceId,
		Room:   documentId,
		Event:  event,
		Data:   data,
	})
	if err := h.rdb.Publish(context.Background(), clusterChannel, frame).Err(); err != nil {
		h.logger.Warn("Hub", "Failed to publish broadcast to Redis", map[string]interface{}{"error": err, "room": documentId})
	}
}

func (h *Hub) broadcastLocal(documentId string, event string, payload interface{}) {
	h.mu.RLock()
	members := make([]Conn, 0, len(h.rooms[documentId]))
	for _, conn := range h.rooms[documentId] {
		members = append(members, conn)
	}
	h.mu.RUnlock()

	for _, conn := range members {
		conn.Emit(event, payload)
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var frame clusterFrame
		if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
			h.logger.Warn("Hub", "Invalid cluster frame", map[string]interface{}{"error": err})
			continue
		}
		if frame.Origin == h.instanceId {
			// Already delivered locally by Broadcast.
			continue
		}
		h.broadcastLocal(frame.Room, frame.Event, frame.Data)
	}
}
