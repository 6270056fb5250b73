package websocket

import (
	"testing"

	"collab-docs-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	event   string
	payload interface{}
}

type stubConn struct {
	id       string
	identity string
	events   []recordedEvent
}

func (s *stubConn) ID() string       { return s.id }
func (s *stubConn) Identity() string { return s.identity }
func (s *stubConn) Emit(event string, payload interface{}) {
	s.events = append(s.events, recordedEvent{event: event, payload: payload})
}

func newTestHub() *Hub {
	return NewHub(nil, logger.NewNoopLogger())
}

func TestHubJoinIsIdempotent(t *testing.T) {
	hub := newTestHub()
	conn := &stubConn{id: "c1"}

	hub.Join("doc-1", conn)
	hub.Join("doc-1", conn)

	hub.Broadcast("doc-1", "EVENT", "payload")
	assert.Len(t, conn.events, 1, "a double join must not double-deliver")
}

func TestHubLeaveUnknownMemberIsNoop(t *testing.T) {
	hub := newTestHub()
	conn := &stubConn{id: "c1"}

	assert.NotPanics(t, func() {
		hub.Leave("doc-1", conn)
	})
}

func TestHubBroadcastReachesCurrentMembersOnly(t *testing.T) {
	hub := newTestHub()
	early := &stubConn{id: "c1"}
	late := &stubConn{id: "c2"}
	outsider := &stubConn{id: "c3"}

	hub.Join("doc-1", early)
	hub.Join("doc-2", outsider)

	hub.Broadcast("doc-1", "EVENT", "first")

	hub.Join("doc-1", late)
	hub.Broadcast("doc-1", "EVENT", "second")

	require.Len(t, early.events, 2)
	assert.Equal(t, "first", early.events[0].payload)
	require.Len(t, late.events, 1, "no replay for late joiners")
	assert.Equal(t, "second", late.events[0].payload)
	assert.Empty(t, outsider.events, "members of other rooms receive nothing")
}

func TestHubLeaveStopsDelivery(t *testing.T) {
	hub := newTestHub()
	conn := &stubConn{id: "c1"}

	hub.Join("doc-1", conn)
	hub.Leave("doc-1", conn)
	hub.Broadcast("doc-1", "EVENT", "payload")

	assert.Empty(t, conn.events)
}

func TestHubRemoveAllClearsEveryRoom(t *testing.T) {
	hub := newTestHub()
	conn := &stubConn{id: "c1"}
	other := &stubConn{id: "c2"}

	hub.Join("doc-1", conn)
	hub.Join("doc-2", conn)
	hub.Join("doc-1", other)

	hub.RemoveAll(conn)

	hub.Broadcast("doc-1", "EVENT", "payload")
	hub.Broadcast("doc-2", "EVENT", "payload")

	assert.Empty(t, conn.events, "a disconnected socket is out of every room")
	assert.Len(t, other.events, 1, "other members are unaffected")
}
