// Package realtime implements the in-memory broadcaster behind the
// websocket endpoint. The hub exclusively owns the subscription registry;
// group membership lives only for the lifetime of a connection.
package realtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/pkg/metrics"
)

// OrganizationGroup is the private subscription group for a tenant's
// authenticated dashboard clients.
func OrganizationGroup(orgID string) string {
	return "org_" + orgID
}

// PublicGroup is the anonymous subscription group for a tenant's public
// status page viewers, keyed by slug.
func PublicGroup(slug string) string {
	return "public_" + slug
}

// Envelope is the frame pushed to subscribers.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// sendBufferSize bounds the per-connection queue. A subscriber that falls
// this far behind starts losing events; delivery is best-effort.
const sendBufferSize = 64

type connection struct {
	id     string
	send   chan Envelope
	groups map[string]struct{}
}

// Hub maintains subscription groups and fans events out to their members.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*connection
	groups      map[string]map[string]*connection
	closed      bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*connection),
		groups:      make(map[string]map[string]*connection),
	}
}

// Register adds a connection and returns its id plus the channel its
// events arrive on. The channel is closed by Deregister or Close.
func (h *Hub) Register() (string, <-chan Envelope) {
	conn := &connection{
		id:     uuid.NewString(),
		send:   make(chan Envelope, sendBufferSize),
		groups: make(map[string]struct{}),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(conn.send)
		return conn.id, conn.send
	}

	h.connections[conn.id] = conn
	metrics.RealtimeConnections.Inc()
	return conn.id, conn.send
}

// Deregister removes a connection from every group and closes its channel.
func (h *Hub) Deregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.connections[connID]
	if !ok {
		return
	}

	for group := range conn.groups {
		h.removeFromGroupLocked(conn, group)
	}
	delete(h.connections, connID)
	close(conn.send)
	metrics.RealtimeConnections.Dec()
}

// Subscribe joins a connection to a group and queues the join
// acknowledgment on the connection's own channel, so the ack keeps its
// order relative to later broadcasts.
func (h *Hub) Subscribe(connID, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.connections[connID]
	if !ok {
		return
	}

	members, ok := h.groups[group]
	if !ok {
		members = make(map[string]*connection)
		h.groups[group] = members
	}
	members[conn.id] = conn
	conn.groups[group] = struct{}{}

	h.sendLocked(conn, Envelope{Event: "joined", Data: map[string]string{"room": group}})
}

// Unsubscribe removes a connection from a group.
func (h *Hub) Unsubscribe(connID, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.connections[connID]
	if !ok {
		return
	}
	h.removeFromGroupLocked(conn, group)
	delete(conn.groups, group)
}

// Publish pushes an event to every member of the group. Fire-and-forget:
// no acknowledgment, no buffering for absent members, and a member whose
// queue is full loses the event rather than blocking the publisher.
func (h *Hub) Publish(group, event string, payload interface{}) {
	envelope := Envelope{Event: event, Data: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()

	metrics.RealtimeEventsPublished.WithLabelValues(event).Inc()

	for _, conn := range h.groups[group] {
		h.sendLocked(conn, envelope)
	}
}

// Close deregisters every connection. Used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for id, conn := range h.connections {
		delete(h.connections, id)
		close(conn.send)
		metrics.RealtimeConnections.Dec()
	}
	h.groups = make(map[string]map[string]*connection)
}

// sendError queues an error frame on a single connection.
func (h *Hub) sendError(connID, message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conn, ok := h.connections[connID]
	if !ok {
		return
	}
	h.sendLocked(conn, Envelope{Event: "error", Data: map[string]string{"message": message}})
}

func (h *Hub) sendLocked(conn *connection, envelope Envelope) {
	select {
	case conn.send <- envelope:
	default:
		metrics.RealtimeEventsDropped.Inc()
	}
}

func (h *Hub) removeFromGroupLocked(conn *connection, group string) {
	members, ok := h.groups[group]
	if !ok {
		return
	}
	delete(members, conn.id)
	if len(members) == 0 {
		delete(h.groups, group)
	}
}
