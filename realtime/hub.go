package realtime

import (
	"contact_flow_app_go/models"
	"log"
	"sync"
	"sync/atomic"
)

// Event names exchanged with browser clients
const (
	EventJoinFeedback     = "join_feedback"
	EventLeaveFeedback    = "leave_feedback"
	EventNewMessage       = "nova_mensagem"
	EventFeedbackResolved = "feedback_resolvido"
)

// DefaultClientBuffer is used when a client is created with a non-positive buffer
const DefaultClientBuffer = 64

// Frame is the JSON envelope written on every connection
type Frame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Broadcaster delivers ticket-scoped events. Services receive it at
// construction time.
type Broadcaster interface {
	Broadcast(feedbackID uint, event string, payload interface{})
}

var clientSeq atomic.Uint64

// Client is one connected participant. Frames queue on a buffered
// channel drained by the connection's writer; the hub never blocks on it.
type Client struct {
	ID        uint64
	send      chan Frame
	done      chan struct{}
	closeOnce sync.Once
	rooms     map[string]struct{} // guarded by Hub.mu
}

// NewClient creates a client with room for buffer pending frames
func NewClient(buffer int) *Client {
	if buffer <= 0 {
		buffer = DefaultClientBuffer
	}
	return &Client{
		ID:    clientSeq.Add(1),
		send:  make(chan Frame, buffer),
		done:  make(chan struct{}),
		rooms: make(map[string]struct{}),
	}
}

// Send returns the channel of frames waiting to be written
func (c *Client) Send() <-chan Frame {
	return c.send
}

// Done is closed once the client disconnects
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close marks the client as disconnected. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Hub is the room membership table of the relay. It keeps no history:
// a client that is not joined when Broadcast runs never sees the event.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

// Join adds the client to the ticket's room
func (h *Hub) Join(feedbackID uint, c *Client) {
	room := models.FeedbackRoom(feedbackID)

	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

// Leave removes the client from the ticket's room
func (h *Hub) Leave(feedbackID uint, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(models.FeedbackRoom(feedbackID), c)
}

// LeaveAll removes the client from every room it joined
func (h *Hub) LeaveAll(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range c.rooms {
		h.removeLocked(room, c)
	}
}

// removeLocked must be called with h.mu held (write lock)
func (h *Hub) removeLocked(room string, c *Client) {
	delete(c.rooms, room)
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// Broadcast queues the event for every client currently in the room.
// Sends are non-blocking: a client with a full buffer loses the event.
func (h *Hub) Broadcast(feedbackID uint, event string, payload interface{}) {
	room := models.FeedbackRoom(feedbackID)
	frame := Frame{Event: event, Data: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[room] {
		select {
		case <-c.done:
			continue
		default:
		}

		select {
		case c.send <- frame:
		default:
			log.Printf("[RELAY] dropped %s for client %d in %s: buffer full", event, c.ID, room)
		}
	}
}

// RoomSize returns how many clients are joined to the ticket's room
func (h *Hub) RoomSize(feedbackID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[models.FeedbackRoom(feedbackID)])
}
