package ws

import (
	"sync"
)

// Client represents a single WebSocket connection with user context.
type Client struct {
	UserID uint
	Send   chan []byte
	hub    *Hub
	mu     sync.Mutex
	closed bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// trySend enqueues a frame unless the client is closed or its buffer is
// full. The closed check and the send share the client lock, so a
// concurrent Close cannot close the channel between them.
func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// Hub maintains active connections, keyed by user and by match room. It is
// the local delivery end of the fan-out channel: the Redis bridge feeds it
// frames for the topics this instance's clients subscribe to.
type Hub struct {
	mu sync.RWMutex
	// userID -> clients (one user can have multiple connections)
	byUser map[uint]map[*Client]struct{}
	// matchID -> clients currently viewing that conversation
	rooms map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		byUser: make(map[uint]map[*Client]struct{}),
		rooms:  make(map[uint]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[*Client]struct{})
	}
	h.byUser[c.UserID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byUser[c.UserID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
	for matchID, room := range h.rooms {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, matchID)
		}
	}
}

// JoinMatch subscribes a connection to a match-scoped topic. Clients
// re-subscribe when switching the active conversation.
func (h *Hub) JoinMatch(matchID uint, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[matchID] == nil {
		h.rooms[matchID] = make(map[*Client]struct{})
	}
	h.rooms[matchID][c] = struct{}{}
}

func (h *Hub) LeaveMatch(matchID uint, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room := h.rooms[matchID]; room != nil {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, matchID)
		}
	}
}

func (h *Hub) snapshotUser(userID uint) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	m := h.byUser[userID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	return clients
}

func (h *Hub) snapshotMatch(matchID uint) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room := h.rooms[matchID]
	clients := make([]*Client, 0, len(room))
	for c := range room {
		clients = append(clients, c)
	}
	return clients
}

// DeliverToUser implements realtime.Sink. Slow clients are skipped rather
// than blocked on; they reconcile on reconnect.
func (h *Hub) DeliverToUser(userID uint, data []byte) {
	for _, c := range h.snapshotUser(userID) {
		c.trySend(data)
	}
}

// DeliverToMatch implements realtime.Sink.
func (h *Hub) DeliverToMatch(matchID uint, data []byte) {
	for _, c := range h.snapshotMatch(matchID) {
		c.trySend(data)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, m := range h.byUser {
		n += len(m)
	}
	return n
}
