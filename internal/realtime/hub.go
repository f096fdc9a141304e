// Package realtime fans battle events out to connected websocket clients.
// Delivery is fire-and-forget from the engine's perspective: a send failure
// drops the subscriber and never affects the state change that already
// committed.
package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Dutrix96/batalla/internal/constants"
	"github.com/Dutrix96/batalla/internal/logging"
)

const writeWait = 5 * time.Second

// Envelope is the wire frame for every pushed event.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// subscriber wraps a websocket connection with a write lock so concurrent
// broadcasts do not interleave frames.
type subscriber struct {
	conn   *websocket.Conn
	userID uint
	mu     sync.Mutex
}

func (s *subscriber) send(env Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(env)
}

// Hub tracks sockets per user and per battle room.
type Hub struct {
	mu     sync.Mutex
	byUser map[uint]map[*subscriber]struct{}
	rooms  map[uint]map[*subscriber]struct{}
	byConn map[*websocket.Conn]*subscriber
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		byUser: make(map[uint]map[*subscriber]struct{}),
		rooms:  make(map[uint]map[*subscriber]struct{}),
		byConn: make(map[*websocket.Conn]*subscriber),
	}
}

// Register attaches an authenticated connection to the hub.
func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	sub := &subscriber{conn: conn, userID: userID}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.byUser[userID] == nil {
		h.byUser[userID] = make(map[*subscriber]struct{})
	}
	h.byUser[userID][sub] = struct{}{}
	h.byConn[conn] = sub
}

// Unregister removes a connection from the hub and every room.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sub, ok := h.byConn[conn]
	if !ok {
		return
	}
	delete(h.byConn, conn)
	if set := h.byUser[sub.userID]; set != nil {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.byUser, sub.userID)
		}
	}
	for battleID, room := range h.rooms {
		delete(room, sub)
		if len(room) == 0 {
			delete(h.rooms, battleID)
		}
	}
}

// JoinBattle subscribes a connection to a battle room. The caller is
// responsible for the access check.
func (h *Hub) JoinBattle(battleID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sub, ok := h.byConn[conn]
	if !ok {
		return
	}
	if h.rooms[battleID] == nil {
		h.rooms[battleID] = make(map[*subscriber]struct{})
	}
	h.rooms[battleID][sub] = struct{}{}
}

func (h *Hub) snapshotRoom(battleID uint) []*subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*subscriber, 0, len(h.rooms[battleID]))
	for sub := range h.rooms[battleID] {
		out = append(out, sub)
	}
	return out
}

func (h *Hub) snapshotUser(userID uint) []*subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*subscriber, 0, len(h.byUser[userID]))
	for sub := range h.byUser[userID] {
		out = append(out, sub)
	}
	return out
}

func (h *Hub) deliver(subs []*subscriber, event string, payload any) {
	env := Envelope{Type: event, Payload: payload}
	for _, sub := range subs {
		if err := sub.send(env); err != nil {
			// slow or dead peer: drop it, state is already committed
			logging.Error("websocket send failed, dropping subscriber", err, logging.Fields{
				constants.LogFieldUserID: sub.userID,
				constants.LogFieldEvent:  event,
			})
			h.Unregister(sub.conn)
			_ = sub.conn.Close()
		}
	}
}

// BroadcastBattle pushes an event to every socket joined to the battle room.
func (h *Hub) BroadcastBattle(battleID uint, event string, payload any) {
	h.deliver(h.snapshotRoom(battleID), event, payload)
}

// SendToUser pushes an event to every socket of one user, joined or not.
// Used for matchmaking notifications that predate any battle room.
func (h *Hub) SendToUser(userID uint, event string, payload any) {
	h.deliver(h.snapshotUser(userID), event, payload)
}

// SendTo pushes an event to a single connection.
func (h *Hub) SendTo(conn *websocket.Conn, event string, payload any) {
	h.mu.Lock()
	sub, ok := h.byConn[conn]
	h.mu.Unlock()
	if !ok {
		return
	}
	h.deliver([]*subscriber{sub}, event, payload)
}
