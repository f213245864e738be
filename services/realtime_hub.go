package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// DiaryEvent is pushed to a user's open sockets after every entry write or
// delete, carrying the freshly recomputed day totals.
type DiaryEvent struct {
	Type   string    `json:"type"` // "diary.updated"
	Date   string    `json:"date"`
	Totals DayTotals `json:"totals"`
}

type WSClient struct {
	UserID uint
	Conn   *websocket.Conn
}

type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[uint]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// BroadcastDiaryUpdate fans the event out to every socket the user has open.
// Write errors are ignored; the read loop notices the dead peer.
func (h *RealtimeHub) BroadcastDiaryUpdate(userID uint, date string, totals DayTotals) {
	msg, err := json.Marshal(DiaryEvent{Type: "diary.updated", Date: date, Totals: totals})
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
