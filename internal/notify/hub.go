package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

const (
	subscriberBuffer = 16
	defaultHistory   = 50
)

// Hub fans notifications out to in-process subscribers and keeps a short
// history for clients that connect late. Slow subscribers drop messages
// rather than block the sender.
type Hub struct {
	mu      sync.RWMutex
	subs    map[int]chan Notification
	next    int
	history []Notification
	limit   int
}

// NewHub creates a hub retaining the last historyLimit notifications.
func NewHub(historyLimit int) *Hub {
	if historyLimit <= 0 {
		historyLimit = defaultHistory
	}
	return &Hub{
		subs:  make(map[int]chan Notification),
		limit: historyLimit,
	}
}

// Notify satisfies Notifier and broadcasts n.
func (h *Hub) Notify(_ context.Context, n Notification) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history = append(h.history, n)
	if len(h.history) > h.limit {
		h.history = h.history[len(h.history)-h.limit:]
	}
	for _, ch := range h.subs {
		select {
		case ch <- n:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel of notifications and a cancel func.
func (h *Hub) Subscribe() (<-chan Notification, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan Notification, subscriberBuffer)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Subscribers reports how many subscriptions are open.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Recent returns up to n of the newest notifications, oldest first.
func (h *Hub) Recent(n int) []Notification {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n <= 0 || n > len(h.history) {
		n = len(h.history)
	}
	out := make([]Notification, n)
	copy(out, h.history[len(h.history)-n:])
	return out
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams notifications as JSON.
func (h *Hub) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case n, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(n); err != nil {
				return
			}
		}
	}
}

// ServeSSE streams notifications as Server-Sent Events.
func (h *Hub) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.Subscribe()
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case n, ok := <-events:
			if !ok {
				return
			}
			if _, err := w.Write([]byte("event: " + string(n.Level) + "\ndata: ")); err != nil {
				return
			}
			if err := encoder.Encode(n); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n")); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
