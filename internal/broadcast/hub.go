// Package broadcast fans marketplace events out to connected websocket
// listeners. The hub is an injected service owned by the router: created at
// server start, closed on shutdown. It is not a package-level singleton.
package broadcast

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Conn is the minimal connection surface the hub needs; *websocket.Conn
// satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Event is the JSON frame written to every listener.
type Event struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

// Hub holds the broadcast set. Writes are best-effort: a listener that
// fails a write is evicted and closed, never retried.
type Hub struct {
	mu     sync.Mutex
	conns  map[Conn]struct{}
	closed bool
	logger zerolog.Logger
}

func New(logger zerolog.Logger) *Hub {
	return &Hub{
		conns:  make(map[Conn]struct{}),
		logger: logger.With().Str("service", "Hub").Logger(),
	}
}

// Join adds a listener to the broadcast set.
func (h *Hub) Join(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		_ = c.Close()
		return
	}
	h.conns[c] = struct{}{}
}

// Leave removes a listener without closing it; the caller owns the
// connection teardown.
func (h *Hub) Leave(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
}

// Publish broadcasts the payload to every listener. It implements the same
// contract as the Pub/Sub publisher so services treat both uniformly.
func (h *Hub) Publish(_ context.Context, topic string, payload []byte) (string, error) {
	event := Event{Topic: topic, Data: json.RawMessage(payload)}

	h.mu.Lock()
	defer h.mu.Unlock()
	var dead []Conn
	for c := range h.conns {
		if err := c.WriteJSON(event); err != nil {
			dead = append(dead, c)
		}
	}
	for _, c := range dead {
		delete(h.conns, c)
		_ = c.Close()
	}
	if len(dead) > 0 {
		h.logger.Warn().Int("evicted", len(dead)).Str("topic", topic).Msg("Evicted unreachable listeners")
	}
	return "", nil
}

// Len reports the current number of listeners.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close evicts and closes every listener and rejects future joins.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.conns {
		_ = c.Close()
	}
	h.conns = make(map[Conn]struct{})
}
