package ws

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/raytag/endpoint/internal/clock"
	"github.com/raytag/endpoint/logging"
	"github.com/raytag/endpoint/logging/network"
)

// DisconnectFunc is invoked when a client is evicted (stale or CLOSE
// frame), so upper layers can surface a disconnect notification (spec
// §4.F).
type DisconnectFunc func(handle SessionHandle)

// Hub is the WS server core: a fixed-capacity client table with
// non-blocking fan-out and stale eviction (spec §4.F).
type Hub struct {
	mu      sync.Mutex
	clients [MaxClients]*client

	clock      clock.Clock
	pub        logging.Publisher
	onDisconnect DisconnectFunc
}

// NewHub constructs an empty Hub.
func NewHub(c clock.Clock, pub logging.Publisher, onDisconnect DisconnectFunc) *Hub {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	return &Hub{clock: c, pub: pub, onDisconnect: onDisconnect}
}

// Handshake admits a new connection under handle, first evicting any
// stale row for the same handle (re-handshake), then occupying the first
// free slot. It refuses with ok=false if the table is full (spec §4.F).
func (h *Hub) Handshake(handle SessionHandle, conn *websocket.Conn) (admitted bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.clock.NowMs()
	h.evictStaleLocked(now)

	// Re-handshake of the same handle replaces the old row (spec §3
	// invariant 5).
	for i, c := range h.clients {
		if c != nil && c.handle == handle {
			h.clients[i] = nil
		}
	}

	for i, c := range h.clients {
		if c == nil {
			h.clients[i] = &client{handle: handle, conn: conn, active: true, lastActivityMs: now}
			return true
		}
	}

	network.ClientEvicted(context.Background(), h.pub, uint64(now), logging.EntityRef{ID: string(handle), Kind: logging.EntityKindClient},
		network.ClientEvictedPayload{Reason: "table_full"})
	return false
}

// evictStaleLocked drops any client whose last activity is stale, and
// notifies onDisconnect for each. Callers must hold h.mu.
func (h *Hub) evictStaleLocked(now uint32) {
	for i, c := range h.clients {
		if c == nil {
			continue
		}
		if now-c.lastActivityMs > StaleAfterMs {
			h.clients[i] = nil
			if h.onDisconnect != nil {
				h.onDisconnect(c.handle)
			}
		}
	}
}

// Tick runs the periodic stale sweep (spec §4.F: "on every handshake and
// every tick").
func (h *Hub) Tick() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.evictStaleLocked(h.clock.NowMs())
}

// Touch updates a client's last-activity time, e.g. on receiving any
// inbound frame or a PONG control frame.
func (h *Hub) Touch(handle SessionHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		if c != nil && c.handle == handle {
			c.lastActivityMs = h.clock.NowMs()
			return
		}
	}
}

// Remove drops a client immediately, e.g. on a CLOSE control frame.
func (h *Hub) Remove(handle SessionHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, c := range h.clients {
		if c != nil && c.handle == handle {
			h.clients[i] = nil
			return
		}
	}
}

// SendTo writes payload to exactly one client, non-blockingly. On failure
// the frame is dropped and last_activity_ms is left untouched (spec
// §4.F); it does NOT update activity on success either — activity tracks
// inbound traffic, not outbound.
func (h *Hub) SendTo(handle SessionHandle, payload []byte) bool {
	h.mu.Lock()
	var target *client
	for _, c := range h.clients {
		if c != nil && c.handle == handle {
			target = c
			break
		}
	}
	h.mu.Unlock()
	if target == nil {
		return false
	}
	return target.send(payload)
}

// Broadcast snapshots the active client set under the table lock, then
// sends outside the lock (spec §4.F, and the snapshot-then-send fix from
// §9 Design Notes / Open Question 4).
func (h *Hub) Broadcast(payload []byte) {
	h.mu.Lock()
	snapshot := make([]*client, 0, MaxClients)
	for _, c := range h.clients {
		if c != nil {
			snapshot = append(snapshot, c)
		}
	}
	h.mu.Unlock()

	for _, c := range snapshot {
		c.send(payload)
	}
}

// Count reports the number of occupied client-table rows.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.clients {
		if c != nil {
			n++
		}
	}
	return n
}
