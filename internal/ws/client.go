// Package ws implements the admin WebSocket server core (spec §4.F): a
// fixed-capacity client table, stale eviction, non-blocking fan-out, and
// control-frame handling, built on gorilla/websocket.
package ws

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// MaxClients is the fixed client-table capacity (spec §3: "up to
// MAX_CLIENTS (= 8) entries").
const MaxClients = 8

// StaleAfterMs is the activity timeout past which a client is evicted
// (spec §4.F, §9 Open Question 3: "server evicts at 30s of silence").
const StaleAfterMs = 30_000

// SessionHandle opaquely identifies one WS session across a re-handshake.
type SessionHandle string

// NewSessionHandle mints a session handle for a fresh connection.
func NewSessionHandle() SessionHandle {
	return SessionHandle(uuid.NewString())
}

// client is one row of the WsClient table (spec §3).
type client struct {
	handle         SessionHandle
	conn           *websocket.Conn
	active         bool
	lastActivityMs uint32
	supportsBinary bool

	sendMu sync.Mutex
}

// send writes one text frame, never blocking the caller beyond the
// underlying TCP write. Gorilla's Conn is not safe for concurrent writers,
// so sendMu serializes writes to a single client without holding the
// table lock (spec §4.F: "sends release the lock before touching the
// transport").
func (c *client) send(payload []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return false
	}
	return true
}
