package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// MessageHandler is invoked for every inbound text frame, with the
// session that sent it. It is the seam between the transport and the
// admin protocol dispatcher (spec §4.G), kept deliberately decoupled per
// §9 Design Notes ("engine exposes a pure mutator interface").
type MessageHandler func(handle SessionHandle, payload []byte)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeUpgrade upgrades an HTTP request to a WS connection, admits it
// into the Hub's client table, and runs its read loop until the
// connection closes. It blocks for the lifetime of the connection, so
// callers run it in its own goroutine per request (the standard gorilla
// pattern).
func (h *Hub) ServeUpgrade(w http.ResponseWriter, r *http.Request, onMessage MessageHandler) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	handle := NewSessionHandle()
	if !h.Handshake(handle, conn) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "client table full"))
		conn.Close()
		return
	}

	conn.SetPongHandler(func(string) error {
		h.Touch(handle)
		return nil
	})

	defer func() {
		h.Remove(handle)
		conn.Close()
		if h.onDisconnect != nil {
			h.onDisconnect(handle)
		}
	}()

	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		switch msgType {
		case websocket.TextMessage:
			h.Touch(handle)
			if onMessage != nil {
				onMessage(handle, payload)
			}
		case websocket.BinaryMessage:
			// Reserved for a future MessagePack profile; the JSON surface is
			// authoritative in this protocol version (spec §4.F).
			h.Touch(handle)
		case websocket.CloseMessage:
			return
		}
	}
}

// Ping sends an unsolicited PING control frame to every connected client,
// for the server's periodic liveness-check timer (spec §4.F).
func (h *Hub) Ping() {
	h.mu.Lock()
	snapshot := make([]*client, 0, MaxClients)
	for _, c := range h.clients {
		if c != nil {
			snapshot = append(snapshot, c)
		}
	}
	h.mu.Unlock()

	for _, c := range snapshot {
		c.sendMu.Lock()
		_ = c.conn.WriteMessage(websocket.PingMessage, nil)
		c.sendMu.Unlock()
	}
}
