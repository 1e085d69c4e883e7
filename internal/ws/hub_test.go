package ws

import (
	"testing"

	"github.com/gorilla/websocket"

	"github.com/raytag/endpoint/internal/clock"
)

// A zero-value *websocket.Conn stands in for a real connection in
// table-manipulation tests that never touch the network; only
// Hub.Handshake stores the pointer.
func newTestHub() (*Hub, *clock.Fake) {
	fake := clock.NewFake(0)
	return NewHub(fake, nil, nil), fake
}

func TestHandshakeFillsTableThenRefuses(t *testing.T) {
	h, _ := newTestHub()
	for i := 0; i < MaxClients; i++ {
		if !h.Handshake(NewSessionHandle(), &websocket.Conn{}) {
			t.Fatalf("handshake %d should have been admitted", i)
		}
	}
	if h.Handshake(NewSessionHandle(), &websocket.Conn{}) {
		t.Fatalf("the 9th handshake should be refused, table has only %d slots", MaxClients)
	}
	if h.Count() != MaxClients {
		t.Fatalf("Count() = %d, want %d", h.Count(), MaxClients)
	}
}

func TestRehandshakeSameHandleDoesNotGrowTable(t *testing.T) {
	h, _ := newTestHub()
	handle := NewSessionHandle()
	h.Handshake(handle, &websocket.Conn{})
	h.Handshake(handle, &websocket.Conn{})
	if h.Count() != 1 {
		t.Fatalf("Count() = %d after re-handshake, want 1", h.Count())
	}
}

func TestStaleClientEvictedOnTick(t *testing.T) {
	h, fake := newTestHub()
	handle := NewSessionHandle()
	h.Handshake(handle, &websocket.Conn{})

	fake.Advance(StaleAfterMs + 1)
	h.Tick()

	if h.Count() != 0 {
		t.Fatalf("Count() = %d, want 0 after the stale sweep", h.Count())
	}
}

func TestStaleClientEvictedOnHandshake(t *testing.T) {
	h, fake := newTestHub()
	stale := NewSessionHandle()
	h.Handshake(stale, &websocket.Conn{})

	fake.Advance(StaleAfterMs + 1)
	h.Handshake(NewSessionHandle(), &websocket.Conn{})

	if h.Count() != 1 {
		t.Fatalf("Count() = %d, want 1 (stale row evicted, new row admitted)", h.Count())
	}
}

func TestTouchKeepsClientAlive(t *testing.T) {
	h, fake := newTestHub()
	handle := NewSessionHandle()
	h.Handshake(handle, &websocket.Conn{})

	fake.Advance(StaleAfterMs - 100)
	h.Touch(handle)
	fake.Advance(StaleAfterMs - 100)
	h.Tick()

	if h.Count() != 1 {
		t.Fatalf("Count() = %d, want 1 (touched client must survive)", h.Count())
	}
}

func TestRemoveDropsClientImmediately(t *testing.T) {
	h, _ := newTestHub()
	handle := NewSessionHandle()
	h.Handshake(handle, &websocket.Conn{})
	h.Remove(handle)
	if h.Count() != 0 {
		t.Fatalf("Count() = %d, want 0 after Remove", h.Count())
	}
}
