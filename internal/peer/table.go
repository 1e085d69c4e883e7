package peer

import "sync"

type tableEntry struct {
	lastSeenMs uint32
	lastSeqRx  uint32
	seqSeen    bool
}

// Table is the unicast peer table: MAC address to last-seen timestamp and
// last-received rolling sequence, used for staleness expiry and
// de-duplication (spec §4.D, §4.I).
type Table struct {
	mu      sync.Mutex
	entries map[MAC]*tableEntry
}

// NewTable constructs an empty peer table.
func NewTable() *Table {
	return &Table{entries: make(map[MAC]*tableEntry)}
}

// Add registers mac if absent, without marking it seen. Mirrors the
// explicit add_peer operation, distinct from the implicit registration a
// first inbound datagram performs.
func (t *Table) Add(mac MAC) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[mac]; !ok {
		t.entries[mac] = &tableEntry{}
	}
}

// Clear removes every entry.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[MAC]*tableEntry)
}

// Count reports the number of known peers.
func (t *Table) Count() uint8 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return uint8(len(t.entries))
}

// MACs returns a snapshot of every known peer address.
func (t *Table) MACs() []MAC {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]MAC, 0, len(t.entries))
	for mac := range t.entries {
		out = append(out, mac)
	}
	return out
}

// Observe registers mac if it is new and records nowMs as its last-seen
// time. It returns nothing.
func (t *Table) Observe(mac MAC, nowMs uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[mac]
	if !ok {
		e = &tableEntry{}
		t.entries[mac] = e
	}
	e.lastSeenMs = nowMs
}

// Accept applies the de-duplication rule: a datagram with seq <= the
// peer's last recorded sequence (under 32-bit wrap rules) is a duplicate
// and must be discarded. On acceptance, the peer's last-seen time and
// sequence are updated; on rejection, neither is touched.
func (t *Table) Accept(mac MAC, seq, nowMs uint32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[mac]
	if !ok {
		e = &tableEntry{}
		t.entries[mac] = e
	}
	if e.seqSeen && int32(seq-e.lastSeqRx) <= 0 {
		return false
	}
	e.lastSeqRx = seq
	e.seqSeen = true
	e.lastSeenMs = nowMs
	return true
}

// ExpireStale removes and returns every peer whose last-seen time is at
// least staleMs before nowMs (spec §4.E: "expired by staleness timeout,
// 30s default").
func (t *Table) ExpireStale(nowMs, staleMs uint32) []MAC {
	t.mu.Lock()
	defer t.mu.Unlock()
	var expired []MAC
	for mac, e := range t.entries {
		if nowMs-e.lastSeenMs >= staleMs {
			expired = append(expired, mac)
			delete(t.entries, mac)
		}
	}
	return expired
}
