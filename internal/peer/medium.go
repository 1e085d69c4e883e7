package peer

import "sync"

// SharedMedium is an in-memory test double modeling a broadcast radio
// channel shared by several Bus instances. It delivers every transmission
// to every registered Bus other than the sender (or, for a unicast
// address, only to the Bus owning that MAC), simulating a best-effort,
// no-ARQ radio.
type SharedMedium struct {
	mu       sync.Mutex
	stations map[MAC]*Bus
	nowMs    func() uint32
}

// NewSharedMedium constructs an empty medium. nowFn supplies the
// millisecond timestamp stamped on delivery for peer-table bookkeeping.
func NewSharedMedium(nowFn func() uint32) *SharedMedium {
	return &SharedMedium{stations: make(map[MAC]*Bus), nowMs: nowFn}
}

// Join registers a Bus on the medium under its own MAC.
func (m *SharedMedium) Join(mac MAC, b *Bus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stations[mac] = b
}

// Transmit implements Medium. A broadcast address fans out to every
// station but the sender; a unicast address reaches only its owner, if
// present.
func (m *SharedMedium) Transmit(from, to MAC, payload [DatagramSize]byte) bool {
	m.mu.Lock()
	targets := make([]*Bus, 0, len(m.stations))
	if to == BroadcastMAC {
		for mac, b := range m.stations {
			if mac != from {
				targets = append(targets, b)
			}
		}
	} else if b, ok := m.stations[to]; ok {
		targets = append(targets, b)
	}
	m.mu.Unlock()

	now := m.nowMs()
	for _, b := range targets {
		b.deliver(from, payload, now)
	}
	return true
}
