package peer

import (
	"strings"
	"sync"
	"time"

	"github.com/raytag/endpoint/internal/errs"
)

// receiveQueueCapacity is the bounded inbound queue depth; the oldest
// datagram is dropped on overflow (spec §4.D).
const receiveQueueCapacity = 16

// sendAcquireBudget is the maximum time Send/Broadcast will wait for the
// radio mutex before giving up and dropping the frame.
const sendAcquireBudget = 50 * time.Millisecond

// Medium is the physical transport a Bus drives. Real firmware backs it
// with an ESP-NOW-style radio; tests back it with an in-memory Medium
// (medium.go) shared by several Bus instances.
type Medium interface {
	Transmit(from MAC, to MAC, payload [DatagramSize]byte) bool
}

// Inbound pairs a received datagram with the MAC that sent it.
type Inbound struct {
	Datagram Datagram
	SrcMAC   MAC
}

// Bus is the peer-to-peer event bus (spec §4.D): it exchanges
// PeerDatagrams with other endpoints, maintains a peer table, and
// de-duplicates inbound traffic by rolling sequence.
type Bus struct {
	mac    MAC
	medium Medium
	table  *Table

	sendSem chan struct{} // capacity-1 semaphore; a channel (not sync.Mutex) so a timed-out acquire never strands the lock

	mu       sync.Mutex
	channel  uint8
	inbound  []Inbound
	txCount  uint64
	rxCount  uint64
	dropRX   uint64
	notEmpty chan struct{}
}

// NewBus constructs a Bus for the local mac, driving medium for transport.
func NewBus(mac MAC, medium Medium) *Bus {
	b := &Bus{
		mac:      mac,
		medium:   medium,
		table:    NewTable(),
		sendSem:  make(chan struct{}, 1),
		notEmpty: make(chan struct{}, 1),
	}
	b.sendSem <- struct{}{}
	return b
}

// Init is idempotent. A channel of 0 keeps the current channel; any other
// value locks the radio to that channel so the peer bus and the station AP
// (§4.H) can co-exist.
func (b *Bus) Init(channel uint8, setPMK, preferWifi bool) error {
	if channel != 0 {
		b.SetChannel(channel)
	}
	return nil
}

// SetChannel locks the radio to the given channel.
func (b *Bus) SetChannel(channel uint8) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.channel = channel
}

// AddPeer registers mac in the peer table.
func (b *Bus) AddPeer(mac MAC) { b.table.Add(mac) }

// ClearPeers empties the peer table.
func (b *Bus) ClearPeers() { b.table.Clear() }

// PeerCount reports the number of known peers.
func (b *Bus) PeerCount() uint8 { return b.table.Count() }

// PeerMACs lists every known peer MAC, for rendering GET /api/peers
// (spec §6).
func (b *Bus) PeerMACs() []MAC { return b.table.MACs() }

// LoadPeersFromCSV parses "aa:bb:cc:dd:ee:ff" units separated by "," or
// ";" and adds each as a peer. It returns an error unless at least one MAC
// was added.
func (b *Bus) LoadPeersFromCSV(csv string) error {
	fields := strings.FieldsFunc(csv, func(r rune) bool { return r == ',' || r == ';' })
	added := 0
	for _, field := range fields {
		mac, ok := parseMAC(strings.TrimSpace(field))
		if !ok {
			continue
		}
		b.AddPeer(mac)
		added++
	}
	if added == 0 {
		return errs.New(errs.KindInvalidFrame, "peer.load_peers_from_csv")
	}
	return nil
}

func parseMAC(s string) (MAC, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return MAC{}, false
	}
	var mac MAC
	for i, p := range parts {
		if len(p) != 2 {
			return MAC{}, false
		}
		v := 0
		for _, c := range strings.ToLower(p) {
			d := -1
			switch {
			case c >= '0' && c <= '9':
				d = int(c - '0')
			case c >= 'a' && c <= 'f':
				d = int(c-'a') + 10
			}
			if d < 0 {
				return MAC{}, false
			}
			v = v*16 + d
		}
		mac[i] = byte(v)
	}
	return mac, true
}

// Send transmits a datagram to a single peer. It returns false without
// incrementing tx_count if the send mutex could not be acquired within the
// 50ms budget (spec §4.D).
func (b *Bus) Send(mac MAC, d Datagram) bool {
	return b.transmit(mac, d)
}

// Broadcast transmits a datagram to every peer on the channel.
func (b *Bus) Broadcast(d Datagram) bool {
	return b.transmit(BroadcastMAC, d)
}

func (b *Bus) transmit(dst MAC, d Datagram) bool {
	select {
	case <-b.sendSem:
	case <-time.After(sendAcquireBudget):
		return false
	}
	defer func() { b.sendSem <- struct{}{} }()

	ok := b.medium.Transmit(b.mac, dst, Encode(d))
	if ok {
		b.mu.Lock()
		b.txCount++
		b.mu.Unlock()
	}
	return ok
}

// deliver is called by the Medium when a frame arrives for this Bus. It
// applies de-duplication, then enqueues the surviving datagram, dropping
// the oldest queued entry on overflow.
func (b *Bus) deliver(src MAC, raw [DatagramSize]byte, nowMs uint32) {
	d, ok := Decode(raw[:])
	if !ok {
		b.mu.Lock()
		b.dropRX++
		b.mu.Unlock()
		return
	}
	if !b.table.Accept(src, d.TimestampMs, nowMs) {
		return
	}

	b.mu.Lock()
	b.rxCount++
	if len(b.inbound) >= receiveQueueCapacity {
		b.inbound = b.inbound[1:]
		b.dropRX++
	}
	b.inbound = append(b.inbound, Inbound{Datagram: d, SrcMAC: src})
	b.mu.Unlock()

	select {
	case b.notEmpty <- struct{}{}:
	default:
	}
}

// Receive drains the oldest queued datagram, waiting up to timeout if the
// queue is empty.
func (b *Bus) Receive(timeout time.Duration) (Inbound, bool) {
	deadline := time.Now().Add(timeout)
	for {
		b.mu.Lock()
		if len(b.inbound) > 0 {
			in := b.inbound[0]
			b.inbound = b.inbound[1:]
			b.mu.Unlock()
			return in, true
		}
		b.mu.Unlock()

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return Inbound{}, false
		}
		select {
		case <-b.notEmpty:
		case <-time.After(remaining):
			return Inbound{}, false
		}
	}
}

// ExpireStalePeers removes every peer whose last-seen time is at least
// staleMs in the past, per the clock's current notion of "now".
func (b *Bus) ExpireStalePeers(nowMs, staleMs uint32) []MAC {
	return b.table.ExpireStale(nowMs, staleMs)
}

// Stats reports cumulative send/receive/drop counters.
type Stats struct {
	TxCount   uint64
	RxCount   uint64
	DroppedRX uint64
}

func (b *Bus) StatsSnapshot() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{TxCount: b.txCount, RxCount: b.rxCount, DroppedRX: b.dropRX}
}
