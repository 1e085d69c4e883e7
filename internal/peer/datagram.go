// Package peer implements the peer-to-peer event bus: fixed-size datagram
// exchange between endpoints sharing a radio channel, with peer
// registration, broadcast, a bounded receive queue, and rolling-sequence
// de-duplication (spec §4.D).
package peer

import (
	"encoding/binary"
	"fmt"
)

// Type identifies the kind of datagram carried on the wire.
type Type uint8

const (
	TypeShot      Type = 0
	TypeHitEvent  Type = 1
	TypeHeartbeat Type = 2
)

// Version is the current peer-datagram wire version.
const Version uint8 = 1

// DatagramSize is the fixed, packed wire size in bytes. The field layout
// (spec §6: six header bytes, then three little-endian u32s) sums to 18,
// not the 16 quoted in the prose; the offset table is authoritative since
// the dedup sequence at offset 10 needs the full 32 bits (see §4.D).
const DatagramSize = 18

// BroadcastMAC is the reserved all-ones address meaning "every peer".
var BroadcastMAC = MAC{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// MAC is a 6-byte radio hardware address.
type MAC [6]byte

// String renders the conventional colon-hex form, the same shape
// LoadPeersFromCSV parses.
func (m MAC) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// Datagram is the packed peer-bus packet (spec §3, §6). Multi-byte fields
// are little-endian on the wire.
type Datagram struct {
	Type        Type
	Version     uint8
	PlayerID    uint8
	DeviceID    uint8
	TeamID      uint8
	Reserved    uint8
	ColorRGB    uint32
	TimestampMs uint32 // reinterpreted by the router as a rolling sequence
	Data        uint32
}

// Encode packs a Datagram into its wire representation.
func Encode(d Datagram) [DatagramSize]byte {
	var buf [DatagramSize]byte
	buf[0] = byte(d.Type)
	buf[1] = d.Version
	buf[2] = d.PlayerID
	buf[3] = d.DeviceID
	buf[4] = d.TeamID
	buf[5] = d.Reserved
	binary.LittleEndian.PutUint32(buf[6:10], d.ColorRGB)
	binary.LittleEndian.PutUint32(buf[10:14], d.TimestampMs)
	binary.LittleEndian.PutUint32(buf[14:18], d.Data)
	return buf
}

// Decode unpacks a wire datagram. It returns ok=false if the payload is
// not exactly DatagramSize bytes (spec §7 InvalidFrame).
func Decode(raw []byte) (Datagram, bool) {
	if len(raw) != DatagramSize {
		return Datagram{}, false
	}
	return Datagram{
		Type:        Type(raw[0]),
		Version:     raw[1],
		PlayerID:    raw[2],
		DeviceID:    raw[3],
		TeamID:      raw[4],
		Reserved:    raw[5],
		ColorRGB:    binary.LittleEndian.Uint32(raw[6:10]),
		TimestampMs: binary.LittleEndian.Uint32(raw[10:14]),
		Data:        binary.LittleEndian.Uint32(raw[14:18]),
	}, true
}
