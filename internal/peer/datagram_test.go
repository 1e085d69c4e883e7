package peer

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	d := Datagram{
		Type:        TypeShot,
		Version:     Version,
		PlayerID:    3,
		DeviceID:    7,
		TeamID:      1,
		ColorRGB:    0x00FF88,
		TimestampMs: 0xDEADBEEF,
		Data:        42,
	}
	raw := Encode(d)
	if len(raw) != DatagramSize {
		t.Fatalf("Encode produced %d bytes, want %d", len(raw), DatagramSize)
	}
	got, ok := Decode(raw[:])
	if !ok {
		t.Fatalf("Decode rejected a freshly encoded datagram")
	}
	if got != d {
		t.Fatalf("Decode(Encode(d)) = %+v, want %+v", got, d)
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	if _, ok := Decode(make([]byte, DatagramSize-1)); ok {
		t.Fatalf("expected short payload to be rejected")
	}
	if _, ok := Decode(make([]byte, DatagramSize+1)); ok {
		t.Fatalf("expected long payload to be rejected")
	}
}

func TestBroadcastMACIsAllOnes(t *testing.T) {
	for i, b := range BroadcastMAC {
		if b != 0xFF {
			t.Fatalf("BroadcastMAC[%d] = 0x%02X, want 0xFF", i, b)
		}
	}
}
