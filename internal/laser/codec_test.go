package laser

import "testing"

func TestRoundTripAllIDs(t *testing.T) {
	for p := 0; p < 256; p += 17 {
		for d := 0; d < 256; d += 23 {
			frame := Encode(uint8(p), uint8(d))
			got, ok := Decode(frame)
			if !ok {
				t.Fatalf("Decode(Encode(%d,%d)) failed to decode", p, d)
			}
			if got.PlayerID != uint8(p) || got.DeviceID != uint8(d) {
				t.Fatalf("Decode(Encode(%d,%d)) = %+v", p, d, got)
			}
		}
	}
}

func TestLineIdlePatternsNeverDecode(t *testing.T) {
	for _, frame := range []uint32{0x00000000, 0xFFFFFFFF, 0x0000FFFF, 0xFFFF0000} {
		if _, ok := Decode(frame); ok {
			t.Fatalf("line-idle pattern 0x%08X decoded, want rejection", frame)
		}
	}
}

func TestSingleHashMismatchRejected(t *testing.T) {
	frame := Encode(7, 9)
	corrupted := frame ^ 0x0000FF00 // flip hash(player_id) byte only
	if _, ok := Decode(corrupted); ok {
		t.Fatalf("expected single-byte hash corruption to reject the frame")
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	if Encode(1, 2) != Encode(1, 2) {
		t.Fatalf("Encode must be pure/deterministic")
	}
}
