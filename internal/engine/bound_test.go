package engine

import "testing"

func TestClampBoundAllowsInfinity(t *testing.T) {
	b, clamped := clampBound(-1, 1, 99, true)
	if !b.IsInfinite() || clamped {
		t.Fatalf("clampBound(-1) = %v, %v; want Infinite, false", b, clamped)
	}
}

func TestClampBoundCoercesOutOfRange(t *testing.T) {
	b, clamped := clampBound(500, 1, 99, true)
	if b.Value() != 99 || !clamped {
		t.Fatalf("clampBound(500) = %v, %v; want 99, true", b, clamped)
	}
}

func TestClampIntIsIdempotent(t *testing.T) {
	v1, clamped1 := clampInt(5000, 50, 2000)
	v2, clamped2 := clampInt(v1, 50, 2000)
	if !clamped1 {
		t.Fatalf("expected the first clamp to coerce 5000 into range")
	}
	if v1 != v2 || clamped2 {
		t.Fatalf("clamping an already-clamped value changed it: %d -> %d", v1, v2)
	}
}
