package errs

import (
	"errors"
	"testing"
)

func TestIsMatchesKind(t *testing.T) {
	err := New(KindBusy, "engine.trigger")
	if !Is(err, KindBusy) {
		t.Fatalf("expected KindBusy match")
	}
	if Is(err, KindClamped) {
		t.Fatalf("did not expect KindClamped match")
	}
	if Is(errors.New("plain"), KindBusy) {
		t.Fatalf("plain error must not match any kind")
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if Wrap(KindStorage, "nvs.put", nil) != nil {
		t.Fatalf("Wrap(nil) should return nil")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindStorage, "nvs.put", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to unwrap to cause")
	}
}
