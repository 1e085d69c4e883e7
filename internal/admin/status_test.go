package admin

import (
	"testing"

	"github.com/raytag/endpoint/internal/engine"
)

func TestBuildStatusOmitsRemainingTimeWhenIdle(t *testing.T) {
	snap := engine.Snapshot{Rules: engine.DefaultRules()}
	snap.State.GamePhase = engine.GameIdle

	s := BuildStatus(snap, 1000)
	if s.State.RemainingTimeS != nil {
		t.Fatalf("RemainingTimeS = %v, want nil while idle", *s.State.RemainingTimeS)
	}
}

func TestBuildStatusOmitsRemainingTimeWhenTimerDisabled(t *testing.T) {
	snap := engine.Snapshot{Rules: engine.DefaultRules()}
	snap.State.GamePhase = engine.GameRunning
	snap.State.EndTimeMs = 0

	s := BuildStatus(snap, 1000)
	if s.State.RemainingTimeS != nil {
		t.Fatalf("RemainingTimeS = %v, want nil when end_time_ms == 0", *s.State.RemainingTimeS)
	}
}

func TestBuildStatusReportsRemainingTimeWhileRunning(t *testing.T) {
	snap := engine.Snapshot{Rules: engine.DefaultRules()}
	snap.State.GamePhase = engine.GameRunning
	snap.State.EndTimeMs = 10_000

	s := BuildStatus(snap, 4_000)
	if s.State.RemainingTimeS == nil || *s.State.RemainingTimeS != 6 {
		t.Fatalf("RemainingTimeS = %v, want 6", s.State.RemainingTimeS)
	}
}

func TestBuildStatusClampsRemainingTimeAtZero(t *testing.T) {
	snap := engine.Snapshot{Rules: engine.DefaultRules()}
	snap.State.GamePhase = engine.GameRunning
	snap.State.EndTimeMs = 1_000

	s := BuildStatus(snap, 5_000)
	if s.State.RemainingTimeS == nil || *s.State.RemainingTimeS != 0 {
		t.Fatalf("RemainingTimeS = %v, want 0 (never negative)", s.State.RemainingTimeS)
	}
}
