package engine

import (
	"context"
	"testing"

	"github.com/raytag/endpoint/internal/clock"
	"github.com/raytag/endpoint/internal/errs"
	"github.com/raytag/endpoint/internal/nvs"
)

func TestGameCommandLegalTransitions(t *testing.T) {
	e := newTestEngine()

	if err := e.GameCommand(CmdStart); err != nil {
		t.Fatalf("START from Idle: %v", err)
	}
	if e.state.GamePhase != GameRunning {
		t.Fatalf("GamePhase = %v, want GameRunning", e.state.GamePhase)
	}
	if err := e.GameCommand(CmdPause); err != nil {
		t.Fatalf("PAUSE from Running: %v", err)
	}
	if err := e.GameCommand(CmdUnpause); err != nil {
		t.Fatalf("UNPAUSE from Paused: %v", err)
	}
	if err := e.GameCommand(CmdStop); err != nil {
		t.Fatalf("STOP from Running: %v", err)
	}
	if e.state.GamePhase != GameIdle {
		t.Fatalf("GamePhase = %v, want GameIdle", e.state.GamePhase)
	}
}

func TestGameCommandRejectsIllegalTransition(t *testing.T) {
	e := newTestEngine()
	err := e.GameCommand(CmdUnpause) // Idle -> Unpause is illegal
	if !errs.Is(err, errs.KindRejected) {
		t.Fatalf("expected KindRejected, got %v", err)
	}
	if e.state.GamePhase != GameIdle {
		t.Fatalf("state must be unchanged after a rejected transition")
	}
}

func TestGameCommandStartWithDurationSetsEndTime(t *testing.T) {
	fake := clock.NewFake(1000)
	e := New(Identity{}, fake, nvs.NewMemStore(), nil)
	e.rules.GameDurationS = 2

	if err := e.GameCommand(CmdStart); err != nil {
		t.Fatalf("START: %v", err)
	}
	if e.state.EndTimeMs != 3000 {
		t.Fatalf("EndTimeMs = %d, want 3000", e.state.EndTimeMs)
	}
}

func TestGameCommandPauseFreezesRemainingTime(t *testing.T) {
	fake := clock.NewFake(0)
	e := New(Identity{}, fake, nvs.NewMemStore(), nil)
	e.rules.GameDurationS = 10
	e.GameCommand(CmdStart) // end_time_ms = 10000

	fake.Advance(3000)
	e.GameCommand(CmdPause)
	fake.Advance(5000) // time passes while paused
	e.GameCommand(CmdUnpause)

	if e.state.EndTimeMs != 15000 {
		t.Fatalf("EndTimeMs = %d, want 15000 (10000 + 5000 paused interval)", e.state.EndTimeMs)
	}
}

func TestTickGameTimerFiresGameOverExactlyOnce(t *testing.T) {
	// S4: game_duration_s=2, START -> at ~2s, game_over broadcast exactly once.
	fake := clock.NewFake(0)
	e := New(Identity{}, fake, nvs.NewMemStore(), nil)
	e.rules.GameDurationS = 2
	e.GameCommand(CmdStart)

	if out := e.TickGameTimer(context.Background()); out.Happened {
		t.Fatalf("timer must not fire before its deadline")
	}

	fake.Advance(2001)
	if out := e.TickGameTimer(context.Background()); !out.Happened {
		t.Fatalf("expected game_over at the deadline")
	}
	if e.state.GamePhase != GameIdle {
		t.Fatalf("GamePhase = %v, want GameIdle after game_over", e.state.GamePhase)
	}

	if out := e.TickGameTimer(context.Background()); out.Happened {
		t.Fatalf("game_over must fire exactly once, not on every subsequent tick")
	}
}

func TestGameCommandResetClearsStatsButKeepsPhase(t *testing.T) {
	e := newTestEngine()
	e.GameCommand(CmdStart)
	e.state.ShotsFired = 42

	if err := e.GameCommand(CmdReset); err != nil {
		t.Fatalf("RESET: %v", err)
	}
	if e.state.ShotsFired != 0 {
		t.Fatalf("ShotsFired = %d, want 0 after RESET", e.state.ShotsFired)
	}
	if e.state.GamePhase != GameRunning {
		t.Fatalf("GamePhase = %v, want GameRunning preserved across RESET", e.state.GamePhase)
	}
}
