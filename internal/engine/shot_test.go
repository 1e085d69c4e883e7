package engine

import (
	"context"
	"testing"

	"github.com/raytag/endpoint/internal/clock"
	"github.com/raytag/endpoint/internal/nvs"
)

func mustStart(t *testing.T, e *Engine) {
	t.Helper()
	if err := e.GameCommand(CmdStart); err != nil {
		t.Fatalf("GameCommand(CmdStart): %v", err)
	}
}

func TestTriggerPulledDeniedWhenGameNotRunning(t *testing.T) {
	e := newTestEngine()
	out := e.TriggerPulled(context.Background())
	if out.Allowed || out.Denied != DenyGameNotRunning {
		t.Fatalf("expected DenyGameNotRunning on a never-started engine, got %+v", out)
	}
}

func TestTriggerPulledDeniedAfterGameOverUntilRestart(t *testing.T) {
	// S4: after the match timer expires and emits game_over, shots are
	// denied until game_command:START runs again.
	fake := clock.NewFake(0)
	e := New(Identity{}, fake, nvs.NewMemStore(), nil)
	e.rules.GameDurationS = 2
	mustStart(t, e)

	fake.Advance(2001)
	if over := e.TickGameTimer(context.Background()); !over.Happened {
		t.Fatalf("expected the match timer to expire")
	}

	out := e.TriggerPulled(context.Background())
	if out.Allowed || out.Denied != DenyGameNotRunning {
		t.Fatalf("expected shots denied after game_over, got %+v", out)
	}

	mustStart(t, e)
	out = e.TriggerPulled(context.Background())
	if !out.Allowed {
		t.Fatalf("expected shots allowed again after a fresh START, got %+v", out)
	}
}

func TestTriggerPulledDeniedByRateLimit(t *testing.T) {
	fake := clock.NewFake(0)
	e := New(Identity{}, fake, nvs.NewMemStore(), nil)
	e.rules.ShotRateLimitMs = 250
	mustStart(t, e)

	first := e.TriggerPulled(context.Background())
	if !first.Allowed {
		t.Fatalf("expected the first shot to be allowed")
	}

	second := e.TriggerPulled(context.Background())
	if second.Allowed || second.Denied != DenyRateLimited {
		t.Fatalf("expected the immediate second shot to be rate-limited, got %+v", second)
	}

	fake.Advance(251)
	third := e.TriggerPulled(context.Background())
	if !third.Allowed {
		t.Fatalf("expected the shot after the rate-limit window to be allowed")
	}
}

func TestTriggerPulledDeniedWhileRespawning(t *testing.T) {
	e := newTestEngine()
	mustStart(t, e)
	e.state.IsRespawning = true
	out := e.TriggerPulled(context.Background())
	if out.Allowed || out.Denied != DenyRespawning {
		t.Fatalf("expected DenyRespawning, got %+v", out)
	}
}

func TestTriggerPulledDeniedOutOfAmmo(t *testing.T) {
	e := newTestEngine()
	mustStart(t, e)
	e.rules.MaxAmmo = Bound(1)
	e.state.CurrentAmmo = 0
	out := e.TriggerPulled(context.Background())
	if out.Allowed || out.Denied != DenyOutOfAmmo {
		t.Fatalf("expected DenyOutOfAmmo, got %+v", out)
	}
}

func TestTriggerPulledSeqIDWrapsModulo256(t *testing.T) {
	// S5: 260 shots separated by shot_rate_limit_ms+1 -> seq sequence
	// (0,1,...,255,0,1,2,3); shots_fired increments by 260.
	fake := clock.NewFake(0)
	e := New(Identity{}, fake, nvs.NewMemStore(), nil)
	e.rules.ShotRateLimitMs = 50
	e.rules.UnlimitedAmmo = true
	mustStart(t, e)

	var seqs []uint8
	for i := 0; i < 260; i++ {
		fake.Advance(51)
		out := e.TriggerPulled(context.Background())
		if !out.Allowed {
			t.Fatalf("shot %d unexpectedly denied: %+v", i, out)
		}
		seqs = append(seqs, out.SeqID)
	}
	if seqs[0] != 0 || seqs[255] != 255 || seqs[256] != 0 || seqs[259] != 3 {
		t.Fatalf("seq sequence wrong at boundaries: [0]=%d [255]=%d [256]=%d [259]=%d",
			seqs[0], seqs[255], seqs[256], seqs[259])
	}
	if e.state.ShotsFired != 260 {
		t.Fatalf("ShotsFired = %d, want 260", e.state.ShotsFired)
	}
}

func TestReloadRestoresCurrentAmmo(t *testing.T) {
	fake := clock.NewFake(0)
	e := New(Identity{}, fake, nvs.NewMemStore(), nil)
	e.rules.MaxAmmo = Bound(30)
	e.rules.ReloadTimeMs = 1000
	e.RequestReload()

	if out := e.TickReload(context.Background()); out.Completed {
		t.Fatalf("reload should not complete before its deadline")
	}
	fake.Advance(1001)
	out := e.TickReload(context.Background())
	if !out.Completed || out.CurrentAmmo != 30 {
		t.Fatalf("TickReload = %+v, want completed with CurrentAmmo=30", out)
	}
}

func TestRespawnRestoresSpawnHearts(t *testing.T) {
	// S2: fatal hit with respawn_time_ms=5000 -> at t+5000±tick, respawn
	// broadcast, current_hearts restored.
	fake := clock.NewFake(0)
	e := New(Identity{}, fake, nvs.NewMemStore(), nil)
	e.rules.MaxHearts = Bound(3)
	e.rules.SpawnHearts = 3
	e.rules.RespawnTimeMs = 5000
	e.rules.DamageIn = 1
	e.state.CurrentHearts = 1

	hit := e.HitReceived(context.Background(), Shooter{PlayerID: "9"}, 0)
	if !hit.Fatal || hit.CurrentHearts != 0 {
		t.Fatalf("expected a fatal hit to zero hearts, got %+v", hit)
	}
	if !e.state.IsRespawning {
		t.Fatalf("expected IsRespawning after a fatal hit")
	}

	fake.Advance(5001)
	out := e.TickRespawn(context.Background())
	if !out.Completed || out.CurrentHearts != 3 {
		t.Fatalf("TickRespawn = %+v, want completed with CurrentHearts=3", out)
	}
	if e.state.IsRespawning {
		t.Fatalf("expected IsRespawning cleared after respawn")
	}
}
