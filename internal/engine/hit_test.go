package engine

import (
	"context"
	"testing"

	"github.com/raytag/endpoint/internal/clock"
	"github.com/raytag/endpoint/internal/nvs"
)

func TestFriendlyFireRejectedUnderTeamPlay(t *testing.T) {
	// S1: team_play=true, friendly_fire=false, own team_id=2, shooter team_id=2.
	e := newTestEngine()
	e.identity.TeamID = 2
	e.rules.TeamPlay = true
	e.rules.FriendlyFire = false
	e.rules.MaxHearts = Bound(5)
	e.state.CurrentHearts = 5

	out := e.HitReceived(context.Background(), Shooter{PlayerID: "7", TeamID: 2}, 1)
	if !out.Invalid {
		t.Fatalf("expected the hit to be marked Invalid (friendly fire)")
	}
	if out.CurrentHearts != 5 {
		t.Fatalf("CurrentHearts = %d, want unchanged at 5", out.CurrentHearts)
	}
	if e.state.FriendlyFireCount != 0 {
		t.Fatalf("FriendlyFireCount must only increment on the shooter's own endpoint")
	}
}

func TestFriendlyFireAllowedWhenEnabled(t *testing.T) {
	e := newTestEngine()
	e.identity.TeamID = 2
	e.rules.TeamPlay = true
	e.rules.FriendlyFire = true
	e.rules.MaxHearts = Bound(5)
	e.rules.DamageIn = 1
	e.state.CurrentHearts = 5

	out := e.HitReceived(context.Background(), Shooter{PlayerID: "7", TeamID: 2}, 0)
	if out.Invalid {
		t.Fatalf("friendly fire enabled, hit must not be marked Invalid")
	}
	if out.CurrentHearts != 4 {
		t.Fatalf("CurrentHearts = %d, want 4", out.CurrentHearts)
	}
}

func TestHitDroppedDuringInvulnerability(t *testing.T) {
	fake := clock.NewFake(1000)
	e := New(Identity{}, fake, nvs.NewMemStore(), nil)
	e.rules.MaxHearts = Bound(5)
	e.rules.InvulnerabilityMs = 2000
	e.state.CurrentHearts = 5
	e.state.LastDeathMs = 1000

	fake.Advance(500)
	out := e.HitReceived(context.Background(), Shooter{PlayerID: "1"}, 1)
	if !out.Dropped {
		t.Fatalf("expected a hit during invulnerability to be dropped")
	}
	if out.CurrentHearts != 5 {
		t.Fatalf("CurrentHearts = %d, want unchanged at 5", out.CurrentHearts)
	}
}

func TestHitIgnoredWhenMaxHeartsInfinite(t *testing.T) {
	e := newTestEngine()
	e.rules.MaxHearts = Infinite
	e.state.CurrentHearts = 1

	out := e.HitReceived(context.Background(), Shooter{PlayerID: "1"}, 1)
	if out.CurrentHearts != 1 {
		t.Fatalf("CurrentHearts = %d, want unchanged when max_hearts is infinite", out.CurrentHearts)
	}
	if out.Fatal {
		t.Fatalf("a hit must never be fatal when max_hearts is infinite")
	}
}

func TestCreditKillAndFriendlyFire(t *testing.T) {
	e := newTestEngine()
	e.CreditKill()
	e.CreditKill()
	if e.state.Kills != 2 {
		t.Fatalf("Kills = %d, want 2", e.state.Kills)
	}
	e.CreditFriendlyFire()
	if e.state.FriendlyFireCount != 1 {
		t.Fatalf("FriendlyFireCount = %d, want 1", e.state.FriendlyFireCount)
	}
}
