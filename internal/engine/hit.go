package engine

import (
	"context"

	"github.com/raytag/endpoint/logging/combat"
)

// Shooter identifies the originator of an inbound hit, as resolved by the
// message router from a laser frame or a peer HIT_EVENT (spec §4.I).
type Shooter struct {
	PlayerID string // opaque id string; the router formats it from player_id/device_id
	TeamID   uint8
	Known    bool // whether the shooter's peer MAC is known, for crediting a kill back
}

// HitResult reports the resolution of an inbound hit for the router to
// act on (peer HIT_EVENT to the shooter, WS broadcast).
type HitResult struct {
	Dropped       bool
	Invalid       bool // friendly fire; router should emit hit_invalid
	Fatal         bool
	CurrentHearts int32
}

// HitReceived runs the hit/kill resolution rule (spec §4.E.3). damage, if
// zero, defaults to rules.DamageIn.
func (e *Engine) HitReceived(ctx context.Context, shooter Shooter, damage int32) HitResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.NowMs()

	// 1. Respawning or still invulnerable: drop silently. The
	// invulnerability window only exists once a death has been recorded.
	died := e.state.Deaths > 0 || e.state.LastDeathMs != 0
	if e.state.IsRespawning || (died && now-e.state.LastDeathMs < uint32(e.rules.InvulnerabilityMs)) {
		return HitResult{Dropped: true, CurrentHearts: e.state.CurrentHearts}
	}

	// 2. Friendly fire under team play: drop, emit hit_invalid.
	if e.rules.TeamPlay && !e.rules.FriendlyFire && shooter.TeamID == e.identity.TeamID {
		combat.HitInvalid(ctx, e.pub, uint64(now), e.actor(), combat.HitInvalidPayload{
			ShooterID: shooter.PlayerID,
			Reason:    "friendly_fire",
		})
		return HitResult{Invalid: true, CurrentHearts: e.state.CurrentHearts}
	}

	if damage == 0 {
		damage = e.rules.DamageIn
	}

	// 3. Apply damage, hearts unchanged when unbounded.
	if !e.rules.MaxHearts.IsInfinite() {
		e.state.CurrentHearts -= damage
		if e.state.CurrentHearts < 0 {
			e.state.CurrentHearts = 0
		}
	}
	e.state.HitsLanded++

	fatal := !e.rules.MaxHearts.IsInfinite() && e.state.CurrentHearts == 0 && e.rules.EnableHearts

	if fatal {
		e.state.IsRespawning = true
		e.state.ShotPhase = PhaseRespawning
		e.state.RespawnEndMs = now + uint32(e.rules.RespawnTimeMs)
		e.state.LastDeathMs = now
		e.state.Deaths++
	}

	combat.HitReport(ctx, e.pub, uint64(now), e.actor(), combat.HitReportPayload{
		ShooterID: shooter.PlayerID,
		Damage:    int(damage),
		Fatal:     fatal,
	})

	return HitResult{Fatal: fatal, CurrentHearts: e.state.CurrentHearts}
}

// CreditKill is invoked by the router when a peer HIT_EVENT arrives
// crediting this endpoint's player_id with a kill (spec §4.I).
func (e *Engine) CreditKill() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Kills++
}

// CreditFriendlyFire increments the shooter-side friendly_fire_count, used
// when this endpoint is the one behaving as the shooter (spec §4.E.3
// step 2: the shooter's own counter, not the victim's).
func (e *Engine) CreditFriendlyFire() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.FriendlyFireCount++
}
