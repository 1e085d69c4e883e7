package engine

import (
	"context"

	"github.com/raytag/endpoint/internal/clock"
	"github.com/raytag/endpoint/logging/combat"
)

// ShotOutcome reports what TriggerPulled decided, for the router to act
// on (encode+emit a LaserFrame, broadcast shot_fired to WS and peers).
type ShotOutcome struct {
	Allowed bool
	Denied  DenyReason
	SeqID   uint8
}

// DenyReason explains why a trigger pull was refused.
type DenyReason int

const (
	DenyNone DenyReason = iota
	DenyRespawning
	DenyReloading
	DenyRateLimited
	DenyOutOfAmmo
	DenyGameNotRunning
)

// TriggerPulled runs the trigger-pulled rule (spec §4.E.2). On allow it
// decrements ammo, advances last_shot_ms, increments shots_fired and the
// rolling seq_id (mod 256), and publishes a shot_fired event; it does not
// itself encode the LaserFrame or talk to the peer bus — that belongs to
// the router (spec §4.I), which is handed SeqID to do so.
func (e *Engine) TriggerPulled(ctx context.Context) ShotOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.GamePhase != GameRunning {
		return ShotOutcome{Denied: DenyGameNotRunning}
	}
	if e.state.IsRespawning {
		return ShotOutcome{Denied: DenyRespawning}
	}
	if e.state.IsReloading {
		return ShotOutcome{Denied: DenyReloading}
	}
	now := e.clock.NowMs()
	// The rate limit runs from the previous shot; the first shot after a
	// reset is never rate-limited.
	if e.state.ShotsFired > 0 && now-e.state.LastShotMs < uint32(e.rules.ShotRateLimitMs) {
		return ShotOutcome{Denied: DenyRateLimited}
	}
	hasAmmo := e.rules.MaxAmmo.IsInfinite() || e.rules.UnlimitedAmmo || e.state.CurrentAmmo > 0
	if !hasAmmo {
		return ShotOutcome{Denied: DenyOutOfAmmo}
	}

	if !e.rules.MaxAmmo.IsInfinite() && !e.rules.UnlimitedAmmo {
		e.state.CurrentAmmo--
		if e.state.CurrentAmmo == 0 {
			e.beginReload(now)
		}
	}
	e.state.LastShotMs = now
	e.state.ShotsFired++
	seq := e.state.SeqID
	e.state.SeqID++ // uint8 wraps mod 256 automatically

	combat.ShotFired(ctx, e.pub, uint64(now), e.actor(), combat.ShotFiredPayload{SeqID: int(seq)})

	return ShotOutcome{Allowed: true, SeqID: seq}
}

// RequestReload forces a transition into Reloading. The automatic
// empty-magazine reload in TriggerPulled goes through the same beginReload.
func (e *Engine) RequestReload() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.beginReload(e.clock.NowMs())
}

func (e *Engine) beginReload(now uint32) {
	if e.state.IsReloading {
		return
	}
	e.state.IsReloading = true
	e.state.ShotPhase = PhaseReloading
	e.state.ReloadEndMs = now + uint32(e.rules.ReloadTimeMs)
}

// ReloadOutcome reports whether a reload completed on this tick.
type ReloadOutcome struct {
	Completed   bool
	CurrentAmmo int32
}

// TickReload checks reload expiry (spec §4.E.2: "on expiry restore
// current_ammo").
func (e *Engine) TickReload(ctx context.Context) ReloadOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.IsReloading || clock.Before(e.clock.NowMs(), e.state.ReloadEndMs) {
		return ReloadOutcome{}
	}
	e.state.IsReloading = false
	e.state.ShotPhase = PhaseIdle
	if e.rules.MagCapacity != 0 {
		e.state.CurrentAmmo = e.rules.MagCapacity
	} else if !e.rules.MaxAmmo.IsInfinite() {
		e.state.CurrentAmmo = e.rules.MaxAmmo.Value()
	}

	combat.Reload(ctx, e.pub, uint64(e.clock.NowMs()), e.actor(), combat.ReloadPayload{CurrentAmmo: int(e.state.CurrentAmmo)})
	return ReloadOutcome{Completed: true, CurrentAmmo: e.state.CurrentAmmo}
}

// RespawnOutcome reports whether a respawn completed on this tick.
type RespawnOutcome struct {
	Completed     bool
	CurrentHearts int32
}

// TickRespawn checks respawn expiry (spec §4.E.2).
func (e *Engine) TickRespawn(ctx context.Context) RespawnOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.IsRespawning || clock.Before(e.clock.NowMs(), e.state.RespawnEndMs) {
		return RespawnOutcome{}
	}
	e.state.IsRespawning = false
	e.state.ShotPhase = PhaseIdle
	e.state.CurrentHearts = spawnOrMaxHearts(e.rules)

	combat.Respawn(ctx, e.pub, uint64(e.clock.NowMs()), e.actor(), combat.RespawnPayload{CurrentHearts: int(e.state.CurrentHearts)})
	return RespawnOutcome{Completed: true, CurrentHearts: e.state.CurrentHearts}
}
