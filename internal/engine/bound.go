// Package engine implements the game-state engine (spec §4.E): device
// identity, the mutable rule set, live match state, and the shot/hit/kill/
// respawn/game-command state machines, all behind a single non-recursive
// lock owned by the engine's event handler.
package engine

// Bound is a numeric field that is either a non-negative value or
// Infinite. Several rule fields (max_hearts, max_ammo) use -1 on the wire
// to mean "unbounded"; Bound keeps that sentinel from leaking into
// arithmetic by forcing every comparison through IsInfinite.
type Bound int32

// Infinite is the unbounded value of a Bound field.
const Infinite Bound = -1

// IsInfinite reports whether b represents "unbounded".
func (b Bound) IsInfinite() bool { return b < 0 }

// Value returns the finite magnitude. Callers must check IsInfinite first;
// Value on an infinite Bound returns -1 verbatim.
func (b Bound) Value() int32 { return int32(b) }

// clampBound coerces v into [lo, hi], or passes -1 through unchanged when
// infinityAllowed and v is negative. It reports whether coercion changed
// the value.
func clampBound(v int32, lo, hi int32, infinityAllowed bool) (Bound, bool) {
	if infinityAllowed && v < 0 {
		return Infinite, false
	}
	if v < lo {
		return Bound(lo), true
	}
	if v > hi {
		return Bound(hi), true
	}
	return Bound(v), false
}

// clampInt coerces v into [lo, hi] with no infinity sentinel, reporting
// whether coercion changed the value.
func clampInt(v, lo, hi int32) (int32, bool) {
	if v < lo {
		return lo, true
	}
	if v > hi {
		return hi, true
	}
	return v, false
}
