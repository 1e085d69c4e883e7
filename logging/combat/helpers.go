// Package combat publishes structured events for the hit/kill/respawn
// state machine (spec §4.E.2, §4.E.3).
package combat

import (
	"context"

	"github.com/raytag/endpoint/logging"
)

const (
	// EventHitReport is emitted for every resolved hit, fatal or not.
	EventHitReport logging.EventType = "combat.hit_report"
	// EventHitInvalid is emitted when a hit is dropped as friendly fire.
	// Hits dropped for invulnerability or respawning emit nothing.
	EventHitInvalid logging.EventType = "combat.hit_invalid"
	// EventRespawn is emitted when an endpoint returns from respawn.
	EventRespawn logging.EventType = "combat.respawn"
	// EventShotFired is emitted when a shot clears the rate limit and ammo gate.
	EventShotFired logging.EventType = "combat.shot_fired"
	// EventReload is emitted when a magazine finishes reloading.
	EventReload logging.EventType = "combat.reload"
)

// HitReportPayload mirrors the outbound hit_report frame (spec §4.G).
type HitReportPayload struct {
	ShooterID string `json:"shooterId"`
	Damage    int    `json:"damage"`
	Fatal     bool   `json:"fatal"`
}

// HitInvalidPayload explains why a hit was dropped.
type HitInvalidPayload struct {
	ShooterID string `json:"shooterId"`
	Reason    string `json:"reason"`
}

// RespawnPayload captures the hearts restored on respawn.
type RespawnPayload struct {
	CurrentHearts int `json:"currentHearts"`
}

// ShotFiredPayload captures the sequence id of a fired shot.
type ShotFiredPayload struct {
	SeqID int `json:"seqId"`
}

// ReloadPayload captures the ammo restored by a completed reload.
type ReloadPayload struct {
	CurrentAmmo int `json:"currentAmmo"`
}

// HitReport publishes a resolved hit event.
func HitReport(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload HitReportPayload) {
	publish(ctx, pub, EventHitReport, tick, actor, logging.SeverityInfo, payload)
}

// HitInvalid publishes a dropped-hit event.
func HitInvalid(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload HitInvalidPayload) {
	publish(ctx, pub, EventHitInvalid, tick, actor, logging.SeverityInfo, payload)
}

// Respawn publishes a respawn-expiry event.
func Respawn(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload RespawnPayload) {
	publish(ctx, pub, EventRespawn, tick, actor, logging.SeverityInfo, payload)
}

// ShotFired publishes a shot-fired event.
func ShotFired(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ShotFiredPayload) {
	publish(ctx, pub, EventShotFired, tick, actor, logging.SeverityDebug, payload)
}

// Reload publishes a reload-complete event.
func Reload(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ReloadPayload) {
	publish(ctx, pub, EventReload, tick, actor, logging.SeverityDebug, payload)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, tick uint64, actor logging.EntityRef, severity logging.Severity, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Severity: severity,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}
