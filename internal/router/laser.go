package router

import (
	"context"

	"github.com/raytag/endpoint/internal/admin"
	"github.com/raytag/endpoint/internal/engine"
	"github.com/raytag/endpoint/internal/laser"
	"github.com/raytag/endpoint/internal/peer"
)

// HandleLaserFrame implements the Laser RX -> Engine leg (spec §4.I): a
// hash mismatch is silently discarded without touching rx_count; a valid
// frame is dispatched as a hit.
func (r *Router) HandleLaserFrame(ctx context.Context, frame uint32) {
	f, ok := laser.Decode(frame)
	if !ok {
		return
	}
	r.engine.RecordLaserRx(r.clock.NowMs())
	r.resolveHit(ctx, f.PlayerID, f.DeviceID, 0)
}

// FireTrigger implements the Engine -> Laser TX and Engine -> Peers legs
// for a trigger pull (spec §4.I): on allow, the own LaserFrame is handed
// to the IR-LED driver and a SHOT datagram is broadcast over the peer
// bus.
func (r *Router) FireTrigger(ctx context.Context) engine.ShotOutcome {
	outcome := r.engine.TriggerPulled(ctx)
	if !outcome.Allowed {
		return outcome
	}

	id := r.engine.Snapshot().Identity
	frame := laser.Encode(id.PlayerID, id.DeviceID)
	if r.laserTX != nil {
		_ = r.laserTX.Transmit(frame)
	}

	sent := r.bus.Broadcast(peer.Datagram{
		Type:        peer.TypeShot,
		Version:     peer.Version,
		PlayerID:    id.PlayerID,
		DeviceID:    id.DeviceID,
		TeamID:      id.TeamID,
		ColorRGB:    id.ColorRGB,
		TimestampMs: r.nextPeerSeq(),
		Data:        uint32(outcome.SeqID),
	})
	if sent {
		r.engine.RecordPeerTx()
	}

	r.broadcastWS(admin.ShotFired{Op: admin.OpShotFired, Type: "shot_fired", SeqID: outcome.SeqID, TimestampMs: r.clock.NowMs()})
	return outcome
}

// hitEventFriendlyFireBit flags a HIT_EVENT's Data field as a
// friendly-fire notice to the shooter rather than a kill credit. Both
// uses pack the shooter's (player_id, device_id) into the low 16 bits,
// so the flag lives in the otherwise-unused bit 16.
const hitEventFriendlyFireBit uint32 = 1 << 16

// resolveHit is shared by the laser-RX and peer-RX legs: both deliver a
// hit to the same §4.E.3 rule, differing only in how the shooter is
// identified and whether a kill credit can round-trip back to them.
func (r *Router) resolveHit(ctx context.Context, shooterPlayerID, shooterDeviceID uint8, damage int32) {
	result := r.engine.HitReceived(ctx, engine.Shooter{
		PlayerID: shooterKey(shooterPlayerID, shooterDeviceID),
		TeamID:   r.lookupShooterTeam(shooterPlayerID, shooterDeviceID),
	}, damage)

	switch {
	case result.Invalid:
		r.broadcastWS(admin.HitInvalid{Op: admin.OpHitReport, Type: "hit_invalid", ShooterID: shooterKey(shooterPlayerID, shooterDeviceID), Reason: "friendly_fire"})
		// Let the shooter know their own shot landed as friendly fire, so
		// their side of spec §4.E.3 step 2's counter can increment too.
		r.sendHitEventNotice(shooterPlayerID, shooterDeviceID, hitEventFriendlyFireBit)
		return
	case result.Dropped:
		return
	}

	r.broadcastWS(admin.HitReport{Op: admin.OpHitReport, Type: "hit_report", Fatal: result.Fatal, ShooterID: shooterKey(shooterPlayerID, shooterDeviceID), Damage: damage})

	if !result.Fatal {
		return
	}
	r.sendHitEventNotice(shooterPlayerID, shooterDeviceID, 0)
}

// sendHitEventNotice sends a HIT_EVENT back toward the shooter identified
// by (shooterPlayerID, shooterDeviceID), carrying flag (0 for a kill
// credit, hitEventFriendlyFireBit for a friendly-fire notice) alongside
// the shooter's own id so a broadcast fallback (shooter MAC unknown) is
// only acted on by the one endpoint it's meant for.
func (r *Router) sendHitEventNotice(shooterPlayerID, shooterDeviceID uint8, flag uint32) {
	id := r.engine.Snapshot().Identity
	event := peer.Datagram{
		Type:        peer.TypeHitEvent,
		Version:     peer.Version,
		PlayerID:    id.PlayerID,
		DeviceID:    id.DeviceID,
		TeamID:      id.TeamID,
		ColorRGB:    id.ColorRGB,
		TimestampMs: r.nextPeerSeq(),
		Data:        flag | uint32(shooterPlayerID)<<8 | uint32(shooterDeviceID),
	}
	var sent bool
	if mac, known := r.lookupShooterMAC(shooterPlayerID, shooterDeviceID); known {
		sent = r.bus.Send(mac, event)
	} else {
		sent = r.bus.Broadcast(event)
	}
	if sent {
		r.engine.RecordPeerTx()
	}
}
