package router

import (
	"context"
	"time"

	"github.com/raytag/endpoint/internal/peer"
)

// peerReceiveTimeout bounds one PumpPeerInbound iteration so the radio
// I/O task's loop stays responsive to ctx cancellation (spec §5:
// "radio I/O task never blocks on application logic").
const peerReceiveTimeout = 200 * time.Millisecond

// PumpPeerInbound drains the peer bus until ctx is cancelled. Callers run
// it as the radio I/O task's peer-side loop, in its own goroutine.
func (r *Router) PumpPeerInbound(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		in, ok := r.bus.Receive(peerReceiveTimeout)
		if !ok {
			continue
		}
		r.handlePeerDatagram(ctx, in)
	}
}

// handlePeerDatagram implements the Peers -> Engine leg (spec §4.I):
// HIT_EVENT credits a kill, or a friendly-fire notice, on this
// endpoint's player_id, but only when the datagram's Data field (the
// shooter's player_id/device_id, set by the sender, plus the
// hitEventFriendlyFireBit flag) names this endpoint's own identity — a
// HIT_EVENT that had to be broadcast (shooter MAC unknown) would
// otherwise be acted on by every peer on the channel. SHOT and
// HEARTBEAT are both informational: every datagram type carries the
// sender's team_id, so either one teaches this router the sender's
// (MAC, team_id) pair, used to route a later HIT_EVENT back to the
// right MAC and to resolve friendly fire for a laser hit received from
// them.
func (r *Router) handlePeerDatagram(_ context.Context, in peer.Inbound) {
	d := in.Datagram
	switch d.Type {
	case peer.TypeShot:
		r.rememberShooter(d.PlayerID, d.DeviceID, in.SrcMAC, d.TeamID)
	case peer.TypeHitEvent:
		id := r.engine.Snapshot().Identity
		want := uint32(id.PlayerID)<<8 | uint32(id.DeviceID)
		if d.Data&^hitEventFriendlyFireBit != want {
			break
		}
		if d.Data&hitEventFriendlyFireBit != 0 {
			r.engine.CreditFriendlyFire()
		} else {
			r.engine.CreditKill()
		}
	case peer.TypeHeartbeat:
		r.rememberShooter(d.PlayerID, d.DeviceID, in.SrcMAC, d.TeamID)
	}
}
