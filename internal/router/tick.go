package router

import (
	"context"

	"github.com/raytag/endpoint/internal/admin"
	"github.com/raytag/endpoint/internal/peer"
)

// StaleAfterMs is the peer-table eviction threshold, mirrored from the WS
// client table's own stale timeout (spec §9 Open Question 3 applies the
// same 30s figure to both tables absent a peer-specific value).
const StaleAfterMs = 30_000

// Tick runs the timer task's 100ms cadence (spec §5): reload/respawn/
// game-timer expiry checks, the WS stale-client sweep, and peer-table
// eviction. Each engine-side completion is mirrored to WS as exactly one
// broadcast frame (spec §4.I: "every state-changing event causes exactly
// one broadcast frame").
func (r *Router) Tick(ctx context.Context) {
	now := r.clock.NowMs()

	if out := r.engine.TickReload(ctx); out.Completed {
		r.broadcastWS(admin.ReloadEvent{Op: admin.OpReloadEvent, Type: "reload_event", CurrentAmmo: out.CurrentAmmo})
	}
	if out := r.engine.TickRespawn(ctx); out.Completed {
		r.broadcastWS(admin.Respawn{Op: admin.OpRespawn, Type: "respawn", CurrentHearts: out.CurrentHearts})
	}
	if over := r.engine.TickGameTimer(ctx); over.Happened {
		r.broadcastWS(admin.GameOver{Op: admin.OpGameOver, Type: "game_over"})
	}

	r.hub.Tick()
	r.bus.ExpireStalePeers(now, StaleAfterMs)
}

// SendHeartbeat broadcasts a HEARTBEAT peer datagram, for a slower
// periodic timer than Tick (spec §4.D: peers are considered stale after
// a missed heartbeat window).
func (r *Router) SendHeartbeat() {
	id := r.engine.Snapshot().Identity
	sent := r.bus.Broadcast(peer.Datagram{
		Type:        peer.TypeHeartbeat,
		Version:     peer.Version,
		PlayerID:    id.PlayerID,
		DeviceID:    id.DeviceID,
		TeamID:      id.TeamID,
		ColorRGB:    id.ColorRGB,
		TimestampMs: r.nextPeerSeq(),
	})
	if sent {
		r.engine.RecordPeerTx()
	}
}
