// Package network publishes structured events for the peer bus and WS
// server core (spec §4.D, §4.F).
package network

import (
	"context"

	"github.com/raytag/endpoint/logging"
)

const (
	// EventFrameDropped is emitted when a laser or peer frame fails validation.
	EventFrameDropped logging.EventType = "network.frame_dropped"
	// EventPeerStale is emitted when a peer table entry expires.
	EventPeerStale logging.EventType = "network.peer_stale"
	// EventPeerDuplicate is emitted when a peer datagram is discarded as a
	// stale duplicate under the rolling sequence.
	EventPeerDuplicate logging.EventType = "network.peer_duplicate"
	// EventClientEvicted is emitted when a WS handshake is refused because
	// the client table is full. Stale eviction does not emit it.
	EventClientEvicted logging.EventType = "network.client_evicted"
)

// FrameDroppedPayload explains why a frame was rejected.
type FrameDroppedPayload struct {
	Reason string `json:"reason"`
}

// PeerDuplicatePayload captures the rolling sequence comparison.
type PeerDuplicatePayload struct {
	Seq        uint32 `json:"seq"`
	LastSeqRx  uint32 `json:"lastSeqRx"`
}

// ClientEvictedPayload explains why a WS client was removed.
type ClientEvictedPayload struct {
	Reason string `json:"reason"`
}

func FrameDropped(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload FrameDroppedPayload) {
	publish(ctx, pub, EventFrameDropped, tick, actor, logging.SeverityDebug, payload)
}

func PeerStale(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef) {
	publish(ctx, pub, EventPeerStale, tick, actor, logging.SeverityInfo, nil)
}

func PeerDuplicate(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PeerDuplicatePayload) {
	publish(ctx, pub, EventPeerDuplicate, tick, actor, logging.SeverityDebug, payload)
}

func ClientEvicted(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ClientEvictedPayload) {
	publish(ctx, pub, EventClientEvicted, tick, actor, logging.SeverityInfo, payload)
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
		Category: logging.CategoryNetwork,
		Payload:  payload,
	})
}
