// Package router is the message router (spec §4.I): the glue that owns
// where events flow between the laser codec, the peer bus, the game
// engine, and the WS hub. None of those four packages import each other
// directly; this package is the only place that knows about all of them.
package router

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/raytag/endpoint/internal/clock"
	"github.com/raytag/endpoint/internal/engine"
	"github.com/raytag/endpoint/internal/peer"
	"github.com/raytag/endpoint/internal/ws"
)

// LaserTransmitter is the IR-LED driver port (spec §4.I: "encode with own
// identity and hand off to the IR-LED driver"). Real firmware backs it
// with a PWM/carrier driver; it is not implemented here.
type LaserTransmitter interface {
	Transmit(frame uint32) error
}

// shooterInfo is what the router has learned about a peer identified only
// by (player_id, device_id): its radio MAC (for routing a HIT_EVENT back
// unicast) and its team_id (for the friendly-fire check in spec §4.E.3,
// step 2), both read off the team_id field every SHOT/HEARTBEAT datagram
// already carries on the wire.
type shooterInfo struct {
	mac      peer.MAC
	macKnown bool
	teamID   uint8
}

// Router wires Laser RX/TX, the peer bus, and WS broadcasts to the
// engine's event-handler methods (spec §4.I). It holds no game state of
// its own beyond the shooter correlation table used to route HIT_EVENT
// back to, and resolve the team_id of, a peer known only by
// (player_id, device_id).
type Router struct {
	engine  *engine.Engine
	bus     *peer.Bus
	hub     *ws.Hub
	laserTX LaserTransmitter
	clock   clock.Clock

	peerSeq atomic.Uint32

	mu       chanMutex
	shooters map[string]shooterInfo
}

// chanMutex is a capacity-1 channel semaphore, matching the pattern used
// by peer.Bus's send path: a plain field guard here, no timeout needed
// since the router never holds it across I/O.
type chanMutex chan struct{}

func newChanMutex() chanMutex {
	m := make(chanMutex, 1)
	m <- struct{}{}
	return m
}

func (m chanMutex) lock()   { <-m }
func (m chanMutex) unlock() { m <- struct{}{} }

// New constructs a Router wired to its collaborators.
func New(e *engine.Engine, bus *peer.Bus, hub *ws.Hub, laserTX LaserTransmitter, c clock.Clock) *Router {
	return &Router{
		engine:   e,
		bus:      bus,
		hub:      hub,
		laserTX:  laserTX,
		clock:    c,
		mu:       newChanMutex(),
		shooters: make(map[string]shooterInfo),
	}
}

func shooterKey(playerID, deviceID uint8) string {
	return fmt.Sprintf("%d:%d", playerID, deviceID)
}

// rememberShooter records a peer's MAC and team_id as observed on an
// inbound SHOT or HEARTBEAT datagram, overwriting any prior MAC but never
// erasing a previously-learned team_id with a zero one from a datagram
// that predates the peer announcing its team (e.g. before an admin
// config update assigns it one).
func (r *Router) rememberShooter(playerID, deviceID uint8, mac peer.MAC, teamID uint8) {
	key := shooterKey(playerID, deviceID)
	r.mu.lock()
	info := r.shooters[key]
	info.mac = mac
	info.macKnown = true
	if teamID != 0 {
		info.teamID = teamID
	}
	r.shooters[key] = info
	r.mu.unlock()
}

func (r *Router) lookupShooterMAC(playerID, deviceID uint8) (peer.MAC, bool) {
	r.mu.lock()
	defer r.mu.unlock()
	info, ok := r.shooters[shooterKey(playerID, deviceID)]
	if !ok || !info.macKnown {
		return peer.MAC{}, false
	}
	return info.mac, true
}

// lookupShooterTeam reports the team_id last observed for this shooter on
// a SHOT or HEARTBEAT datagram, or 0 (no team) if none has ever arrived —
// the same default spec §4.E.3's friendly-fire comparison uses for a
// shooter with no team assigned.
func (r *Router) lookupShooterTeam(playerID, deviceID uint8) uint8 {
	r.mu.lock()
	defer r.mu.unlock()
	return r.shooters[shooterKey(playerID, deviceID)].teamID
}

func (r *Router) broadcastWS(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	r.hub.Broadcast(payload)
}

func (r *Router) nextPeerSeq() uint32 {
	return r.peerSeq.Add(1)
}
