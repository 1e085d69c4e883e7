package admin

import (
	"context"
	"encoding/json"

	"github.com/raytag/endpoint/internal/clock"
	"github.com/raytag/endpoint/internal/engine"
	"github.com/raytag/endpoint/internal/errs"
	"github.com/raytag/endpoint/internal/ws"
)

// SoundPort dispatches a sound_id to the external sound port (spec §4.G
// op 7); deliberately out of scope for this core (spec §1: "no audio
// synthesis, only sound-id dispatch").
type SoundPort interface {
	Play(soundID int) error
}

// Telemetry supplies the two external readings a heartbeat_ack carries
// (spec §4.G op 2).
type Telemetry interface {
	BatteryVoltageMv() uint16
	RSSI() int8
}

// Dispatcher is the admin protocol v2.2 frame handler (spec §4.G): it
// decodes inbound frames, mutates the engine, and replies/broadcasts
// through the WS hub.
type Dispatcher struct {
	engine    *engine.Engine
	hub       *ws.Hub
	sound     SoundPort
	telemetry Telemetry
	clock     clock.Clock
}

// New constructs a Dispatcher wired to its collaborators.
func New(e *engine.Engine, hub *ws.Hub, sound SoundPort, telemetry Telemetry, c clock.Clock) *Dispatcher {
	return &Dispatcher{engine: e, hub: hub, sound: sound, telemetry: telemetry, clock: c}
}

// HandleFrame decodes one inbound text frame and dispatches it (spec
// §4.G). Malformed JSON is dropped silently as an InvalidFrame (spec §7).
func (d *Dispatcher) HandleFrame(ctx context.Context, from ws.SessionHandle, raw []byte) {
	var frame InboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return
	}
	op, ok := frame.resolveOp()
	if !ok {
		return // unknown op (or unmapped legacy type) is ignored
	}

	switch op {
	case OpGetStatus:
		d.replyStatus(from)
	case OpHeartbeat:
		d.replyHeartbeat(from)
	case OpConfigUpdate:
		d.handleConfigUpdate(from, frame)
	case OpGameCommand:
		d.handleGameCommand(from, frame)
	case OpHitForward:
		d.handleHitForward(ctx, from, frame)
	case OpKillConfirmed:
		d.handleKillConfirmed(from, frame)
	case OpRemoteSound:
		d.handleRemoteSound(from, frame)
	}
}

func (d *Dispatcher) send(to ws.SessionHandle, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	d.hub.SendTo(to, payload)
}

func (d *Dispatcher) broadcast(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	d.hub.Broadcast(payload)
}

func (d *Dispatcher) replyStatus(to ws.SessionHandle) {
	d.send(to, BuildStatus(d.engine.Snapshot(), d.clock.NowMs()))
}

func (d *Dispatcher) replyHeartbeat(to ws.SessionHandle) {
	var battery uint16
	var rssi int8
	if d.telemetry != nil {
		battery = d.telemetry.BatteryVoltageMv()
		rssi = d.telemetry.RSSI()
	}
	d.send(to, HeartbeatAck{Op: OpHeartbeatAck, Type: typeForOp[OpHeartbeatAck], BattVoltage: battery, RSSI: rssi})
}

func (d *Dispatcher) handleConfigUpdate(from ws.SessionHandle, frame InboundFrame) {
	result := d.engine.ApplyConfigUpdate(frame.toConfigUpdate())
	if frame.ReqID != "" {
		ack := newAck(frame.ReqID, true)
		ack.Clamped = result.Clamped
		ack.ClampedFields = result.ClampedFields
		d.send(from, ack)
	}
	d.broadcast(BuildStatus(d.engine.Snapshot(), d.clock.NowMs()))
}

func (d *Dispatcher) handleGameCommand(from ws.SessionHandle, frame InboundFrame) {
	cmd := engine.CmdStop
	if frame.Cmd != nil {
		cmd = engine.GameCmd(*frame.Cmd)
	}
	err := d.engine.GameCommand(cmd)
	success := err == nil
	if frame.ReqID != "" {
		ack := newAck(frame.ReqID, success)
		if !success {
			ack.Reason = string(errs.KindRejected)
		}
		d.send(from, ack)
	}
	if success {
		d.broadcast(BuildStatus(d.engine.Snapshot(), d.clock.NowMs()))
	}
}

func (d *Dispatcher) handleHitForward(ctx context.Context, from ws.SessionHandle, frame InboundFrame) {
	var teamID uint8
	if frame.ShooterTeamID != nil {
		teamID = *frame.ShooterTeamID
	}
	var damage int32
	if frame.Damage != nil {
		damage = *frame.Damage
	}
	result := d.engine.HitReceived(ctx, engine.Shooter{PlayerID: frame.ShooterID, TeamID: teamID}, damage)

	switch {
	case result.Invalid:
		d.broadcast(HitInvalid{Op: OpHitReport, Type: "hit_invalid", ShooterID: frame.ShooterID, Reason: "friendly_fire"})
	case result.Dropped:
		// silently dropped, spec §4.E.3 step 1.
	default:
		d.broadcast(HitReport{Op: OpHitReport, Type: typeForOp[OpHitReport], Fatal: result.Fatal, ShooterID: frame.ShooterID, Damage: damage})
	}

	if frame.ReqID != "" {
		d.send(from, newAck(frame.ReqID, true))
	}
}

func (d *Dispatcher) handleKillConfirmed(from ws.SessionHandle, frame InboundFrame) {
	d.engine.CreditKill()
	if frame.ReqID != "" {
		d.send(from, newAck(frame.ReqID, true))
	}
	d.broadcast(BuildStatus(d.engine.Snapshot(), d.clock.NowMs()))
}

func (d *Dispatcher) handleRemoteSound(from ws.SessionHandle, frame InboundFrame) {
	success := true
	if d.sound != nil && frame.SoundID != nil {
		if err := d.sound.Play(*frame.SoundID); err != nil {
			success = false
		}
	}
	if frame.ReqID != "" {
		d.send(from, newAck(frame.ReqID, success))
	}
}
