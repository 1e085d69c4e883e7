package admin

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/raytag/endpoint/internal/clock"
	"github.com/raytag/endpoint/internal/engine"
	"github.com/raytag/endpoint/internal/nvs"
	"github.com/raytag/endpoint/internal/ws"
)

var errBoom = errors.New("boom")

type fakeSound struct {
	played []int
	fail   bool
}

func (f *fakeSound) Play(id int) error {
	if f.fail {
		return errBoom
	}
	f.played = append(f.played, id)
	return nil
}

func newTestDispatcher() (*Dispatcher, *engine.Engine, *fakeSound) {
	fake := clock.NewFake(0)
	e := engine.New(engine.Identity{PlayerID: 1, TeamID: 1}, fake, nvs.NewMemStore(), nil)
	hub := ws.NewHub(fake, nil, nil) // no clients handshaked: SendTo/Broadcast are no-ops
	sound := &fakeSound{}
	return New(e, hub, sound, nil, fake), e, sound
}

func TestHandleFrameConfigUpdateAppliesClamp(t *testing.T) {
	d, e, _ := newTestDispatcher()
	raw := []byte(`{"op":3,"req_id":"r1","max_hearts":999999}`)

	d.HandleFrame(context.Background(), ws.SessionHandle("nobody"), raw)

	snap := e.Snapshot()
	if snap.Rules.MaxHearts.Value() != 99 {
		t.Fatalf("MaxHearts = %d after clamp, want 99", snap.Rules.MaxHearts.Value())
	}
}

func TestHandleFrameGameCommandStartThenRejectsDoubleStart(t *testing.T) {
	d, e, _ := newTestDispatcher()
	start := int(engine.CmdStart)

	d.HandleFrame(context.Background(), ws.SessionHandle("nobody"), mustJSON(t, InboundFrame{Op: opPtr(OpGameCommand), Cmd: &start}))
	if e.Snapshot().State.GamePhase != engine.GameRunning {
		t.Fatalf("game should be running after the first start")
	}

	// Second start with the same cmd is an illegal transition; state must
	// not change and no panic on the (client-less) ack path.
	d.HandleFrame(context.Background(), ws.SessionHandle("nobody"), mustJSON(t, InboundFrame{Op: opPtr(OpGameCommand), Cmd: &start, ReqID: "r2"}))
	if e.Snapshot().State.GamePhase != engine.GameRunning {
		t.Fatalf("phase should remain Running after a rejected re-start")
	}
}

func TestHandleFrameHitForwardAppliesDamage(t *testing.T) {
	d, e, _ := newTestDispatcher()
	damage := int32(1)
	shooterTeam := uint8(9) // different team, not friendly fire

	d.HandleFrame(context.Background(), ws.SessionHandle("nobody"), mustJSON(t, InboundFrame{
		Op:            opPtr(OpHitForward),
		ShooterID:     "weapon-7",
		ShooterTeamID: &shooterTeam,
		Damage:        &damage,
	}))

	before := engine.DefaultRules().SpawnHearts
	snap := e.Snapshot()
	if snap.State.CurrentHearts != before-1 {
		t.Fatalf("CurrentHearts = %d, want %d", snap.State.CurrentHearts, before-1)
	}
	if snap.State.HitsLanded != 1 {
		t.Fatalf("HitsLanded = %d, want 1", snap.State.HitsLanded)
	}
}

func TestHandleFrameHitForwardFriendlyFireIsDropped(t *testing.T) {
	d, e, _ := newTestDispatcher()

	var u engine.ConfigUpdate
	teamPlay := true
	u.TeamPlay = &teamPlay
	e.ApplyConfigUpdate(u)

	sameTeam := uint8(1) // matches the dispatcher's own identity team (1)
	d.HandleFrame(context.Background(), ws.SessionHandle("nobody"), mustJSON(t, InboundFrame{
		Op:            opPtr(OpHitForward),
		ShooterID:     "weapon-7",
		ShooterTeamID: &sameTeam,
	}))

	if e.Snapshot().State.HitsLanded != 0 {
		t.Fatalf("friendly fire should not register a hit when friendly_fire is disabled")
	}
}

func TestHandleFrameKillConfirmedIncrementsKills(t *testing.T) {
	d, e, _ := newTestDispatcher()
	d.HandleFrame(context.Background(), ws.SessionHandle("nobody"), mustJSON(t, InboundFrame{Op: opPtr(OpKillConfirmed)}))
	if e.Snapshot().State.Kills != 1 {
		t.Fatalf("Kills = %d, want 1", e.Snapshot().State.Kills)
	}
}

func TestHandleFrameRemoteSoundDispatchesToPort(t *testing.T) {
	d, _, sound := newTestDispatcher()
	id := 4
	d.HandleFrame(context.Background(), ws.SessionHandle("nobody"), mustJSON(t, InboundFrame{Op: opPtr(OpRemoteSound), SoundID: &id}))
	if len(sound.played) != 1 || sound.played[0] != 4 {
		t.Fatalf("played = %v, want [4]", sound.played)
	}
}

func TestHandleFrameUnknownOpIsIgnored(t *testing.T) {
	d, e, _ := newTestDispatcher()
	before := e.Snapshot()
	d.HandleFrame(context.Background(), ws.SessionHandle("nobody"), []byte(`{"op":99}`))
	after := e.Snapshot()
	if before.State != after.State {
		t.Fatalf("an unknown op must not mutate engine state")
	}
}

func TestHandleFrameMalformedJSONIsIgnored(t *testing.T) {
	d, e, _ := newTestDispatcher()
	before := e.Snapshot()
	d.HandleFrame(context.Background(), ws.SessionHandle("nobody"), []byte(`not json`))
	after := e.Snapshot()
	if before.State != after.State {
		t.Fatalf("malformed JSON must not mutate engine state")
	}
}

func opPtr(op int) *int {
	return &op
}

func mustJSON(t *testing.T, f InboundFrame) []byte {
	t.Helper()
	b, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal InboundFrame: %v", err)
	}
	return b
}
