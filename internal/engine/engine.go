package engine

import (
	"fmt"
	"sync"

	"github.com/raytag/endpoint/internal/clock"
	"github.com/raytag/endpoint/internal/errs"
	"github.com/raytag/endpoint/internal/nvs"
	"github.com/raytag/endpoint/logging"
)

// Engine owns DeviceIdentity, Rules, and LiveState behind a single
// non-recursive mutex (spec §5: "one lock, one owner"). Every public
// method is the engine task's event handler for one inbound event. The
// one exception to lock-free I/O is persist(), which ApplyConfigUpdate
// calls while still holding the lock.
type Engine struct {
	mu sync.Mutex

	identity Identity
	rules    Rules
	state    LiveState

	clock clock.Clock
	store nvs.Store
	pub   logging.Publisher
}

// New constructs an Engine seeded with identity and factory-default
// rules, then resets live state from those rules.
func New(identity Identity, c clock.Clock, store nvs.Store, pub logging.Publisher) *Engine {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	e := &Engine{
		identity: identity,
		rules:    DefaultRules(),
		clock:    c,
		store:    store,
		pub:      pub,
	}
	e.state.resetRuntime(e.rules)
	return e
}

func (e *Engine) actor() logging.EntityRef {
	return logging.EntityRef{ID: fmt.Sprintf("player-%d", e.identity.PlayerID), Kind: logging.EntityKindEndpoint}
}

// Snapshot is a read-only copy of engine state, safe to hold without the
// engine's lock (spec §5: "external readers of snapshots take the lock
// briefly to copy out").
type Snapshot struct {
	Identity Identity
	Rules    Rules
	State    LiveState
}

// Snapshot copies out the engine's current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{Identity: e.identity, Rules: e.rules, State: e.state}
}

// persist writes identity fields to NVS (spec §4.E.1 step 7: "Rules are
// kept in RAM"). A Storage error is returned to ApplyConfigUpdate, which
// reports it in ConfigResult.PersistErr; in-RAM state remains
// authoritative either way (spec §7).
func (e *Engine) persist() error {
	if e.store == nil {
		return nil
	}
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	record(e.store.PutUint8("game", "device_id_u8", e.identity.DeviceID))
	record(e.store.PutUint8("game", "player_id_u8", e.identity.PlayerID))
	record(e.store.PutUint8("game", "team_id_u8", e.identity.TeamID))
	record(e.store.PutUint32("game", "color_u32", e.identity.ColorRGB))
	record(e.store.PutString("game", "device_name", e.identity.DeviceName))
	record(e.store.PutString("game", "role", string(e.identity.Role)))
	if firstErr != nil {
		return errs.Wrap(errs.KindStorage, "engine.persist", firstErr)
	}
	return nil
}
