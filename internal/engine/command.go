package engine

import (
	"context"

	"github.com/raytag/endpoint/internal/clock"
	"github.com/raytag/endpoint/internal/errs"
	"github.com/raytag/endpoint/logging"
)

// GameCmd is one of the five admin game_command opcodes (spec §4.E.4).
type GameCmd int

const (
	CmdStop GameCmd = iota
	CmdStart
	CmdReset
	CmdPause
	CmdUnpause
)

// GameOver is emitted by TickGameTimer when the match clock expires.
type GameOver struct {
	Happened bool
}

// GameCommand runs the game command state machine (spec §4.E.4). It
// returns an error wrapping errs.KindRejected for an illegal transition;
// state is left unchanged in that case.
func (e *Engine) GameCommand(cmd GameCmd) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.NowMs()

	switch cmd {
	case CmdStart:
		if e.state.GamePhase != GameIdle {
			return errs.New(errs.KindRejected, "engine.game_command.start")
		}
		e.state.GamePhase = GameRunning
		if e.rules.GameDurationS > 0 {
			e.state.EndTimeMs = now + uint32(e.rules.GameDurationS)*1000
		}
	case CmdStop:
		if e.state.GamePhase == GameIdle {
			return errs.New(errs.KindRejected, "engine.game_command.stop")
		}
		e.state.GamePhase = GameIdle
	case CmdPause:
		if e.state.GamePhase != GameRunning {
			return errs.New(errs.KindRejected, "engine.game_command.pause")
		}
		e.state.GamePhase = GamePaused
		e.state.PauseStartMs = now
	case CmdUnpause:
		if e.state.GamePhase != GamePaused {
			return errs.New(errs.KindRejected, "engine.game_command.unpause")
		}
		e.state.GamePhase = GameRunning
		paused := now - e.state.PauseStartMs
		e.state.PauseAccumMs += paused
		if e.state.EndTimeMs != 0 {
			e.state.EndTimeMs += paused
		}
	case CmdReset:
		phase := e.state.GamePhase
		e.state.resetRuntime(e.rules)
		e.state.GamePhase = phase
	default:
		return errs.New(errs.KindRejected, "engine.game_command.unknown")
	}
	return nil
}

// TickGameTimer checks for match-timer expiry (spec §4.E.4: "on tick,
// when running and end_time_ms != 0 and now >= end_time_ms").
func (e *Engine) TickGameTimer(ctx context.Context) GameOver {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.GamePhase != GameRunning || e.state.EndTimeMs == 0 {
		return GameOver{}
	}
	if !clock.AtOrAfter(e.clock.NowMs(), e.state.EndTimeMs) {
		return GameOver{}
	}
	e.state.GamePhase = GameIdle
	e.pub.Publish(ctx, logging.Event{
		Type:     "combat.game_over",
		Tick:     uint64(e.clock.NowMs()),
		Actor:    e.actor(),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
	})
	return GameOver{Happened: true}
}
