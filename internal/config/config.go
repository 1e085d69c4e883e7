// Package config resolves boot-time settings from the environment: every
// setting has a sane default, and a malformed override is logged and
// discarded rather than aborting startup.
package config

import (
	"os"
	"strconv"

	"github.com/raytag/endpoint/internal/telemetry"
)

// Config is the process-level configuration read once at startup. Game
// rules and identity are NOT here — those live in NVS and the engine, and
// are mutable at runtime via config_update (spec §4.E.1).
type Config struct {
	HTTPPort int

	// TickIntervalMs is the timer task's cadence (spec §5: "100 ms").
	TickIntervalMs int
	// HeartbeatIntervalMs is how often SendHeartbeat broadcasts a peer
	// HEARTBEAT datagram.
	HeartbeatIntervalMs int
	// WSPingIntervalMs is how often the WS hub pings connected clients.
	WSPingIntervalMs int

	// PeerChannel is the ESP-NOW-style channel locked at boot (0 keeps
	// whatever the station radio negotiates; spec §4.D init()).
	PeerChannel uint8

	// VerboseEngineLog toggles a debug event on every tick (spec-adjacent
	// Config; see internal/observability.Config).
	VerboseEngineLog bool

	// LogJSONPath, when non-empty, turns on a JSON capture-to-flash
	// logging sink alongside the console sink. No HTTP route serves
	// the file.
	LogJSONPath string
}

// Default returns the factory-default process configuration.
func Default() Config {
	return Config{
		HTTPPort:            80,
		TickIntervalMs:       100,
		HeartbeatIntervalMs:  2000,
		WSPingIntervalMs:     15000,
		PeerChannel:          0,
		VerboseEngineLog:     false,
	}
}

// FromEnv overlays environment variable overrides onto Default(), logging
// and discarding any value that fails to parse.
func FromEnv(logger telemetry.Logger) Config {
	cfg := Default()
	if logger == nil {
		logger = telemetry.LoggerFunc(func(string, ...any) {})
	}

	if raw := os.Getenv("RAYTAG_HTTP_PORT"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			cfg.HTTPPort = v
		} else {
			logger.Printf("invalid RAYTAG_HTTP_PORT=%q: %v", raw, err)
		}
	}
	if raw := os.Getenv("RAYTAG_TICK_INTERVAL_MS"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			cfg.TickIntervalMs = v
		} else {
			logger.Printf("invalid RAYTAG_TICK_INTERVAL_MS=%q: %v", raw, err)
		}
	}
	if raw := os.Getenv("RAYTAG_HEARTBEAT_INTERVAL_MS"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			cfg.HeartbeatIntervalMs = v
		} else {
			logger.Printf("invalid RAYTAG_HEARTBEAT_INTERVAL_MS=%q: %v", raw, err)
		}
	}
	if raw := os.Getenv("RAYTAG_WS_PING_INTERVAL_MS"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			cfg.WSPingIntervalMs = v
		} else {
			logger.Printf("invalid RAYTAG_WS_PING_INTERVAL_MS=%q: %v", raw, err)
		}
	}
	if raw := os.Getenv("RAYTAG_PEER_CHANNEL"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 8); err == nil {
			cfg.PeerChannel = uint8(v)
		} else {
			logger.Printf("invalid RAYTAG_PEER_CHANNEL=%q: %v", raw, err)
		}
	}
	if raw := os.Getenv("RAYTAG_VERBOSE_ENGINE_LOG"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cfg.VerboseEngineLog = v
		} else {
			logger.Printf("invalid RAYTAG_VERBOSE_ENGINE_LOG=%q: %v", raw, err)
		}
	}
	if raw := os.Getenv("RAYTAG_LOG_JSON_PATH"); raw != "" {
		cfg.LogJSONPath = raw
	}

	return cfg
}
