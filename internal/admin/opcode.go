// Package admin implements the admin WebSocket protocol v2.2 dispatcher
// (spec §4.G): the OpCode JSON registry, inbound command handling, and
// the canonical status/ack/event frames sent back to clients.
package admin

// Inbound opcodes (client -> device).
const (
	OpGetStatus     = 1
	OpHeartbeat     = 2
	OpConfigUpdate  = 3
	OpGameCommand   = 4
	OpHitForward    = 5
	OpKillConfirmed = 6
	OpRemoteSound   = 7
)

// Outbound opcodes (device -> client).
const (
	OpStatus       = 10
	OpHeartbeatAck = 11
	OpShotFired    = 12
	OpHitReport    = 13
	OpRespawn      = 14
	OpReloadEvent  = 15
	OpGameOver     = 16
	OpAck          = 20
)

// legacyTypeToOp is the compatibility fallback for frames that carry a
// canonical type string but no op (spec §4.G: "if op is absent, the
// dispatcher maps legacy type strings").
var legacyTypeToOp = map[string]int{
	"get_status":    OpGetStatus,
	"heartbeat":     OpHeartbeat,
	"config_update": OpConfigUpdate,
}

// typeForOp is the canonical type string for each opcode, used when
// rendering outbound frames and when echoing the inbound type back.
var typeForOp = map[int]string{
	OpGetStatus:     "get_status",
	OpHeartbeat:     "heartbeat",
	OpConfigUpdate:  "config_update",
	OpGameCommand:   "game_command",
	OpHitForward:    "hit_forward",
	OpKillConfirmed: "kill_confirmed",
	OpRemoteSound:   "remote_sound",

	OpStatus:       "status",
	OpHeartbeatAck: "heartbeat_ack",
	OpShotFired:    "shot_fired",
	OpHitReport:    "hit_report",
	OpRespawn:      "respawn",
	OpReloadEvent:  "reload_event",
	OpGameOver:     "game_over",
	OpAck:          "ack",
}
