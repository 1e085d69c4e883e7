package admin

import "github.com/raytag/endpoint/internal/engine"

// InboundFrame is the wire shape of a client -> device command (spec
// §4.G). Op is a pointer so "absent" is distinguishable from op=0, which
// is not a valid inbound opcode.
type InboundFrame struct {
	Op    *int   `json:"op,omitempty"`
	Type  string `json:"type,omitempty"`
	ReqID string `json:"req_id,omitempty"`

	// hit_forward
	ShooterID     string `json:"shooter_id,omitempty"`
	ShooterTeamID *uint8 `json:"shooter_team_id,omitempty"`
	Damage        *int32 `json:"damage,omitempty"`

	// game_command
	Cmd *int `json:"cmd,omitempty"`

	// remote_sound
	SoundID *int `json:"sound_id,omitempty"`

	// config_update, flattened (mirrors engine.ConfigUpdate field-for-field)
	ResetToDefaults    *bool   `json:"reset_to_defaults,omitempty"`
	DeviceID           *uint8  `json:"device_id,omitempty"`
	PlayerID           *uint8  `json:"player_id,omitempty"`
	TeamID             *uint8  `json:"team_id,omitempty"`
	ColorRGB           *uint32 `json:"color_rgb,omitempty"`
	DeviceName         *string `json:"device_name,omitempty"`
	Volume             *int32  `json:"volume,omitempty"`
	SoundProfile       *int32  `json:"sound_profile,omitempty"`
	HapticEnabled      *bool   `json:"haptic_enabled,omitempty"`
	MaxHearts          *int32  `json:"max_hearts,omitempty"`
	SpawnHearts        *int32  `json:"spawn_hearts,omitempty"`
	RespawnTimeMs      *int32  `json:"respawn_time_ms,omitempty"`
	InvulnerabilityMs  *int32  `json:"invulnerability_ms,omitempty"`
	MaxAmmo            *int32  `json:"max_ammo,omitempty"`
	MagCapacity        *int32  `json:"mag_capacity,omitempty"`
	ReloadTimeMs       *int32  `json:"reload_time_ms,omitempty"`
	ShotRateLimitMs    *int32  `json:"shot_rate_limit_ms,omitempty"`
	GameDurationS      *int32  `json:"game_duration_s,omitempty"`
	ScoreToWin         *int32  `json:"score_to_win,omitempty"`
	EnableHearts       *bool   `json:"enable_hearts,omitempty"`
	DamageIn           *int32  `json:"damage_in,omitempty"`
	DamageOut          *int32  `json:"damage_out,omitempty"`
	FriendlyFire       *bool   `json:"friendly_fire,omitempty"`
	UnlimitedAmmo      *bool   `json:"unlimited_ammo,omitempty"`
	KillScore          *int32  `json:"kill_score,omitempty"`
	HitScore           *int32  `json:"hit_score,omitempty"`
	AssistScore        *int32  `json:"assist_score,omitempty"`
	OvertimeEnabled    *bool   `json:"overtime_enabled,omitempty"`
	SuddenDeath        *bool   `json:"sudden_death,omitempty"`
	TeamPlay           *bool   `json:"team_play,omitempty"`
	RandomTeamsOnStart *bool   `json:"random_teams_on_start,omitempty"`
	HitSoundEnabled    *bool   `json:"hit_sound_enabled,omitempty"`
}

// resolveOp implements the op/type precedence rule: op is authoritative
// when present, else type is mapped via the legacy registry (spec §4.G).
func (f InboundFrame) resolveOp() (int, bool) {
	if f.Op != nil {
		return *f.Op, true
	}
	op, ok := legacyTypeToOp[f.Type]
	return op, ok
}

// toConfigUpdate converts the flattened wire fields into an
// engine.ConfigUpdate.
func (f InboundFrame) toConfigUpdate() engine.ConfigUpdate {
	return engine.ConfigUpdate{
		ResetToDefaults:    f.ResetToDefaults,
		DeviceID:           f.DeviceID,
		PlayerID:           f.PlayerID,
		TeamID:             f.TeamID,
		ColorRGB:           f.ColorRGB,
		DeviceName:         f.DeviceName,
		Volume:             f.Volume,
		SoundProfile:       f.SoundProfile,
		HapticEnabled:      f.HapticEnabled,
		MaxHearts:          f.MaxHearts,
		SpawnHearts:        f.SpawnHearts,
		RespawnTimeMs:      f.RespawnTimeMs,
		InvulnerabilityMs:  f.InvulnerabilityMs,
		MaxAmmo:            f.MaxAmmo,
		MagCapacity:        f.MagCapacity,
		ReloadTimeMs:       f.ReloadTimeMs,
		ShotRateLimitMs:    f.ShotRateLimitMs,
		GameDurationS:      f.GameDurationS,
		ScoreToWin:         f.ScoreToWin,
		EnableHearts:       f.EnableHearts,
		DamageIn:           f.DamageIn,
		DamageOut:          f.DamageOut,
		FriendlyFire:       f.FriendlyFire,
		UnlimitedAmmo:      f.UnlimitedAmmo,
		KillScore:          f.KillScore,
		HitScore:           f.HitScore,
		AssistScore:        f.AssistScore,
		OvertimeEnabled:    f.OvertimeEnabled,
		SuddenDeath:        f.SuddenDeath,
		TeamPlay:           f.TeamPlay,
		RandomTeamsOnStart: f.RandomTeamsOnStart,
		HitSoundEnabled:    f.HitSoundEnabled,
	}
}

// Ack is the universal op-20 reply to any req_id-bearing command (spec
// §3 invariant 6, §4.G).
type Ack struct {
	Op            int    `json:"op"`
	Type          string `json:"type"`
	ReplyTo       string `json:"reply_to"`
	Success       bool   `json:"success"`
	Clamped       bool   `json:"clamped,omitempty"`
	ClampedFields []string `json:"clamped_fields,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

func newAck(reqID string, success bool) Ack {
	return Ack{Op: OpAck, Type: typeForOp[OpAck], ReplyTo: reqID, Success: success}
}

// HeartbeatAck is the op-11 reply to a heartbeat (spec §4.G).
type HeartbeatAck struct {
	Op           int    `json:"op"`
	Type         string `json:"type"`
	BattVoltage  uint16 `json:"batt_voltage"`
	RSSI         int8   `json:"rssi"`
}

// ShotFired is the op-12 broadcast on a successful trigger pull.
type ShotFired struct {
	Op          int    `json:"op"`
	Type        string `json:"type"`
	SeqID       uint8  `json:"seq_id"`
	TimestampMs uint32 `json:"timestamp_ms"`
}

// HitReport is the op-13 broadcast on hit resolution.
type HitReport struct {
	Op        int    `json:"op"`
	Type      string `json:"type"`
	Fatal     bool   `json:"fatal"`
	ShooterID string `json:"shooter_id"`
	Damage    int32  `json:"damage"`
}

// HitInvalid is the hit_invalid notification (spec §8 S1), riding the
// ack channel with a synthetic type since it has no dedicated opcode.
type HitInvalid struct {
	Op        int    `json:"op"`
	Type      string `json:"type"`
	ShooterID string `json:"shooter_id"`
	Reason    string `json:"reason"`
}

// Respawn is the op-14 broadcast on respawn completion.
type Respawn struct {
	Op            int   `json:"op"`
	Type          string `json:"type"`
	CurrentHearts int32 `json:"current_hearts"`
}

// ReloadEvent is the op-15 broadcast on reload completion.
type ReloadEvent struct {
	Op          int   `json:"op"`
	Type        string `json:"type"`
	CurrentAmmo int32 `json:"current_ammo"`
}

// GameOver is the op-16 broadcast on match-timer expiry.
type GameOver struct {
	Op   int    `json:"op"`
	Type string `json:"type"`
}
