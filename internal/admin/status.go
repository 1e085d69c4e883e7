package admin

import "github.com/raytag/endpoint/internal/engine"

// Status is the authoritative op-10 frame (spec §4.G): identity, active
// rules, cumulative stats, and current runtime state.
type Status struct {
	Op     int           `json:"op"`
	Type   string        `json:"type"`
	UptimeMs uint32      `json:"uptime_ms"`
	Config StatusConfig  `json:"config"`
	Stats  StatusStats   `json:"stats"`
	State  StatusState   `json:"state"`
}

// StatusConfig mirrors identity plus the active rule set.
type StatusConfig struct {
	DeviceID   uint8  `json:"device_id"`
	PlayerID   uint8  `json:"player_id"`
	TeamID     uint8  `json:"team_id"`
	ColorRGB   uint32 `json:"color_rgb"`
	DeviceName string `json:"device_name"`

	MaxHearts         int32 `json:"max_hearts"`
	SpawnHearts       int32 `json:"spawn_hearts"`
	RespawnTimeMs     int32 `json:"respawn_time_ms"`
	InvulnerabilityMs int32 `json:"invulnerability_ms"`
	MaxAmmo           int32 `json:"max_ammo"`
	MagCapacity       int32 `json:"mag_capacity"`
	ReloadTimeMs      int32 `json:"reload_time_ms"`
	ShotRateLimitMs   int32 `json:"shot_rate_limit_ms"`
	GameDurationS     int32 `json:"game_duration_s"`
	ScoreToWin        int32 `json:"score_to_win"`
	TeamPlay          bool  `json:"team_play"`
	FriendlyFire      bool  `json:"friendly_fire"`
	Volume            int32 `json:"volume"`
	SoundProfile      int32 `json:"sound_profile"`
}

// StatusStats mirrors the cumulative counters (spec §4.G).
type StatusStats struct {
	Shots         uint64 `json:"shots"`
	EnemyKills    uint64 `json:"enemy_kills"`
	FriendlyKills uint64 `json:"friendly_kills"`
	Deaths        uint64 `json:"deaths"`
}

// StatusState mirrors the live runtime state.
type StatusState struct {
	CurrentHearts   int32  `json:"current_hearts"`
	CurrentAmmo     int32  `json:"current_ammo"`
	IsRespawning    bool   `json:"is_respawning"`
	IsReloading     bool   `json:"is_reloading"`
	RemainingTimeS  *int32 `json:"remaining_time_s,omitempty"`
}

// BuildStatus renders a Status frame from an engine snapshot. nowMs is
// used to derive remaining_time_s, which is omitted when the timer is
// disabled (spec §4.G).
func BuildStatus(snap engine.Snapshot, nowMs uint32) Status {
	var remaining *int32
	if snap.State.GamePhase == engine.GameRunning && snap.State.EndTimeMs != 0 {
		left := int32(snap.State.EndTimeMs-nowMs) / 1000
		if left < 0 {
			left = 0
		}
		remaining = &left
	}

	return Status{
		Op:       OpStatus,
		Type:     typeForOp[OpStatus],
		UptimeMs: nowMs,
		Config: StatusConfig{
			DeviceID:          snap.Identity.DeviceID,
			PlayerID:          snap.Identity.PlayerID,
			TeamID:            snap.Identity.TeamID,
			ColorRGB:          snap.Identity.ColorRGB,
			DeviceName:        snap.Identity.DeviceName,
			MaxHearts:         snap.Rules.MaxHearts.Value(),
			SpawnHearts:       snap.Rules.SpawnHearts,
			RespawnTimeMs:     snap.Rules.RespawnTimeMs,
			InvulnerabilityMs: snap.Rules.InvulnerabilityMs,
			MaxAmmo:           snap.Rules.MaxAmmo.Value(),
			MagCapacity:       snap.Rules.MagCapacity,
			ReloadTimeMs:      snap.Rules.ReloadTimeMs,
			ShotRateLimitMs:   snap.Rules.ShotRateLimitMs,
			GameDurationS:     snap.Rules.GameDurationS,
			ScoreToWin:        snap.Rules.ScoreToWin,
			TeamPlay:          snap.Rules.TeamPlay,
			FriendlyFire:      snap.Rules.FriendlyFire,
			Volume:            snap.Rules.Volume,
			SoundProfile:      snap.Rules.SoundProfile,
		},
		Stats: StatusStats{
			Shots:         snap.State.ShotsFired,
			EnemyKills:    snap.State.Kills,
			FriendlyKills: snap.State.FriendlyFireCount,
			Deaths:        snap.State.Deaths,
		},
		State: StatusState{
			CurrentHearts:  snap.State.CurrentHearts,
			CurrentAmmo:    snap.State.CurrentAmmo,
			IsRespawning:   snap.State.IsRespawning,
			IsReloading:    snap.State.IsReloading,
			RemainingTimeS: remaining,
		},
	}
}
