package engine

// Rules is the GameRules entity (spec §3): the mutable "game mode"
// attribute set. Every bounded numeric field holds invariant lo <= v <= hi
// per the clamp table in spec §4.E.1, except where Infinite is permitted.
type Rules struct {
	// Health
	MaxHearts         Bound
	SpawnHearts        int32
	RespawnTimeMs      int32
	InvulnerabilityMs  int32
	EnableHearts       bool

	// Damage
	DamageIn     int32
	DamageOut    int32
	FriendlyFire bool

	// Ammo
	MaxAmmo          Bound
	ReloadTimeMs     int32
	ShotRateLimitMs  int32
	UnlimitedAmmo    bool
	MagCapacity      int32

	// Scoring
	KillScore   int32
	HitScore    int32
	AssistScore int32
	ScoreToWin  int32

	// Timer
	GameDurationS int32 // 0 = manual stop; positive = autostop

	// Flags
	OvertimeEnabled     bool
	SuddenDeath         bool
	TeamPlay            bool
	RandomTeamsOnStart  bool
	HitSoundEnabled     bool
	HapticEnabled       bool

	// Audio
	Volume       int32
	SoundProfile int32
}

// DefaultRules returns the factory defaults applied at first boot and on
// reset_to_defaults.
func DefaultRules() Rules {
	return Rules{
		MaxHearts:         Bound(3),
		SpawnHearts:       3,
		RespawnTimeMs:     5000,
		InvulnerabilityMs: 2000,
		EnableHearts:      true,

		DamageIn:     1,
		DamageOut:    1,
		FriendlyFire: false,

		MaxAmmo:         Bound(30),
		ReloadTimeMs:    2000,
		ShotRateLimitMs: 250,
		UnlimitedAmmo:   false,
		MagCapacity:     0,

		KillScore:   100,
		HitScore:    10,
		AssistScore: 5,
		ScoreToWin:  0,

		GameDurationS: 0,

		OvertimeEnabled:    false,
		SuddenDeath:        false,
		TeamPlay:           false,
		RandomTeamsOnStart: false,
		HitSoundEnabled:    true,
		HapticEnabled:      true,

		Volume:       50,
		SoundProfile: 0,
	}
}

// ConfigUpdate is the partial rules delta carried by a config_update
// command (spec §4.E.1). Every field is a pointer so "absent" and
// "explicitly set to the zero value" are distinguishable.
type ConfigUpdate struct {
	ResetToDefaults *bool

	// Identity fields (applied before hardware/AV, before numeric rules).
	DeviceID   *uint8
	PlayerID   *uint8
	TeamID     *uint8
	ColorRGB   *uint32
	DeviceName *string

	// Hardware/AV fields.
	Volume        *int32
	SoundProfile  *int32
	HapticEnabled *bool

	// Numeric rules, each individually clamped.
	MaxHearts         *int32
	SpawnHearts        *int32
	RespawnTimeMs      *int32
	InvulnerabilityMs  *int32
	MaxAmmo            *int32
	MagCapacity        *int32
	ReloadTimeMs       *int32
	ShotRateLimitMs    *int32
	GameDurationS      *int32
	ScoreToWin         *int32

	// Remaining flags/scoring fields, applied unclamped alongside numerics.
	EnableHearts       *bool
	DamageIn           *int32
	DamageOut          *int32
	FriendlyFire       *bool
	UnlimitedAmmo      *bool
	KillScore          *int32
	HitScore           *int32
	AssistScore        *int32
	OvertimeEnabled    *bool
	SuddenDeath        *bool
	TeamPlay           *bool
	RandomTeamsOnStart *bool
	HitSoundEnabled    *bool
}

// clampField is one entry of the clamp table (spec §4.E.1).
type clampField struct {
	name            string
	lo, hi          int32
	infinityAllowed bool
}

var clampTable = map[string]clampField{
	"max_hearts":         {"max_hearts", 1, 99, true},
	"respawn_time_ms":    {"respawn_time_ms", 0, 30000, false},
	"invulnerability_ms": {"invulnerability_ms", 0, 30000, false},
	"max_ammo":           {"max_ammo", 0, 65535, true},
	"mag_capacity":       {"mag_capacity", 0, 255, false},
	"reload_time_ms":     {"reload_time_ms", 0, 30000, false},
	"shot_rate_limit_ms": {"shot_rate_limit_ms", 50, 2000, false},
	"game_duration_s":    {"game_duration_s", 0, 7200, false},
	"score_to_win":       {"score_to_win", 0, 65535, false},
	"volume":             {"volume", 0, 100, false},
	"sound_profile":      {"sound_profile", 0, 2, false},
}

// spawnHeartsClamp is evaluated against the *current* MaxHearts, so it
// cannot live in the static clampTable above.
func spawnHeartsClamp(v int32, maxHearts Bound) (int32, bool) {
	hi := int32(99)
	if !maxHearts.IsInfinite() {
		hi = maxHearts.Value()
	}
	clamped, wasClamped := clampInt(v, 1, hi)
	return clamped, wasClamped
}
