package engine

// ConfigResult reports the outcome of an ApplyConfigUpdate call: whether
// any field was coerced to a legal bound, which ones, and the error (if
// any) from persisting identity to NVS.
type ConfigResult struct {
	Clamped       bool
	ClampedFields []string
	PersistErr    error
}

// ApplyConfigUpdate runs the fixed eight-step config_update pipeline
// (spec §4.E.1). Steps 7 (NVS persist) and 8 (status broadcast) are
// represented in the result: persistence happens here, the broadcast is
// the caller's (the admin dispatcher's) once this call returns.
func (e *Engine) ApplyConfigUpdate(u ConfigUpdate) ConfigResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	var result ConfigResult

	// Step 1: reset_to_defaults replaces rules before anything else applies.
	if u.ResetToDefaults != nil && *u.ResetToDefaults {
		e.rules = DefaultRules()
	}

	// Step 2: identity fields.
	if u.DeviceID != nil {
		e.identity.DeviceID = *u.DeviceID
	}
	if u.PlayerID != nil {
		e.identity.PlayerID = *u.PlayerID
	}
	if u.TeamID != nil {
		e.identity.TeamID = *u.TeamID
	}
	if u.ColorRGB != nil {
		e.identity.ColorRGB = *u.ColorRGB
	}
	if u.DeviceName != nil {
		e.identity.DeviceName = clampDeviceName(*u.DeviceName)
	}

	// Step 3: hardware/AV fields (volume and sound_profile still run
	// through the numeric clamp table below; haptic_enabled does not).
	if u.HapticEnabled != nil {
		e.rules.HapticEnabled = *u.HapticEnabled
	}

	// Step 4: numeric rules, each clamped; any coercion sets Clamped.
	clamp := func(name string, in *int32, apply func(int32)) {
		if in == nil {
			return
		}
		field, ok := clampTable[name]
		if !ok {
			apply(*in)
			return
		}
		if field.infinityAllowed {
			b, clamped := clampBound(*in, field.lo, field.hi, true)
			if clamped {
				result.Clamped = true
				result.ClampedFields = append(result.ClampedFields, name)
			}
			apply(int32(b))
			return
		}
		v, clamped := clampInt(*in, field.lo, field.hi)
		if clamped {
			result.Clamped = true
			result.ClampedFields = append(result.ClampedFields, name)
		}
		apply(v)
	}

	clamp("max_hearts", u.MaxHearts, func(v int32) { e.rules.MaxHearts = Bound(v) })
	clamp("respawn_time_ms", u.RespawnTimeMs, func(v int32) { e.rules.RespawnTimeMs = v })
	clamp("invulnerability_ms", u.InvulnerabilityMs, func(v int32) { e.rules.InvulnerabilityMs = v })
	clamp("max_ammo", u.MaxAmmo, func(v int32) { e.rules.MaxAmmo = Bound(v) })
	clamp("mag_capacity", u.MagCapacity, func(v int32) { e.rules.MagCapacity = v })
	clamp("reload_time_ms", u.ReloadTimeMs, func(v int32) { e.rules.ReloadTimeMs = v })
	clamp("shot_rate_limit_ms", u.ShotRateLimitMs, func(v int32) { e.rules.ShotRateLimitMs = v })
	clamp("game_duration_s", u.GameDurationS, func(v int32) { e.rules.GameDurationS = v })
	clamp("score_to_win", u.ScoreToWin, func(v int32) { e.rules.ScoreToWin = v })
	clamp("volume", u.Volume, func(v int32) { e.rules.Volume = v })
	clamp("sound_profile", u.SoundProfile, func(v int32) { e.rules.SoundProfile = v })

	// spawn_hearts clamps against the (possibly just-updated) max_hearts,
	// so it cannot sit in the static table above.
	if u.SpawnHearts != nil {
		v, clamped := spawnHeartsClamp(*u.SpawnHearts, e.rules.MaxHearts)
		if clamped {
			result.Clamped = true
			result.ClampedFields = append(result.ClampedFields, "spawn_hearts")
		}
		e.rules.SpawnHearts = v
	}

	// Remaining unclamped flags/scoring fields.
	if u.EnableHearts != nil {
		e.rules.EnableHearts = *u.EnableHearts
	}
	if u.DamageIn != nil {
		e.rules.DamageIn = *u.DamageIn
	}
	if u.DamageOut != nil {
		e.rules.DamageOut = *u.DamageOut
	}
	if u.FriendlyFire != nil {
		e.rules.FriendlyFire = *u.FriendlyFire
	}
	if u.UnlimitedAmmo != nil {
		e.rules.UnlimitedAmmo = *u.UnlimitedAmmo
	}
	if u.KillScore != nil {
		e.rules.KillScore = *u.KillScore
	}
	if u.HitScore != nil {
		e.rules.HitScore = *u.HitScore
	}
	if u.AssistScore != nil {
		e.rules.AssistScore = *u.AssistScore
	}
	if u.OvertimeEnabled != nil {
		e.rules.OvertimeEnabled = *u.OvertimeEnabled
	}
	if u.SuddenDeath != nil {
		e.rules.SuddenDeath = *u.SuddenDeath
	}
	if u.TeamPlay != nil {
		e.rules.TeamPlay = *u.TeamPlay
	}
	if u.RandomTeamsOnStart != nil {
		e.rules.RandomTeamsOnStart = *u.RandomTeamsOnStart
	}
	if u.HitSoundEnabled != nil {
		e.rules.HitSoundEnabled = *u.HitSoundEnabled
	}

	// Step 5: liveness safety clamp. Never auto-heal on raise.
	if !e.rules.MaxHearts.IsInfinite() && e.state.CurrentHearts > e.rules.MaxHearts.Value() {
		e.state.CurrentHearts = e.rules.MaxHearts.Value()
	}

	// Step 6: timer reconciliation.
	if e.state.GamePhase == GameRunning {
		if e.rules.GameDurationS > 0 {
			e.state.EndTimeMs = e.clock.NowMs() + uint32(e.rules.GameDurationS)*1000
		} else {
			e.state.EndTimeMs = 0
		}
	}

	// Step 7: persist identity to NVS; rules stay RAM-only.
	result.PersistErr = e.persist()

	// Step 8 (status broadcast) is the admin dispatcher's job once this returns.
	return result
}
