package engine

import "github.com/raytag/endpoint/internal/nvs"

// Role distinguishes a handheld weapon endpoint from a wearable target.
type Role string

const (
	RoleWeapon Role = "weapon"
	RoleTarget Role = "target"
)

// Identity is the DeviceIdentity entity (spec §3): the endpoint's fixed
// self-description. It is persisted in the NVS "game" namespace and is
// mutable only through an admin config update.
type Identity struct {
	DeviceID   uint8
	PlayerID   uint8
	TeamID     uint8 // 0 = solo/FFA, 255 = admin
	ColorRGB   uint32
	Role       Role
	DeviceName string // spec: string ≤ 31 bytes
}

const deviceNameMaxLen = 31

// LoadIdentity reads a previously persisted identity from the "game" NVS
// namespace (the mirror of persist()). ok is false if no identity has
// ever been saved, the boot-time signal that the caller should seed a
// factory-default identity instead.
func LoadIdentity(store nvs.Store) (Identity, bool) {
	deviceID, ok := store.GetUint8("game", "device_id_u8")
	if !ok {
		return Identity{}, false
	}
	playerID, _ := store.GetUint8("game", "player_id_u8")
	teamID, _ := store.GetUint8("game", "team_id_u8")
	color, _ := store.GetUint32("game", "color_u32")
	name, _ := store.GetString("game", "device_name")
	role := RoleWeapon
	if r, ok := store.GetString("game", "role"); ok && r == string(RoleTarget) {
		role = RoleTarget
	}
	return Identity{
		DeviceID:   deviceID,
		PlayerID:   playerID,
		TeamID:     teamID,
		ColorRGB:   color,
		Role:       role,
		DeviceName: name,
	}, true
}

func clampDeviceName(name string) string {
	if len(name) <= deviceNameMaxLen {
		return name
	}
	return name[:deviceNameMaxLen]
}
