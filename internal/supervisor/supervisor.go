// Package supervisor implements the connection supervisor (spec §4.H):
// boot-mode detection from NVS, the provisioning captive form, station
// join/reconnect, and factory reset.
package supervisor

import (
	"context"
	"fmt"
	"time"

	"github.com/raytag/endpoint/internal/clock"
	"github.com/raytag/endpoint/internal/errs"
	"github.com/raytag/endpoint/internal/nvs"
	"github.com/raytag/endpoint/internal/peer"
	"github.com/raytag/endpoint/logging"
	"github.com/raytag/endpoint/logging/lifecycle"
)

var supervisorActor = logging.EntityRef{ID: "supervisor", Kind: logging.EntityKindSystem}

const wifiNamespace = "wifi"

// BootMode is decided once at startup from whether Wi-Fi credentials are
// present in NVS (spec §4.H).
type BootMode int

const (
	ModeProvisioning BootMode = iota
	ModeStation
)

func (m BootMode) String() string {
	if m == ModeStation {
		return "station"
	}
	return "provisioning"
}

// WiFiPort is the station radio/network-stack port. The real
// implementation joins the SoC's Wi-Fi driver; this package only defines
// the contract.
type WiFiPort interface {
	Join(ctx context.Context, ssid, pass string) (ip string, err error)
	Disconnect()
	Channel() uint8
	MAC() peer.MAC
}

// RestartFunc terminates and re-execs the process, the authoritative way
// to switch boot mode (spec §4.H: "Restart is the authoritative way to
// switch from AP to station").
type RestartFunc func()

// DetectBootMode decides ModeStation vs ModeProvisioning from whether an
// SSID is present in the "wifi" NVS namespace.
func DetectBootMode(store nvs.Store) BootMode {
	if _, ok := store.GetString(wifiNamespace, "ssid"); ok {
		return ModeStation
	}
	return ModeProvisioning
}

// Credentials is the persisted provisioning payload (spec §4.H: "ssid,
// pass, name, role").
type Credentials struct {
	SSID string
	Pass string
	Name string
	Role string
}

// LoadCredentials reads persisted Wi-Fi credentials; ok is false if none
// are present (i.e. the device should provision).
func LoadCredentials(store nvs.Store) (Credentials, bool) {
	ssid, ok := store.GetString(wifiNamespace, "ssid")
	if !ok {
		return Credentials{}, false
	}
	pass, _ := store.GetString(wifiNamespace, "pass")
	name, _ := store.GetString(wifiNamespace, "name")
	role, _ := store.GetString(wifiNamespace, "role")
	return Credentials{SSID: ssid, Pass: pass, Name: name, Role: role}, true
}

// SaveCredentials persists provisioning form fields and returns a
// CoreError wrapping errs.KindStorage on the first failing write.
func SaveCredentials(store nvs.Store, c Credentials) error {
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	record(store.PutString(wifiNamespace, "ssid", c.SSID))
	record(store.PutString(wifiNamespace, "pass", c.Pass))
	record(store.PutString(wifiNamespace, "name", c.Name))
	record(store.PutString(wifiNamespace, "role", c.Role))
	if firstErr != nil {
		return errs.Wrap(errs.KindStorage, "supervisor.save_credentials", firstErr)
	}
	return nil
}

// ProvisioningSSID embeds the last three bytes of the radio MAC into the
// soft-AP SSID (spec §4.H: "RayZ-AB12CD").
func ProvisioningSSID(mac peer.MAC) string {
	return fmt.Sprintf("RayZ-%02X%02X%02X", mac[3], mac[4], mac[5])
}

// Supervisor drives boot-mode selection and the station lifecycle.
type Supervisor struct {
	store   nvs.Store
	wifi    WiFiPort
	bus     *peer.Bus
	restart RestartFunc
	clock   clock.Clock
	pub     logging.Publisher

	// sleep is the reconnect back-off's wait primitive; overridable in
	// tests so the saturating schedule doesn't cost real wall-clock time.
	sleep func(ctx context.Context, d time.Duration)
}

// New constructs a Supervisor with a system clock and a no-op publisher;
// WithTelemetry replaces either.
func New(store nvs.Store, wifi WiFiPort, bus *peer.Bus, restart RestartFunc) *Supervisor {
	return &Supervisor{store: store, wifi: wifi, bus: bus, restart: restart, clock: clock.NewSystem(), pub: logging.NopPublisher(), sleep: sleepCtx}
}

// WithTelemetry attaches the publisher and clock lifecycle events are
// stamped with; it returns the receiver for chaining at construction
// time (spec §4.H: boot-mode transitions are observable events).
func (s *Supervisor) WithTelemetry(pub logging.Publisher, c clock.Clock) *Supervisor {
	if pub != nil {
		s.pub = pub
	}
	if c != nil {
		s.clock = c
	}
	return s
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// Mode reports the current boot mode.
func (s *Supervisor) Mode() BootMode {
	return DetectBootMode(s.store)
}

// Configure persists provisioning form fields and restarts the process
// (spec §4.H: POST /config "persist them to NVS, respond with
// confirmation, then restart").
func (s *Supervisor) Configure(c Credentials) error {
	if err := SaveCredentials(s.store, c); err != nil {
		return err
	}
	lifecycle.Provisioned(context.Background(), s.pub, uint64(s.clock.NowMs()), supervisorActor,
		lifecycle.ProvisionedPayload{SSID: c.SSID, Name: c.Name, Role: c.Role})
	if s.restart != nil {
		s.restart()
	}
	return nil
}

// JoinStation joins the network with persisted credentials and locks the
// peer bus to the AP's channel (spec §4.H: "lock the radio to the AP's
// channel").
func (s *Supervisor) JoinStation(ctx context.Context) (ip string, err error) {
	creds, ok := LoadCredentials(s.store)
	if !ok {
		return "", errs.New(errs.KindNetworkLost, "supervisor.join_station.no_credentials")
	}
	ip, err = s.wifi.Join(ctx, creds.SSID, creds.Pass)
	if err != nil {
		return "", errs.Wrap(errs.KindNetworkLost, "supervisor.join_station", err)
	}
	if s.bus != nil {
		s.bus.SetChannel(s.wifi.Channel())
	}
	lifecycle.StationJoined(ctx, s.pub, uint64(s.clock.NowMs()), supervisorActor,
		lifecycle.StationJoinedPayload{IP: ip, Channel: s.wifi.Channel()})
	return ip, nil
}

// FactoryReset erases the Wi-Fi NVS namespace and restarts into
// provisioning (spec §4.H), used by POST /clean. The reset-button path
// goes through FactoryResetFromButton, which shares the same logic.
func (s *Supervisor) FactoryReset() error {
	return s.factoryReset("http")
}

// FactoryResetFromButton is the reset-button boot-time path's entry
// point into the same erase-and-restart logic as FactoryReset (spec
// §4.H: "held for >= 2 s on boot").
func (s *Supervisor) FactoryResetFromButton() error {
	return s.factoryReset("button")
}

func (s *Supervisor) factoryReset(trigger string) error {
	if err := s.store.EraseNamespace(wifiNamespace); err != nil {
		return errs.Wrap(errs.KindStorage, "supervisor.factory_reset", err)
	}
	lifecycle.FactoryReset(context.Background(), s.pub, uint64(s.clock.NowMs()), supervisorActor,
		lifecycle.FactoryResetPayload{Trigger: trigger})
	if s.restart != nil {
		s.restart()
	}
	return nil
}
