package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raytag/endpoint/internal/clock"
	"github.com/raytag/endpoint/internal/nvs"
	"github.com/raytag/endpoint/internal/peer"
	"github.com/raytag/endpoint/logging"
	"github.com/raytag/endpoint/logging/lifecycle"
)

func TestDetectBootModeProvisioningWhenNoCredentials(t *testing.T) {
	store := nvs.NewMemStore()
	if mode := DetectBootMode(store); mode != ModeProvisioning {
		t.Fatalf("Mode = %v, want ModeProvisioning on a blank store", mode)
	}
}

func TestDetectBootModeStationWhenCredentialsPresent(t *testing.T) {
	store := nvs.NewMemStore()
	SaveCredentials(store, Credentials{SSID: "home", Pass: "secret"})
	if mode := DetectBootMode(store); mode != ModeStation {
		t.Fatalf("Mode = %v, want ModeStation once credentials are saved", mode)
	}
}

func TestProvisioningSSIDEmbedsLastThreeMACBytes(t *testing.T) {
	mac := peer.MAC{0x11, 0x22, 0x33, 0xAB, 0x12, 0xCD}
	got := ProvisioningSSID(mac)
	want := "RayZ-AB12CD"
	if got != want {
		t.Fatalf("ProvisioningSSID() = %q, want %q", got, want)
	}
}

type fakeWiFi struct {
	joinErrors int
	joined     int
	disconnects int
	channel    uint8
	mac        peer.MAC
}

func (f *fakeWiFi) Join(ctx context.Context, ssid, pass string) (string, error) {
	f.joined++
	if f.joinErrors > 0 {
		f.joinErrors--
		return "", errors.New("join failed")
	}
	return "10.0.0.5", nil
}

func (f *fakeWiFi) Disconnect()     { f.disconnects++ }
func (f *fakeWiFi) Channel() uint8  { return f.channel }
func (f *fakeWiFi) MAC() peer.MAC   { return f.mac }

func TestConfigureSavesCredentialsAndRestarts(t *testing.T) {
	store := nvs.NewMemStore()
	restarted := false
	s := New(store, &fakeWiFi{}, nil, func() { restarted = true })

	if err := s.Configure(Credentials{SSID: "a", Pass: "b", Name: "c", Role: "weapon"}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if !restarted {
		t.Fatalf("Configure must call the restart function (spec: restart is the authoritative mode switch)")
	}
	if mode := DetectBootMode(store); mode != ModeStation {
		t.Fatalf("Mode = %v after Configure, want ModeStation", mode)
	}
}

func TestJoinStationReturnsIPFromSavedCredentials(t *testing.T) {
	store := nvs.NewMemStore()
	SaveCredentials(store, Credentials{SSID: "home", Pass: "secret"})
	wifi := &fakeWiFi{channel: 6}
	medium := peer.NewSharedMedium(func() uint32 { return 0 })
	bus := peer.NewBus(peer.MAC{1}, medium)
	s := New(store, wifi, bus, nil)

	ip, err := s.JoinStation(context.Background())
	if err != nil {
		t.Fatalf("JoinStation: %v", err)
	}
	if ip != "10.0.0.5" {
		t.Fatalf("ip = %q, want 10.0.0.5", ip)
	}
}

func TestFactoryResetErasesCredentialsAndRestarts(t *testing.T) {
	store := nvs.NewMemStore()
	SaveCredentials(store, Credentials{SSID: "home", Pass: "secret"})
	restarted := false
	s := New(store, &fakeWiFi{}, nil, func() { restarted = true })

	if err := s.FactoryReset(); err != nil {
		t.Fatalf("FactoryReset: %v", err)
	}
	if !restarted {
		t.Fatalf("FactoryReset must restart into provisioning")
	}
	if mode := DetectBootMode(store); mode != ModeProvisioning {
		t.Fatalf("Mode = %v after FactoryReset, want ModeProvisioning", mode)
	}
}

type recordingPublisher struct {
	events []logging.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e logging.Event) {
	p.events = append(p.events, e)
}

func TestConfigureEmitsProvisionedLifecycleEvent(t *testing.T) {
	store := nvs.NewMemStore()
	pub := &recordingPublisher{}
	s := New(store, &fakeWiFi{}, nil, nil).WithTelemetry(pub, clock.NewFake(42))

	if err := s.Configure(Credentials{SSID: "home", Role: "weapon"}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if len(pub.events) != 1 || pub.events[0].Type != lifecycle.EventProvisioned {
		t.Fatalf("events = %+v, want exactly one lifecycle.provisioned event", pub.events)
	}
}

func TestFactoryResetFromButtonEmitsFactoryResetEventWithButtonTrigger(t *testing.T) {
	store := nvs.NewMemStore()
	SaveCredentials(store, Credentials{SSID: "home"})
	pub := &recordingPublisher{}
	s := New(store, &fakeWiFi{}, nil, nil).WithTelemetry(pub, clock.NewFake(0))

	if err := s.FactoryResetFromButton(); err != nil {
		t.Fatalf("FactoryResetFromButton: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("events = %+v, want exactly one event", pub.events)
	}
	payload, ok := pub.events[0].Payload.(lifecycle.FactoryResetPayload)
	if !ok || payload.Trigger != "button" {
		t.Fatalf("payload = %+v, want Trigger=button", pub.events[0].Payload)
	}
}

func TestCheckFactoryResetOnBootRequiresSustainedHold(t *testing.T) {
	btn := &stubButton{pressed: true, releaseAfter: 1}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if CheckFactoryResetOnBoot(ctx, btn, 5*time.Millisecond) {
		t.Fatalf("CheckFactoryResetOnBoot = true, want false when the button releases mid-hold")
	}
}

type stubButton struct {
	pressed      bool
	releaseAfter int
	polls        int
}

func (b *stubButton) Pressed() bool {
	if b.polls >= b.releaseAfter {
		return false
	}
	b.polls++
	return b.pressed
}

func TestBackoffSaturatesAtFiveSeconds(t *testing.T) {
	b := &backoff{}
	got := make([]time.Duration, 6)
	for i := range got {
		got[i] = b.next()
	}
	want := []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second, 5 * time.Second, 5 * time.Second, 5 * time.Second}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("next()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBackoffResetRestartsTheSchedule(t *testing.T) {
	b := &backoff{}
	b.next()
	b.next()
	b.reset()
	if got := b.next(); got != 500*time.Millisecond {
		t.Fatalf("next() after reset = %v, want the first step", got)
	}
}

func TestReconnectLoopRetriesWithBackoffThenRestartsRadioAfter15Failures(t *testing.T) {
	store := nvs.NewMemStore()
	SaveCredentials(store, Credentials{SSID: "home", Pass: "secret"})
	wifi := &fakeWiFi{joinErrors: maxConsecutiveFailures}
	s := New(store, wifi, nil, nil)
	s.sleep = func(context.Context, time.Duration) {} // skip real backoff delay in the test

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	done := make(chan struct{})
	disconnected := make(chan struct{}, 1)
	disconnected <- struct{}{}

	go func() {
		s.reconnectUntilJoined(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("reconnectUntilJoined did not converge before the test timeout")
	}

	if wifi.disconnects != 1 {
		t.Fatalf("Disconnect() should be called exactly once, after the 15th consecutive failure, got %d", wifi.disconnects)
	}
}
