// Package hardware provides host-mode stand-ins for the ports the core
// consumes but does not implement (spec §1): the IR-LED driver, the
// Wi-Fi/radio driver, the sound port, telemetry readings, and the reset
// button. Real firmware backs each with the SoC's drivers; this package
// only exists so the core runs end to end off target hardware, the same
// role nvs.MemStore plays for the storage port.
package hardware

import (
	"context"
	"sync/atomic"

	"github.com/raytag/endpoint/internal/peer"
	"github.com/raytag/endpoint/internal/telemetry"
)

// LaserTransmitter logs the frame instead of driving an IR LED.
type LaserTransmitter struct {
	Logger telemetry.Logger
}

func (t LaserTransmitter) Transmit(frame uint32) error {
	if t.Logger != nil {
		t.Logger.Printf("laser tx frame=0x%08X", frame)
	}
	return nil
}

// SoundPort logs the sound id instead of driving a buzzer/DAC.
type SoundPort struct {
	Logger telemetry.Logger
}

func (s SoundPort) Play(soundID int) error {
	if s.Logger != nil {
		s.Logger.Printf("sound play id=%d", soundID)
	}
	return nil
}

// Telemetry reports fixed placeholder readings; a target board would
// wire an ADC channel and the radio driver's RSSI accessor here instead.
type Telemetry struct{}

func (Telemetry) BatteryVoltageMv() uint16 { return 3700 }
func (Telemetry) RSSI() int8               { return -50 }

// ResetButton never reports pressed; a target board would poll a GPIO.
type ResetButton struct{}

func (ResetButton) Pressed() bool { return false }

// WiFi joins instantly against an in-process loopback address, standing
// in for the SoC's station-mode driver so JoinStation/reconnect can be
// exercised off target hardware.
type WiFi struct {
	mac     peer.MAC
	channel uint8
	joined  atomic.Bool
}

func NewWiFi(mac peer.MAC, channel uint8) *WiFi {
	return &WiFi{mac: mac, channel: channel}
}

func (w *WiFi) Join(ctx context.Context, ssid, pass string) (string, error) {
	w.joined.Store(true)
	return "127.0.0.1", nil
}

func (w *WiFi) Disconnect()    { w.joined.Store(false) }
func (w *WiFi) Channel() uint8 { return w.channel }
func (w *WiFi) MAC() peer.MAC  { return w.mac }
