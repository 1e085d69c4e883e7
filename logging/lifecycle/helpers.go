// Package lifecycle publishes structured events for boot-mode transitions
// and the connection supervisor (spec §4.H).
package lifecycle

import (
	"context"

	"github.com/raytag/endpoint/logging"
)

const (
	// EventProvisioned is emitted when captive provisioning commits
	// credentials and schedules a restart into station mode.
	EventProvisioned logging.EventType = "lifecycle.provisioned"
	// EventStationJoined is emitted when station mode obtains an IP and
	// locks the peer-bus channel.
	EventStationJoined logging.EventType = "lifecycle.station_joined"
	// EventStationLost is emitted on a station disconnect, before the
	// reconnect back-off begins.
	EventStationLost logging.EventType = "lifecycle.station_lost"
	// EventFactoryReset is emitted when NVS is erased and a restart is
	// scheduled, whether triggered by the reset button or /clean.
	EventFactoryReset logging.EventType = "lifecycle.factory_reset"
)

// ProvisionedPayload captures the credentials committed by /config.
type ProvisionedPayload struct {
	SSID string `json:"ssid"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// StationJoinedPayload captures the negotiated network identity.
type StationJoinedPayload struct {
	IP      string `json:"ip"`
	Channel uint8  `json:"channel"`
}

// StationLostPayload captures the retry attempt that will follow.
type StationLostPayload struct {
	ConsecutiveFailures int `json:"consecutiveFailures"`
}

// FactoryResetPayload identifies what triggered the reset.
type FactoryResetPayload struct {
	Trigger string `json:"trigger"`
}

func Provisioned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ProvisionedPayload) {
	publish(ctx, pub, EventProvisioned, tick, actor, logging.SeverityInfo, payload)
}

func StationJoined(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload StationJoinedPayload) {
	publish(ctx, pub, EventStationJoined, tick, actor, logging.SeverityInfo, payload)
}

func StationLost(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload StationLostPayload) {
	publish(ctx, pub, EventStationLost, tick, actor, logging.SeverityWarn, payload)
}

func FactoryReset(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload FactoryResetPayload) {
	publish(ctx, pub, EventFactoryReset, tick, actor, logging.SeverityWarn, payload)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, tick uint64, actor logging.EntityRef, severity logging.Severity, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Severity: severity,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}
