// Package app wires the endpoint core's components into a running
// process: boot-mode detection, then either the provisioning portal or
// the full station stack (engine, peer bus, admin dispatcher, WS hub,
// message router, timer tasks).
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/raytag/endpoint/internal/admin"
	"github.com/raytag/endpoint/internal/clock"
	"github.com/raytag/endpoint/internal/config"
	"github.com/raytag/endpoint/internal/engine"
	"github.com/raytag/endpoint/internal/hardware"
	"github.com/raytag/endpoint/internal/httpapi"
	"github.com/raytag/endpoint/internal/nvs"
	"github.com/raytag/endpoint/internal/observability"
	"github.com/raytag/endpoint/internal/peer"
	"github.com/raytag/endpoint/internal/router"
	"github.com/raytag/endpoint/internal/supervisor"
	"github.com/raytag/endpoint/internal/telemetry"
	"github.com/raytag/endpoint/internal/ws"
	"github.com/raytag/endpoint/logging"
	loggingSinks "github.com/raytag/endpoint/logging/sinks"
)

// Config seeds process-wide overrides over config.FromEnv, covering
// observability toggles not exposed through environment variables.
type Config struct {
	Logger        telemetry.Logger
	Observability observability.Config
}

// Run boots the endpoint core: it detects the boot mode from NVS (spec
// §4.H), then runs either the provisioning captive portal or the full
// station stack until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	fallbackLogger := log.Default()
	if provider, ok := telemetryLogger.(interface{ StandardLogger() *log.Logger }); ok {
		if candidate := provider.StandardLogger(); candidate != nil {
			fallbackLogger = candidate
		}
	}

	coreCfg := config.FromEnv(telemetryLogger)
	if cfg.Observability.VerboseEngineLog {
		coreCfg.VerboseEngineLog = true
	}

	logConfig := logging.DefaultConfig()
	sinks := map[string]logging.Sink{
		"console": loggingSinks.NewConsole(os.Stdout, logConfig.Console),
	}
	if coreCfg.LogJSONPath != "" {
		logConfig.JSON.FilePath = coreCfg.LogJSONPath
		logConfig.EnabledSinks = append(logConfig.EnabledSinks, "json")
		jsonSink, jsonFile, err := loggingSinks.OpenJSONFile(logConfig.JSON)
		if err != nil {
			telemetryLogger.Printf("failed to open JSON log capture %q: %v", coreCfg.LogJSONPath, err)
		} else {
			sinks["json"] = jsonSink
			defer jsonFile.Close()
		}
	}
	pub, err := logging.NewRouter(logConfig, logging.SystemClock{}, fallbackLogger, sinks)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		if cerr := pub.Close(ctx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	store := nvs.NewMemStore()
	sysClock := clock.NewSystem()

	identity, ok := engine.LoadIdentity(store)
	if !ok {
		identity = engine.Identity{PlayerID: 1, DeviceID: 1, TeamID: 0, ColorRGB: 0xFFFFFF, Role: engine.RoleWeapon, DeviceName: "endpoint-1"}
	}

	mac := deriveMAC(identity)
	sup := supervisor.New(store, hardware.NewWiFi(mac, coreCfg.PeerChannel), nil, func() { os.Exit(0) }).
		WithTelemetry(pub, sysClock)

	if supervisor.CheckFactoryResetOnBoot(ctx, hardware.ResetButton{}, 200*time.Millisecond) {
		telemetryLogger.Printf("factory reset button held on boot")
		if err := sup.FactoryResetFromButton(); err != nil {
			telemetryLogger.Printf("factory reset failed: %v", err)
		}
	}

	if sup.Mode() == supervisor.ModeProvisioning {
		return runProvisioning(ctx, coreCfg, sup, mac, telemetryLogger)
	}
	return runStation(ctx, coreCfg, sup, identity, mac, sysClock, store, pub, telemetryLogger)
}

// deriveMAC fabricates a stable MAC from identity fields; real firmware
// reads this from the radio driver instead (spec §4.H: "the radio's own
// MAC").
func deriveMAC(id engine.Identity) peer.MAC {
	return peer.MAC{0x02, 0x00, 0x00, id.TeamID, id.PlayerID, id.DeviceID}
}

func runProvisioning(ctx context.Context, coreCfg config.Config, sup *supervisor.Supervisor, mac peer.MAC, logger telemetry.Logger) error {
	r := httpapi.NewProvisioningRouter(httpapi.ProvisioningDeps{Supervisor: sup, MAC: mac})
	srv := &http.Server{Addr: fmt.Sprintf(":%d", coreCfg.HTTPPort), Handler: r}
	logger.Printf("provisioning portal listening on %s (ssid %s)", srv.Addr, supervisor.ProvisioningSSID(mac))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("provisioning server failed: %w", err)
		}
		return nil
	}
}

func runStation(
	ctx context.Context,
	coreCfg config.Config,
	sup *supervisor.Supervisor,
	identity engine.Identity,
	mac peer.MAC,
	sysClock clock.Clock,
	store nvs.Store,
	pub logging.Publisher,
	logger telemetry.Logger,
) error {
	e := engine.New(identity, sysClock, store, pub)

	onDisconnect := func(handle ws.SessionHandle) {
		logger.Printf("ws client %s evicted (stale or close)", handle)
	}
	hub := ws.NewHub(sysClock, pub, onDisconnect)

	medium := peer.NewSharedMedium(sysClock.NowMs)
	bus := peer.NewBus(mac, medium)
	medium.Join(mac, bus)
	_ = bus.Init(coreCfg.PeerChannel, true, true)

	dispatcher := admin.New(e, hub, hardware.SoundPort{Logger: logger}, hardware.Telemetry{}, sysClock)
	laserTX := hardware.LaserTransmitter{Logger: logger}
	route := router.New(e, bus, hub, laserTX, sysClock)

	stationCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	metrics := &logging.Metrics{}
	metricsSink := telemetry.WrapMetrics(metrics)

	go route.PumpPeerInbound(stationCtx)
	go runTicker(stationCtx, time.Duration(coreCfg.TickIntervalMs)*time.Millisecond, func() {
		route.Tick(stationCtx)

		peerStats := bus.StatsSnapshot()
		metricsSink.Store("peer_tx_count", peerStats.TxCount)
		metricsSink.Store("peer_rx_count", peerStats.RxCount)
		metricsSink.Store("peer_dropped_rx", peerStats.DroppedRX)
		metricsSink.Store("ws_client_count", uint64(hub.Count()))

		if coreCfg.VerboseEngineLog {
			logger.Printf("tick: state=%+v metrics=%+v", e.Snapshot().State, metrics.Snapshot())
		}
	})
	go runTicker(stationCtx, time.Duration(coreCfg.HeartbeatIntervalMs)*time.Millisecond, route.SendHeartbeat)
	go runTicker(stationCtx, time.Duration(coreCfg.WSPingIntervalMs)*time.Millisecond, hub.Ping)

	disconnected := make(chan struct{}, 1)
	go sup.RunReconnectLoop(stationCtx, disconnected)

	stationDeps := httpapi.StationDeps{
		Hub:        hub,
		Dispatcher: dispatcher,
		Bus:        bus,
		FactoryReset: func() error {
			if err := sup.FactoryReset(); err != nil {
				return err
			}
			disconnected <- struct{}{}
			return nil
		},
		WiFiStatus: func() httpapi.WiFiStatus {
			return httpapi.WiFiStatus{Connected: true, Channel: coreCfg.PeerChannel, ESPNowPeers: bus.PeerCount()}
		},
	}

	r := httpapi.NewStationRouter(stationDeps)
	srv := &http.Server{Addr: fmt.Sprintf(":%d", coreCfg.HTTPPort), Handler: r}
	logger.Printf("station server listening on %s", srv.Addr)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("station server failed: %w", err)
		}
		return nil
	}
}

// runTicker invokes fn on every tick of interval until ctx is cancelled,
// mirroring the timer task's cadence (spec §5).
func runTicker(ctx context.Context, interval time.Duration, fn func()) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn()
		}
	}
}
