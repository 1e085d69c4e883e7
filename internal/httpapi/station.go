// Package httpapi builds the station-mode and provisioning-mode HTTP
// surfaces (spec §6) on top of the gorilla/mux router library.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/raytag/endpoint/internal/admin"
	"github.com/raytag/endpoint/internal/peer"
	"github.com/raytag/endpoint/internal/ws"
)

// StationDeps collects everything the station router needs from the
// rest of the process.
type StationDeps struct {
	Hub        *ws.Hub
	Dispatcher *admin.Dispatcher
	Bus        *peer.Bus
	FactoryReset func() error
	WiFiStatus func() WiFiStatus
}

// WiFiStatus is the payload rendered by GET /api/status (spec §6).
type WiFiStatus struct {
	Connected   bool
	IP          string
	Channel     uint8
	ESPNowPeers uint8
}

// NewStationRouter builds the station-mode HTTP surface (spec §6: "/",
// "/clean", "/api/status", "/api/peers", "/ws").
func NewStationRouter(deps StationDeps) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		serveStatusHTML(w, deps)
	}).Methods(http.MethodGet)

	r.HandleFunc("/clean", func(w http.ResponseWriter, req *http.Request) {
		if deps.FactoryReset == nil {
			http.Error(w, "factory reset not available", http.StatusServiceUnavailable)
			return
		}
		if err := deps.FactoryReset(); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/status", func(w http.ResponseWriter, req *http.Request) {
		serveAPIStatus(w, deps)
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/peers", func(w http.ResponseWriter, req *http.Request) {
		serveGetPeers(w, deps)
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/peers", func(w http.ResponseWriter, req *http.Request) {
		servePostPeers(w, req, deps)
	}).Methods(http.MethodPost)

	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		deps.Hub.ServeUpgrade(w, req, func(handle ws.SessionHandle, payload []byte) {
			deps.Dispatcher.HandleFrame(context.Background(), handle, payload)
		})
	})

	return r
}

func serveStatusHTML(w http.ResponseWriter, deps StationDeps) {
	status := deps.WiFiStatus()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<html><body><h1>RayTag endpoint</h1><p>wifi: %v</p><p>ip: %s</p><p>channel: %d</p><p>espnow peers: %d</p></body></html>",
		status.Connected, status.IP, status.Channel, status.ESPNowPeers)
}

// apiStatus mirrors spec §6's GET /api/status shape.
type apiStatus struct {
	WiFi        bool   `json:"wifi"`
	IP          string `json:"ip"`
	Channel     uint8  `json:"channel"`
	Peers       string `json:"peers"`
	ESPNowPeers uint8  `json:"espnow_peers"`
}

func peersCSV(bus *peer.Bus) string {
	if bus == nil {
		return ""
	}
	macs := bus.PeerMACs()
	parts := make([]string, len(macs))
	for i, mac := range macs {
		parts[i] = mac.String()
	}
	return strings.Join(parts, ",")
}

func serveAPIStatus(w http.ResponseWriter, deps StationDeps) {
	status := deps.WiFiStatus()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(apiStatus{
		WiFi:        status.Connected,
		IP:          status.IP,
		Channel:     status.Channel,
		Peers:       peersCSV(deps.Bus),
		ESPNowPeers: status.ESPNowPeers,
	})
}

func serveGetPeers(w http.ResponseWriter, deps StationDeps) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, peersCSV(deps.Bus))
}

func servePostPeers(w http.ResponseWriter, req *http.Request, deps StationDeps) {
	if deps.Bus == nil {
		http.Error(w, "peer bus not available", http.StatusServiceUnavailable)
		return
	}
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(req.Body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := deps.Bus.LoadPeersFromCSV(buf.String()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}
