package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/raytag/endpoint/internal/peer"
	"github.com/raytag/endpoint/internal/supervisor"
)

// ProvisioningDeps collects what the captive-AP form needs (spec §4.H:
// "GET / serves a captive-portal form", "POST /config ... persist them to
// NVS, respond with confirmation, then restart").
type ProvisioningDeps struct {
	Supervisor *supervisor.Supervisor
	MAC        peer.MAC
}

// NewProvisioningRouter builds the soft-AP HTTP surface served while the
// endpoint is in ModeProvisioning.
func NewProvisioningRouter(deps ProvisioningDeps) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		serveProvisioningForm(w, deps)
	}).Methods(http.MethodGet)

	r.HandleFunc("/config", func(w http.ResponseWriter, req *http.Request) {
		serveConfig(w, req, deps)
	}).Methods(http.MethodPost)

	return r
}

func serveProvisioningForm(w http.ResponseWriter, deps ProvisioningDeps) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<html><body>
<h1>%s setup</h1>
<form method="POST" action="/config">
  <label>Wi-Fi SSID <input name="ssid"></label><br>
  <label>Wi-Fi password <input name="pass" type="password"></label><br>
  <label>Device name <input name="name"></label><br>
  <label>Role
    <select name="role">
      <option value="weapon">weapon</option>
      <option value="target">target</option>
    </select>
  </label><br>
  <button type="submit">Save and restart</button>
</form>
</body></html>`, supervisor.ProvisioningSSID(deps.MAC))
}

func serveConfig(w http.ResponseWriter, req *http.Request, deps ProvisioningDeps) {
	if deps.Supervisor == nil {
		http.Error(w, "supervisor not available", http.StatusServiceUnavailable)
		return
	}
	if err := req.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	creds := supervisor.Credentials{
		SSID: req.FormValue("ssid"),
		Pass: req.FormValue("pass"),
		Name: req.FormValue("name"),
		Role: req.FormValue("role"),
	}
	if creds.SSID == "" {
		http.Error(w, "ssid is required", http.StatusBadRequest)
		return
	}
	if err := deps.Supervisor.Configure(creds); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<html><body><p>Saved. Restarting into station mode...</p></body></html>`)
}
