package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/skyview"
	"github.com/agentstation/skyview/internal/server/response"
)

// HandleHealth handles GET /healthz. The payload reports what the mount is
// currently serving, which makes it double as a smoke test for rebuilds.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		response.MethodNotAllowed(w, r.Method)
		return
	}

	ui := h.ui()
	specs := ui.Specs()
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	data := map[string]any{
		"status":         "healthy",
		"service":        "skyview",
		"version":        skyview.Version(),
		"uptime_seconds": int(time.Since(h.started) / time.Second),
		"base_path":      ui.BasePath(),
		"assets":         len(ui.AssetPaths()),
		"specs":          names,
	}
	if h.hub != nil {
		data["reload_clients"] = h.hub.ClientCount()
	}

	response.OK(w, data)
}
