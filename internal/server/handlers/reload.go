package handlers

import (
	"net/http"
	"strconv"
)

const (
	// ReloadScriptPath serves the reload client script in watch mode.
	ReloadScriptPath = "/__skyview/reload.js"

	// ReloadSocketPath is the WebSocket endpoint the script subscribes to.
	ReloadSocketPath = "/__skyview/reload"
)

// reloadScript reconnects with backoff so a server restart does not strand
// open tabs.
const reloadScript = `(function () {
  var delay = 1000;
  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var sock = new WebSocket(proto + location.host + "` + ReloadSocketPath + `");
    sock.onopen = function () {
      delay = 1000;
    };
    sock.onmessage = function (ev) {
      var msg;
      try {
        msg = JSON.parse(ev.data);
      } catch (e) {
        return;
      }
      if (msg.type === "reload") {
        location.reload();
      }
    };
    sock.onclose = function () {
      setTimeout(connect, delay);
      if (delay < 10000) {
        delay = delay * 2;
      }
    };
  }
  connect();
})();
`

// HandleReloadScript handles GET /__skyview/reload.js.
func (h *Handlers) HandleReloadScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Length", strconv.Itoa(len(reloadScript)))
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(reloadScript))
}
