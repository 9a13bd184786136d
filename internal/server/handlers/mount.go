package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/agentstation/skyview"
)

var reloadScriptTag = []byte(`<script src="` + ReloadScriptPath + `" defer></script>`)

// HandleMount serves the Swagger UI mount. It applies the same caching and
// conditional request policy as the library's own handler, with one dev
// server addition: in watch mode the index page gets the reload client
// script injected so open tabs refresh after a rebuild.
func (h *Handlers) HandleMount(w http.ResponseWriter, r *http.Request) {
	method := r.Method
	if method == http.MethodHead {
		method = http.MethodGet
	}
	target := h.ui().Resolve(method, r.URL.Path)

	switch target.Kind {
	case skyview.KindNotFound:
		http.NotFound(w, r)
		return
	case skyview.KindRedirect:
		http.Redirect(w, r, target.Location, http.StatusFound)
		return
	}

	body := target.Body
	etag := target.ETag
	if h.hub != nil && target.Kind == skyview.KindIndex {
		body = injectReloadScript(body)
		// The tag no longer matches the injected body
		etag = ""
	}

	w.Header().Set("Cache-Control", skyview.CacheControl(target.Kind))
	if etag != "" {
		w.Header().Set("ETag", etag)
		if skyview.MatchesETag(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", target.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(body); err != nil {
		h.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("Mount write failed")
	}
}

// injectReloadScript places the reload client just before </body>, or
// appends it when the marker is absent.
func injectReloadScript(index []byte) []byte {
	marker := []byte("</body>")
	at := bytes.LastIndex(index, marker)
	if at < 0 {
		return append(append([]byte(nil), index...), reloadScriptTag...)
	}
	out := make([]byte, 0, len(index)+len(reloadScriptTag))
	out = append(out, index[:at]...)
	out = append(out, reloadScriptTag...)
	out = append(out, index[at:]...)
	return out
}
