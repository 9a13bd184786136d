package skyview

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/agentstation/skyview/pkg/constants"
)

var assetCacheControl = fmt.Sprintf("public, max-age=%d", constants.AssetCacheMaxAge)

// Handler adapts the mount to net/http. The handler expects to see the
// full request path, so mount it un-stripped:
//
//	http.Handle("/docs/", ui.Handler())
//	http.Handle("/docs", ui.Handler())
func (ui *UI) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.Method
		if method == http.MethodHead {
			method = http.MethodGet
		}
		target := ui.Resolve(method, r.URL.Path)

		switch target.Kind {
		case KindNotFound:
			http.NotFound(w, r)
			return
		case KindRedirect:
			http.Redirect(w, r, target.Location, http.StatusFound)
			return
		}

		w.Header().Set("Cache-Control", CacheControl(target.Kind))
		if target.ETag != "" {
			w.Header().Set("ETag", target.ETag)
			if MatchesETag(r.Header.Get("If-None-Match"), target.ETag) {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}

		w.Header().Set("Content-Type", target.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(target.Body)))
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(target.Body)
	})
}

// CacheControl returns the Cache-Control value a response of this kind
// carries. Assets never change for the life of a mount and may be cached;
// the index, config and spec documents change with redeploys, so clients
// revalidate them. Every adapter uses this same policy.
func CacheControl(kind Kind) string {
	if kind == KindAsset {
		return assetCacheControl
	}
	return "no-cache"
}

// MatchesETag reports whether an If-None-Match header covers etag.
// Weak comparison is fine for a bundle that never changes in place.
func MatchesETag(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
