// Package echoui mounts a skyview Swagger UI into Echo applications.
//
//	ui, _ := skyview.New(skyview.WithBasePath("/docs"))
//	e := echo.New()
//	echoui.Register(e, ui)
package echoui

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/agentstation/skyview"
)

// UI is the part of a skyview mount the adapter consumes. *skyview.UI
// satisfies it.
type UI interface {
	BasePath() string
	Resolve(method, path string) skyview.Target
}

// Handler translates mount resolutions into Echo responses. HEAD resolves
// as GET without a body; misses render Echo's native 404.
func Handler(ui UI) echo.HandlerFunc {
	return func(c echo.Context) error {
		method := c.Request().Method
		if method == http.MethodHead {
			method = http.MethodGet
		}
		target := ui.Resolve(method, c.Request().URL.Path)

		switch target.Kind {
		case skyview.KindNotFound:
			return echo.ErrNotFound
		case skyview.KindRedirect:
			return c.Redirect(http.StatusFound, target.Location)
		}

		header := c.Response().Header()
		header.Set("Cache-Control", skyview.CacheControl(target.Kind))
		if target.ETag != "" {
			header.Set("ETag", target.ETag)
			if skyview.MatchesETag(c.Request().Header.Get("If-None-Match"), target.ETag) {
				return c.NoContent(http.StatusNotModified)
			}
		}

		if c.Request().Method == http.MethodHead {
			header.Set(echo.HeaderContentType, target.ContentType)
			header.Set(echo.HeaderContentLength, strconv.Itoa(len(target.Body)))
			return c.NoContent(http.StatusOK)
		}
		return c.Blob(http.StatusOK, target.ContentType, target.Body)
	}
}

// Register wires GET and HEAD routes for the mount's base path onto e.
func Register(e *echo.Echo, ui UI) {
	h := Handler(ui)
	base := ui.BasePath()
	if base == "" {
		e.GET("/*", h)
		e.HEAD("/*", h)
		return
	}
	e.GET(base, h)
	e.HEAD(base, h)
	e.GET(base+"/*", h)
	e.HEAD(base+"/*", h)
}
