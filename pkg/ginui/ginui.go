// Package ginui mounts a skyview Swagger UI into Gin applications.
//
//	ui, _ := skyview.New(skyview.WithBasePath("/docs"))
//	r := gin.New()
//	ginui.Register(r, ui)
package ginui

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agentstation/skyview"
)

// UI is the part of a skyview mount the adapter consumes. *skyview.UI
// satisfies it.
type UI interface {
	BasePath() string
	Resolve(method, path string) skyview.Target
}

// Handler translates mount resolutions into Gin responses. HEAD resolves
// as GET without a body; misses abort with a bare 404.
func Handler(ui UI) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method == http.MethodHead {
			method = http.MethodGet
		}
		target := ui.Resolve(method, c.Request.URL.Path)

		switch target.Kind {
		case skyview.KindNotFound:
			c.AbortWithStatus(http.StatusNotFound)
			return
		case skyview.KindRedirect:
			c.Redirect(http.StatusFound, target.Location)
			return
		}

		c.Header("Cache-Control", skyview.CacheControl(target.Kind))
		if target.ETag != "" {
			c.Header("ETag", target.ETag)
			if skyview.MatchesETag(c.GetHeader("If-None-Match"), target.ETag) {
				c.Status(http.StatusNotModified)
				return
			}
		}

		if c.Request.Method == http.MethodHead {
			c.Header("Content-Type", target.ContentType)
			c.Header("Content-Length", strconv.Itoa(len(target.Body)))
			c.Status(http.StatusOK)
			return
		}
		c.Data(http.StatusOK, target.ContentType, target.Body)
	}
}

// Register wires GET and HEAD routes for the mount's base path onto r.
// Root mounts claim the router's catch-all route.
func Register(r gin.IRouter, ui UI) {
	h := Handler(ui)
	base := ui.BasePath()
	if base == "" {
		r.GET("/*any", h)
		r.HEAD("/*any", h)
		return
	}
	r.GET(base, h)
	r.HEAD(base, h)
	r.GET(base+"/*any", h)
	r.HEAD(base+"/*any", h)
}
