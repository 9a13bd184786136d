// Package fiberui mounts a skyview Swagger UI into Fiber applications.
// Fiber rides on fasthttp rather than net/http, which is why resolution
// works on plain method and path strings instead of request types.
//
//	ui, _ := skyview.New(skyview.WithBasePath("/docs"))
//	app := fiber.New()
//	fiberui.Register(app, ui)
package fiberui

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agentstation/skyview"
)

// UI is the part of a skyview mount the adapter consumes. *skyview.UI
// satisfies it.
type UI interface {
	BasePath() string
	Resolve(method, path string) skyview.Target
}

// Handler translates mount resolutions into Fiber responses. HEAD resolves
// as GET; fasthttp drops the body on the wire. Misses render Fiber's
// native 404.
func Handler(ui UI) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := c.Method()
		if method == fiber.MethodHead {
			method = fiber.MethodGet
		}
		target := ui.Resolve(method, c.Path())

		switch target.Kind {
		case skyview.KindNotFound:
			return fiber.ErrNotFound
		case skyview.KindRedirect:
			return c.Redirect(target.Location, fiber.StatusFound)
		}

		c.Set(fiber.HeaderCacheControl, skyview.CacheControl(target.Kind))
		if target.ETag != "" {
			c.Set(fiber.HeaderETag, target.ETag)
			if skyview.MatchesETag(c.Get(fiber.HeaderIfNoneMatch), target.ETag) {
				c.Status(fiber.StatusNotModified)
				return nil
			}
		}

		c.Set(fiber.HeaderContentType, target.ContentType)
		return c.Status(fiber.StatusOK).Send(target.Body)
	}
}

// Register wires GET and HEAD routes for the mount's base path onto app.
func Register(app *fiber.App, ui UI) {
	h := Handler(ui)
	base := ui.BasePath()
	if base == "" {
		app.Get("/*", h)
		app.Head("/*", h)
		return
	}
	app.Get(base, h)
	app.Head(base, h)
	app.Get(base+"/*", h)
	app.Head(base+"/*", h)
}
