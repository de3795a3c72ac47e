package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/handler"
	"github.com/iliyamo/planetarium-reservation/internal/middleware"
	"github.com/iliyamo/planetarium-reservation/internal/policy"
)

// registerCatalog mounts the admin-managed reference data. Reads are
// public; writes need an admin. Dome, theme and show list reads go through
// the Redis response cache and their writes purge it. Show detail and
// sessions are never cached: both carry live ticket counts.
func registerCatalog(e *echo.Echo, d Deps) {
	cache := middleware.NewRedisCache(d.Cache, d.Redis, d.Log)
	purge := middleware.PurgeCacheOnWrite(d.Cache, d.Redis, d.Log)
	allow := middleware.Authorize

	if h := d.Domes; h != nil {
		g := e.Group("/planetarium_domes")
		g.GET("", h.List, allow(policy.DomeList), cache)
		g.POST("", h.Create, allow(policy.DomeCreate), purge)
		g.GET("/:id", h.Get, allow(policy.DomeGet), cache)
		g.PUT("/:id", h.Update, allow(policy.DomeUpdate), purge)
		g.DELETE("/:id", handler.MethodNotAllowed, allow(policy.DomeDelete))
	}

	if h := d.Themes; h != nil {
		g := e.Group("/show_themes")
		g.GET("", h.List, allow(policy.ThemeList), cache)
		g.POST("", h.Create, allow(policy.ThemeCreate), purge)
		g.GET("/:id", h.Get, allow(policy.ThemeGet), cache)
		g.PUT("/:id", h.Update, allow(policy.ThemeUpdate), purge)
		g.DELETE("/:id", handler.MethodNotAllowed, allow(policy.ThemeDelete))
	}

	if h := d.Shows; h != nil {
		g := e.Group("/astronomy_shows")
		g.GET("", h.List, allow(policy.ShowList), cache)
		g.POST("", h.Create, allow(policy.ShowCreate), purge)
		g.GET("/:id", h.Get, allow(policy.ShowGet))
		g.PUT("/:id", h.Update, allow(policy.ShowUpdate), purge)
		g.DELETE("/:id", h.Delete, allow(policy.ShowDelete), purge)
		g.POST("/:id/upload-image", h.UploadImage, allow(policy.ShowUploadImage), purge)
	}

	if h := d.Sessions; h != nil {
		g := e.Group("/show_sessions")
		g.GET("", h.List, allow(policy.SessionList))
		g.POST("", h.Create, allow(policy.SessionCreate))
		g.GET("/:id", h.Get, allow(policy.SessionGet))
		g.PUT("/:id", h.Update, allow(policy.SessionUpdate))
		g.DELETE("/:id", handler.MethodNotAllowed, allow(policy.SessionDelete))
	}
}
