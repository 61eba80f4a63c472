package main

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhishek622/portfolio/internal/ratelimit"
	"github.com/abhishek622/portfolio/pkg/response"
)

func (app *application) policies() (public, admin, contact ratelimit.Policy) {
	l := app.Config.Limiter
	return ratelimit.Policy{Name: "public", Limit: l.PublicLimit, Window: l.PublicWindow},
		ratelimit.Policy{Name: "admin", Limit: l.AdminLimit, Window: l.AdminWindow},
		ratelimit.Policy{Name: "contact", Limit: l.ContactLimit, Window: l.ContactWindow}
}

func (app *application) routes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(app.RequestLogger())
	r.Use(app.CORS())

	public, admin, contact := app.policies()
	h := app.Handler

	api := r.Group("/api")
	api.GET("/health", h.Health)

	reads := api.Group("/")
	reads.Use(app.RateLimit(public))
	{
		reads.GET("/interviews", h.ListInterviews)
		reads.GET("/interviews/companies", h.ListCompanies)
		reads.GET("/interviews/featured", h.FeaturedInterviews)
		reads.GET("/interviews/:id", h.GetInterview)
	}

	api.POST("/contact", app.RateLimit(contact), h.SubmitContact)

	adminGroup := api.Group("/")
	adminGroup.Use(app.RateLimit(admin))
	adminGroup.POST("/admin/login", h.AdminLogin)

	protected := adminGroup.Group("/")
	protected.Use(app.AdminAuthMiddleware())
	{
		protected.GET("/admin/me", h.AdminMe)

		// interview routes
		protected.POST("/interviews", h.CreateInterview)
		protected.PUT("/interviews/:id", h.UpdateInterview)
		protected.DELETE("/interviews/:id", h.DeleteInterview)

		// contact routes
		protected.GET("/contact", h.ListContacts)
		protected.GET("/contact/:id", h.GetContact)
		protected.PATCH("/contact/:id", h.UpdateContact)
		protected.DELETE("/contact/:id", h.DeleteContact)
	}

	r.NoRoute(app.spaFallback(app.Config.StaticDir))
	return r
}

// spaFallback serves files from dir and index.html for any other non-API
// path, so client-side routes survive a reload. Unknown API paths get a JSON 404.
func (app *application) spaFallback(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if dir == "" || strings.HasPrefix(p, "/api/") || p == "/api" ||
			(c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			response.NotFound(c, "Route not found")
			return
		}

		file := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}
