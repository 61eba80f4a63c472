package main

import (
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/abhishek622/portfolio/internal/auth"
	"github.com/abhishek622/portfolio/internal/handler"
	"github.com/abhishek622/portfolio/internal/ratelimit"
	"github.com/abhishek622/portfolio/pkg/response"
)

const requestIDKey = "request_id"

func (app *application) AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if app.Handler.Auth == nil {
			response.Forbidden(c, "Admin API is disabled")
			return
		}
		claims, err := verifyClaimsFromAuthHeader(c, app.Handler.Auth)
		if err != nil {
			app.Logger.Sugar().Warnw("admin auth rejected", "path", c.Request.URL.Path, "ip", c.ClientIP(), "err", err)
			response.Unauthorized(c, "Unauthorized access")
			return
		}

		c.Set(handler.ClaimsKey, claims)
		c.Next()
	}
}

func verifyClaimsFromAuthHeader(c *gin.Context, a *auth.AdminAuthenticator) (*auth.AdminClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errMissingAuthHeader
	}

	fields := strings.Fields(authHeader)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return nil, errInvalidAuthHeader
	}
	return a.Verify(fields[1])
}

// RateLimit counts every request against p per client IP. A failing store
// lets the request through and is reported at most once per minute.
func (app *application) RateLimit(p ratelimit.Policy) gin.HandlerFunc {
	if !app.Config.Limiter.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	unavailable := &rate.Sometimes{First: 1, Interval: time.Minute}
	return func(c *gin.Context) {
		res, err := app.Limiter.Allow(c.Request.Context(), c.ClientIP(), p)
		if err != nil {
			unavailable.Do(func() {
				app.Logger.Sugar().Warnw("rate limiter unavailable", "policy", p.Name, "err", err)
			})
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			h.Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			app.Logger.Sugar().Warnw("rate limit exceeded", "policy", p.Name, "ip", c.ClientIP())
			response.TooManyRequests(c, "")
			return
		}
		c.Next()
	}
}

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-Request-ID"))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// RequestLogger logs one line per request through zap.
func (app *application) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		app.Logger.Sugar().Infow("http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"ip", c.ClientIP(),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

// CORS allows credentialed requests from the configured origins only.
func (app *application) CORS() gin.HandlerFunc {
	origins := app.Config.GetCORSOrigins()
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && slices.Contains(origins, origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			h.Set("Access-Control-Expose-Headers", "X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining, Retry-After")
			h.Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
