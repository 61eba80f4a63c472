package handler

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/abhishek622/portfolio/pkg/response"
)

const healthTimeout = 3 * time.Second

// Health pings every dependency concurrently. Any failure turns the response
// into a 503.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	var (
		g       errgroup.Group
		mu      sync.Mutex
		healthy = true
		checks  = make(gin.H, len(h.Checks))
	)
	for _, chk := range h.Checks {
		g.Go(func() error {
			status := "ok"
			if err := chk.Ping(ctx); err != nil {
				h.Logger.Sugar().Warnw("health check failed", "dependency", chk.Name(), "err", err)
				status = "unavailable"
			}
			mu.Lock()
			defer mu.Unlock()
			checks[chk.Name()] = status
			if status != "ok" {
				healthy = false
			}
			return nil
		})
	}
	_ = g.Wait()

	body := gin.H{
		"status":    "ok",
		"checks":    checks,
		"timestamp": time.Now().UTC(),
	}
	if !healthy {
		body["status"] = "degraded"
		response.ServiceUnavailable(c, body)
		return
	}
	response.OK(c, body)
}
