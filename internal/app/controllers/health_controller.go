package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/aarjjun/EventSync/internal/app/models/dto"
	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is a dependency that can report its health
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping implements Pinger
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthController reports the health of the service and its dependencies
type HealthController struct {
	checks  map[string]Pinger
	started time.Time
}

// NewHealthController creates a new HealthController
func NewHealthController(checks map[string]Pinger) *HealthController {
	return &HealthController{checks: checks, started: time.Now()}
}

// Health pings every dependency
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp := dto.HealthResponse{
		Status: "ok",
		Checks: make(map[string]string, len(c.checks)),
		Uptime: time.Since(c.started).Round(time.Second).String(),
	}
	for name, check := range c.checks {
		if err := check.Ping(pingCtx); err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			continue
		}
		resp.Checks[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, resp)
}
