package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/persistence"
	"github.com/spec-kit/ticket-dashboard/internal/service"
)

// Pinger is a backend that can report its connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StateReader exposes the current dashboard state.
type StateReader interface {
	Current() service.State
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    Pinger
	redis       Pinger
	state       StateReader
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres, redis Pinger, state StateReader) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis, state: state}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness: the first ticket load has finished and every configured
// backend answers.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	for name, p := range map[string]Pinger{"postgres": h.postgres, "redis": h.redis} {
		status, ok := pingStatus(ctx, p)
		depStatus[name] = status
		ready = ready && ok
	}

	if h.state != nil {
		current := h.state.Current()
		if current.Loaded {
			depStatus["tickets"] = "loaded"
		} else {
			depStatus["tickets"] = "loading"
			ready = false
		}
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}

func pingStatus(ctx context.Context, p Pinger) (string, bool) {
	if p == nil {
		return persistence.ErrDisabled.Error(), true
	}
	err := p.Ping(ctx)
	switch {
	case err == nil:
		return "ok", true
	case errors.Is(err, persistence.ErrDisabled):
		return err.Error(), true
	default:
		return err.Error(), false
	}
}
