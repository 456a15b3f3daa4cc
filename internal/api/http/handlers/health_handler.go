package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is a dependency readiness can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency names a probed backend. A nil Pinger reports "disabled".
type Dependency struct {
	Name   string
	Pinger Pinger
}

// VersionProber reports the language model server version.
type VersionProber interface {
	Version(ctx context.Context) (map[string]any, error)
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName   string
	version       string
	polishEnabled bool
	genModel      string
	ollama        VersionProber
	deps          []Dependency
}

// HealthOptions configures the handler.
type HealthOptions struct {
	ServiceName   string
	Version       string
	PolishEnabled bool
	GenModel      string
	Ollama        VersionProber
	Dependencies  []Dependency
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(opts HealthOptions) *HealthHandler {
	return &HealthHandler{
		serviceName:   opts.ServiceName,
		version:       opts.Version,
		polishEnabled: opts.PolishEnabled,
		genModel:      opts.GenModel,
		ollama:        opts.Ollama,
		deps:          opts.Dependencies,
	}
}

// Root GET /.
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "AI Agent Framework is running 🚀"})
}

// Health GET /health.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true, "model_polish_enabled": h.polishEnabled})
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	for _, dep := range h.deps {
		if dep.Pinger == nil {
			depStatus[dep.Name] = "disabled"
			continue
		}
		if err := dep.Pinger.Ping(ctx); err != nil {
			depStatus[dep.Name] = err.Error()
			ready = false
			continue
		}
		depStatus[dep.Name] = "ok"
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

// Ollama GET /health/ollama. Failures are reported in the body with 200.
func (h *HealthHandler) Ollama(c *fiber.Ctx) error {
	if h.ollama == nil {
		return c.JSON(fiber.Map{"ok": false, "error": "polish disabled", "gen_model": h.genModel})
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	v, err := h.ollama.Version(ctx)
	if err != nil {
		return c.JSON(fiber.Map{"ok": false, "error": err.Error(), "gen_model": h.genModel})
	}
	return c.JSON(fiber.Map{"ok": true, "ollama": v, "gen_model": h.genModel})
}
