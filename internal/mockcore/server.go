// Package mockcore serves a fixed order/voucher data set with the backend's
// read API, for local runs and evaluation.
package mockcore

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/observability"
)

// Server exposes the fixtures over HTTP.
type Server struct {
	fixtures Fixtures
}

// NewServer builds a server over fixtures.
func NewServer(fixtures Fixtures) *Server {
	return &Server{fixtures: fixtures}
}

// App returns a fiber app with the /core/v1 routes.
func (s *Server) App(logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "core-mock", DisableStartupMessage: true})
	app.Use(observability.RequestLogger(logger, nil))

	v1 := app.Group("/core/v1")
	v1.Get("/order", s.order)
	v1.Get("/voucher", s.voucher)
	v1.Get("/dispatch", s.dispatch)
	v1.Get("/restaurant", s.restaurant)
	return app
}

// order answers unknown orders with an empty object.
func (s *Server) order(c *fiber.Ctx) error {
	rec, ok := s.fixtures.order(c.Query("order_id"), c.Query("email"))
	if !ok {
		return c.JSON(fiber.Map{})
	}
	return c.JSON(rec)
}

func (s *Server) voucher(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "code required"})
	}
	rec, ok := s.fixtures.voucher(code, c.Query("pin"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "voucher not found"})
	}
	return c.JSON(rec)
}

func (s *Server) dispatch(c *fiber.Ctx) error {
	rec, ok := s.fixtures.Dispatch[c.Query("order_id")]
	if !ok {
		return c.JSON(fiber.Map{})
	}
	return c.JSON(rec)
}

func (s *Server) restaurant(c *fiber.Ctx) error {
	rec, ok := s.fixtures.Restaurants[c.Query("id")]
	if !ok {
		return c.JSON(fiber.Map{})
	}
	return c.JSON(rec)
}
