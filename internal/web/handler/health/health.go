// Package health implements the liveness endpoint.
//
// The endpoint never touches the stores and is registered ahead of the
// request filter, which reads the settings store on every request.
package health

import (
	"errors"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
)

const (
	// Path is the liveness endpoint path.
	Path = "/health"
)

// Service is the liveness handler service.
type Service struct {
	alive *atomic.Bool
}

// Handler is the liveness handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the liveness handler. alive flips to false while the
// service drains during graceful shutdown.
func (s *Service) Init(app *fiber.App, alive *atomic.Bool) error {
	if app == nil || alive == nil {
		return errors.New("app or alive is nil")
	}

	s.alive = alive

	app.Get(Path, s.Get)

	return nil
}

// Get reports liveness.
func (s *Service) Get(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
	}

	return c.JSON(fiber.Map{"ok": true})
}
