// Package settings implements the admin settings handlers.
package settings

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/picshed/picshed/internal/config"
	"github.com/picshed/picshed/internal/db/controller/setting"
	"github.com/picshed/picshed/internal/web/handler"
)

const (
	// Path is the admin settings path.
	Path = "/api/settings"
)

// updateRequest is the body of a settings upsert.
// The value may be the empty string, only the key is required.
type updateRequest struct {
	Key   string `json:"key"   validate:"required"`
	Value string `json:"value"`
}

// Service is the admin settings handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the admin settings handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the admin settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Put(handler.RootPath, s.Put)
	})

	return nil
}

// Get returns the full current key/value snapshot.
func (s *Service) Get(c *fiber.Ctx) error {
	snapshot, err := setting.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load settings"})
	}

	return c.JSON(snapshot)
}

// Put upserts a single setting. Changes take effect on the next request.
func (s *Service) Put(c *fiber.Ctx) error {
	req := new(updateRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing key"})
	}

	if err := setting.Set(s.db, req.Key, req.Value); err != nil {
		log.Error().Err(err).Str("key", req.Key).Msg("failed to save setting")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save setting"})
	}

	log.Info().Str("key", req.Key).Msg("setting updated")

	return c.JSON(fiber.Map{"ok": true})
}
