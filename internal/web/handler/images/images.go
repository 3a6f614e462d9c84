// Package images implements the admin image listing and deletion handlers.
package images

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/picshed/picshed/internal/blob"
	"github.com/picshed/picshed/internal/config"
	imagecontroller "github.com/picshed/picshed/internal/db/controller/image"
	"github.com/picshed/picshed/internal/web/handler"
)

const (
	// Path is the admin image collection path.
	Path = "/api/images"
)

// Service is the admin images handler service.
type Service struct {
	cfg   *config.Config
	db    *gorm.DB
	blobs *blob.Store
}

// Handler is the admin images handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the admin images handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, blobs *blob.Store) error {
	if app == nil || cfg == nil || db == nil || blobs == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.blobs = blobs

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.List)
		router.Delete("/:id", s.Delete)
	})

	return nil
}

// List returns all image records, newest upload first.
// The full list is a single response; the intended scale is small enough that
// pagination would only complicate the response shape.
func (s *Service) List(c *fiber.Ctx) error {
	images, err := imagecontroller.List(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list images")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list images"})
	}

	return c.JSON(images)
}

// Delete removes an image's blob and metadata record.
// The blob goes first: if the process dies between the two steps the list
// endpoint surfaces a dead link, which the next retrieval reports as 404.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	img, err := imagecontroller.Get(s.db, id)
	if err != nil {
		if errors.Is(err, imagecontroller.ErrImageNotFound) || errors.Is(err, imagecontroller.ErrImageIDEmpty) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
		}

		log.Error().Err(err).Str("id", id).Msg("failed to load image record")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load image"})
	}

	// an already absent blob is fine, a failing filesystem is not
	if err = s.blobs.Delete(img.BlobKey()); err != nil && !errors.Is(err, blob.ErrInvalidKey) {
		log.Error().Err(err).Str("key", img.BlobKey()).Msg("failed to delete blob")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete file"})
	}

	if err = imagecontroller.Delete(s.db, id); err != nil && !errors.Is(err, imagecontroller.ErrImageNotFound) {
		log.Error().Err(err).Str("id", id).Msg("failed to delete image record")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete image"})
	}

	log.Info().Str("id", id).Msg("image deleted")

	return c.JSON(fiber.Map{"ok": true})
}
