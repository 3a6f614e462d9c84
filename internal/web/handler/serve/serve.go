// Package serve implements the public image retrieval handler.
package serve

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/picshed/picshed/internal/blob"
	"github.com/picshed/picshed/internal/config"
	imagecontroller "github.com/picshed/picshed/internal/db/controller/image"
	"github.com/picshed/picshed/internal/db/controller/setting"
	"github.com/picshed/picshed/internal/web/handler"
)

const (
	// Path is the path prefix for image retrieval.
	Path = "/i"

	// cacheControl is a long-lived public cache directive. Content at a given
	// identifier is immutable once uploaded.
	cacheControl = "public, max-age=31536000"
)

// Service is the image retrieval handler service.
type Service struct {
	cfg   *config.Config
	db    *gorm.DB
	blobs *blob.Store
}

// Handler is the image retrieval handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the image retrieval handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, blobs *blob.Store) error {
	if app == nil || cfg == nil || db == nil || blobs == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.blobs = blobs

	// register routes; the trailing name segment is cosmetic only,
	// resolution is by identifier alone
	app.Route(Path, func(router fiber.Router) {
		router.Get("/:id", s.Get)
		router.Get("/:id/:name", s.Get)
	})

	return nil
}

// Get streams an image back to the client.
func (s *Service) Get(c *fiber.Ctx) error {
	img, err := imagecontroller.Get(s.db, c.Params("id"))
	if err != nil {
		if errors.Is(err, imagecontroller.ErrImageNotFound) || errors.Is(err, imagecontroller.ErrImageIDEmpty) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
		}

		log.Error().Err(err).Str("id", c.Params("id")).Msg("failed to load image record")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load image"})
	}

	// metadata without a backing blob is not-found, not a server error
	stream, err := s.blobs.Open(img.BlobKey())
	if err != nil {
		if errors.Is(err, blob.ErrBlobNotFound) || errors.Is(err, blob.ErrInvalidKey) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "file not found"})
		}

		log.Error().Err(err).Str("key", img.BlobKey()).Msg("failed to open blob")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}

	c.Set(fiber.HeaderContentType, img.MimeType)
	c.Set(fiber.HeaderCacheControl, cacheControl)

	// The Content-Length header is a runtime toggle: with it the body is sent
	// with a declared length, without it the response is chunked. The toggle
	// is re-read per request so admin changes apply immediately.
	sendContentLength, err := setting.Get(s.db, setting.KeySendContentLength)
	if err != nil && !errors.Is(err, setting.ErrSettingNotFound) {
		log.Error().Err(err).Msg("failed to read send_content_length setting")
	}

	if sendContentLength == "true" {
		return c.SendStream(stream, int(img.Size))
	}

	return c.SendStream(stream)
}
