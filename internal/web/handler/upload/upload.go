// Package upload implements the image upload handler.
package upload

import (
	"errors"
	"net/url"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/picshed/picshed/internal/blob"
	"github.com/picshed/picshed/internal/config"
	imagecontroller "github.com/picshed/picshed/internal/db/controller/image"
	"github.com/picshed/picshed/internal/web/handler"
)

const (
	// Path is the upload endpoint path.
	Path = "/api/upload"

	// FormFileKey is the multipart field name carrying the file.
	FormFileKey = "image"
)

// Service is the upload handler service.
type Service struct {
	cfg   *config.Config
	db    *gorm.DB
	blobs *blob.Store
}

// Handler is the upload handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the upload handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, blobs *blob.Store) error {
	if app == nil || cfg == nil || db == nil || blobs == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.blobs = blobs

	app.Post(Path, s.Post)

	return nil
}

// Post accepts a single multipart file, persists the blob and its metadata
// record, and responds with the identifier and retrieval URL.
func (s *Service) Post(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile(FormFileKey)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no file uploaded"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Str("name", fileHeader.Filename).Msg("failed to open uploaded file part")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable file upload"})
	}
	defer func() {
		_ = file.Close()
	}()

	id := uuid.NewString()
	key := id + filepath.Ext(fileHeader.Filename)

	size, err := s.blobs.Write(key, file)
	if err != nil {
		if errors.Is(err, blob.ErrInvalidKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid file name"})
		}

		log.Error().Err(err).Str("key", key).Msg("failed to store uploaded file")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store file"})
	}

	mimeType := fileHeader.Header.Get(fiber.HeaderContentType)

	if _, err = imagecontroller.Add(s.db, id, fileHeader.Filename, mimeType, size); err != nil {
		// blob and metadata mutate independently: the file written above is
		// now orphaned, log its key so an operator can collect it
		log.Error().Err(err).Str("key", key).Msg("metadata insert failed, blob is orphaned")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record upload"})
	}

	log.Info().Str("id", id).Str("name", fileHeader.Filename).Int64("size", size).Msg("image uploaded")

	return c.JSON(fiber.Map{
		"id":  id,
		"url": "/i/" + id + "/" + url.PathEscape(fileHeader.Filename),
	})
}
