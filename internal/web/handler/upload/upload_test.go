package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/picshed/picshed/internal/blob"
	"github.com/picshed/picshed/internal/config"
	imagecontroller "github.com/picshed/picshed/internal/db/controller/image"
	"github.com/picshed/picshed/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Image{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func setupService(t *testing.T) (*fiber.App, *gorm.DB, *blob.Store) {
	t.Helper()

	db := setupTestDB(t)
	blobs := blob.New(t.TempDir())

	app := fiber.New()

	service := &Service{}
	require.NoError(t, service.Init(app, &config.Config{}, db, blobs))

	return app, db, blobs
}

// multipartBody builds a single-file multipart body with an explicit part
// content type (mime/multipart's CreateFormFile would pin it to
// application/octet-stream).
func multipartBody(t *testing.T, field, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	require.NoError(t, err)

	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

type uploadResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func postUpload(t *testing.T, app *fiber.App, body *bytes.Buffer, contentType string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path, body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func TestService_Post(t *testing.T) {
	app, db, blobs := setupService(t)

	t.Run("successful upload", func(t *testing.T) {
		body, contentType := multipartBody(t, FormFileKey, "a.txt", "text/plain", "0123456789")

		resp := postUpload(t, app, body, contentType)
		defer func() {
			_ = resp.Body.Close()
		}()

		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out uploadResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

		_, err := uuid.Parse(out.ID)
		require.NoError(t, err, "identifier should be a uuid")
		assert.Equal(t, "/i/"+out.ID+"/a.txt", out.URL)

		// blob persisted under identifier+extension
		r, err := blobs.Open(out.ID + ".txt")
		require.NoError(t, err)
		defer func() {
			_ = r.Close()
		}()

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "0123456789", string(data))

		// metadata recorded verbatim
		img, err := imagecontroller.Get(db, out.ID)
		require.NoError(t, err)
		assert.Equal(t, "a.txt", img.OriginalName)
		assert.Equal(t, "text/plain", img.MimeType)
		assert.Equal(t, int64(10), img.Size)
	})

	t.Run("no file part", func(t *testing.T) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("note", "not a file"))
		require.NoError(t, w.Close())

		resp := postUpload(t, app, &buf, w.FormDataContentType())
		defer func() {
			_ = resp.Body.Close()
		}()

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("identical uploads get distinct identifiers", func(t *testing.T) {
		ids := make([]string, 0, 2)

		for i := 0; i < 2; i++ {
			body, contentType := multipartBody(t, FormFileKey, "same.png", "image/png", "same-bytes")

			resp := postUpload(t, app, body, contentType)

			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			var out uploadResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			_ = resp.Body.Close()

			ids = append(ids, out.ID)
		}

		require.NotEqual(t, ids[0], ids[1])

		// both remain independently retrievable
		for _, id := range ids {
			assert.True(t, blobs.Exists(id+".png"), "blob for %s", id)

			_, err := imagecontroller.Get(db, id)
			require.NoError(t, err)
		}
	})

	t.Run("name without extension", func(t *testing.T) {
		body, contentType := multipartBody(t, FormFileKey, "noext", "application/octet-stream", "raw")

		resp := postUpload(t, app, body, contentType)
		defer func() {
			_ = resp.Body.Close()
		}()

		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out uploadResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

		// blob key is the bare identifier
		assert.True(t, blobs.Exists(out.ID))
	})
}
