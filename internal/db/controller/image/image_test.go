package image

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/picshed/picshed/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(&models.Image{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestAdd(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		id            string
		originalName  string
		mimeType      string
		size          int64
		seedID        string
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			id:            "a",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty id",
			dbParam:       db,
			id:            "",
			expectedError: ErrImageIDEmpty,
		},
		{
			name:          "duplicate id",
			dbParam:       db,
			id:            "dup",
			seedID:        "dup",
			expectedError: ErrImageAlreadyExists,
		},
		{
			name:         "successful insert",
			dbParam:      db,
			id:           "fresh",
			originalName: "a.txt",
			mimeType:     "text/plain",
			size:         10,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM images")
			}

			if tc.seedID != "" {
				require.NoError(t, db.Create(&models.Image{ID: tc.seedID}).Error)
			}

			img, err := Add(tc.dbParam, tc.id, tc.originalName, tc.mimeType, tc.size)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, img)
			} else {
				require.NoError(t, err)
				require.NotNil(t, img)
				assert.Equal(t, tc.id, img.ID)
				assert.Equal(t, tc.originalName, img.OriginalName)
				assert.Equal(t, tc.mimeType, img.MimeType)
				assert.Equal(t, tc.size, img.Size)
				assert.False(t, img.UploadedAt.IsZero(), "UploadedAt should be server-assigned")
			}
		})
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	t.Run("nil database", func(t *testing.T) {
		_, err := Get(nil, "a")
		require.ErrorIs(t, err, ErrDBNil)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := Get(db, "")
		require.ErrorIs(t, err, ErrImageIDEmpty)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := Get(db, "nonexistent")
		require.ErrorIs(t, err, ErrImageNotFound)
	})

	t.Run("successful get", func(t *testing.T) {
		_, err := Add(db, "pic-1", "cat.png", "image/png", 42)
		require.NoError(t, err)

		img, err := Get(db, "pic-1")
		require.NoError(t, err)
		assert.Equal(t, "cat.png", img.OriginalName)
		assert.Equal(t, "image/png", img.MimeType)
		assert.Equal(t, int64(42), img.Size)
	})
}

func TestList(t *testing.T) {
	db := setupTestDB(t)

	t.Run("nil database", func(t *testing.T) {
		_, err := List(nil)
		require.ErrorIs(t, err, ErrDBNil)
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		images, err := List(db)
		require.NoError(t, err)
		require.NotNil(t, images)
		assert.Empty(t, images)
	})

	t.Run("newest upload first", func(t *testing.T) {
		db.Exec("DELETE FROM images")

		now := time.Now().UTC()
		seed := []models.Image{
			{ID: "oldest", UploadedAt: now.Add(-2 * time.Hour)},
			{ID: "newest", UploadedAt: now},
			{ID: "middle", UploadedAt: now.Add(-time.Hour)},
		}
		for _, img := range seed {
			require.NoError(t, db.Create(&img).Error)
		}

		images, err := List(db)
		require.NoError(t, err)
		require.Len(t, images, 3)
		assert.Equal(t, "newest", images[0].ID)
		assert.Equal(t, "middle", images[1].ID)
		assert.Equal(t, "oldest", images[2].ID)
	})
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	t.Run("nil database", func(t *testing.T) {
		require.ErrorIs(t, Delete(nil, "a"), ErrDBNil)
	})

	t.Run("empty id", func(t *testing.T) {
		require.ErrorIs(t, Delete(db, ""), ErrImageIDEmpty)
	})

	t.Run("missing record has a distinct signal", func(t *testing.T) {
		require.ErrorIs(t, Delete(db, "nonexistent"), ErrImageNotFound)
	})

	t.Run("successful delete, second delete reports not found", func(t *testing.T) {
		_, err := Add(db, "doomed", "a.txt", "text/plain", 1)
		require.NoError(t, err)

		require.NoError(t, Delete(db, "doomed"))
		require.ErrorIs(t, Delete(db, "doomed"), ErrImageNotFound)

		_, err = Get(db, "doomed")
		require.ErrorIs(t, err, ErrImageNotFound)
	})
}
