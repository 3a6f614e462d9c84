package models

import (
	"path/filepath"
	"time"
)

// Image represents a single uploaded image record.
// The bytes themselves live in the blob store under BlobKey; exactly one blob
// corresponds to each record.
type Image struct {
	// ID is the server-generated uuid, used as both the primary key and the
	// blob file-name stem.
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// OriginalName is the client-supplied file name. It is only used to derive
	// the file extension and for display, never for path construction.
	OriginalName string `gorm:"size:255" json:"original_name"`
	// MimeType is the content type as declared by the client at upload time.
	MimeType string `gorm:"size:255" json:"mime_type"`
	// Size is the number of bytes written to the blob store.
	Size int64 `json:"size"`
	// UploadedAt is assigned by the server at insert time.
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

// Ext returns the extension of the client-supplied file name, including the
// leading dot, or the empty string if the name has none.
func (i *Image) Ext() string {
	return filepath.Ext(i.OriginalName)
}

// BlobKey returns the blob store key for this record: the identifier plus the
// extension of the original name.
func (i *Image) BlobKey() string {
	return i.ID + i.Ext()
}
