// Package models contains database model definitions.
package models

// Setting represents a runtime-mutable configuration setting stored in the database.
// Values are plain strings; consumers parse them on read (booleans as
// "true"/"false", lists as JSON arrays).
type Setting struct {
	ID    uint64 `gorm:"primaryKey" json:"-"`
	Key   string `gorm:"unique;size:100;not null" json:"key"`
	Value string `gorm:"size:4096" json:"value"`
}
