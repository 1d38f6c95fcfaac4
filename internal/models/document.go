package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document is one addressable unit of the document store. Path is the full
// slash-separated document path; Collection is the path minus its last
// segment, indexed so children of a collection can be listed.
type Document struct {
	Path       string         `gorm:"primaryKey;size:512"`
	Collection string         `gorm:"size:512;index;not null"`
	Data       datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Document) TableName() string {
	return "documents"
}
