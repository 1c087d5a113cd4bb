// Package domain models the opaque binary document store. The workflow
// treats it as content-type agnostic storage keyed by generated ids.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DocumentType distinguishes uploaded originals from generated artifacts.
type DocumentType string

const (
	DocumentTypeOriginal     DocumentType = "ORIGINAL"
	DocumentTypeGeneratedPDF DocumentType = "GENERATED_PDF"
)

// Document is one stored binary plus its metadata.
type Document struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"-"`
	DocumentID   string       `gorm:"uniqueIndex;not null" json:"document_id"`
	InvoiceID    snowflake.ID `gorm:"index;not null" json:"invoice_id"`
	DocumentType DocumentType `gorm:"type:text;not null" json:"document_type"`
	FileName     string       `gorm:"not null" json:"file_name"`
	ContentType  string       `gorm:"not null" json:"content_type"`
	FileData     []byte       `gorm:"not null" json:"-"`
	Position     *int         `json:"position,omitempty"`
	UploadedBy   snowflake.ID `gorm:"not null" json:"uploaded_by"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Document) TableName() string { return "documents" }

// Meta is document metadata without the binary payload.
type Meta struct {
	DocumentID   string       `json:"document_id"`
	DocumentType DocumentType `json:"document_type"`
	FileName     string       `json:"file_name"`
	ContentType  string       `json:"content_type"`
	Position     *int         `json:"position,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
