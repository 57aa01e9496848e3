package dto

import (
	"time"

	"github.com/google/uuid"
)

// UploadDocumentRequest carries the form fields of a multipart document
// upload; the file itself travels as the "file" part.
type UploadDocumentRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Type     string `json:"type" validate:"required,min=1,max=100"`
	TestDate string `json:"test_date" validate:"omitempty,datetime=2006-01-02"`
}

// Response DTOs

type DocumentResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	IpfsHash   string     `json:"ipfs_hash"`
	FileURL    string     `json:"file_url,omitempty"`
	TestDate   *time.Time `json:"test_date,omitempty"`
	UploadDate time.Time  `json:"upload_date"`
	CreatedAt  time.Time  `json:"created_at"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Total     int                `json:"total"`
}
