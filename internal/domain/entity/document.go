package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is a patient-owned file reference. The file itself lives in
// the pinning service; only the content hash is stored here.
type Document struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OwnerID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	Type       string     `gorm:"type:varchar(100);not null" json:"type"`
	IpfsHash   string     `gorm:"type:varchar(255);not null" json:"ipfs_hash"`
	TestDate   *time.Time `gorm:"type:date" json:"test_date,omitempty"`
	UploadDate time.Time  `gorm:"not null" json:"upload_date"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}
