package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserRole is the closed set of actor roles in the portal.
type UserRole string

const (
	RolePatient  UserRole = "patient"
	RoleDoctor   UserRole = "doctor"
	RolePharmacy UserRole = "pharmacy"
	RoleAdmin    UserRole = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RolePharmacy, RoleAdmin:
		return true
	}
	return false
}

// User represents the centralized authentication and profile table.
// Public key is generated once at registration and used by pharmacies
// to verify a patient before claiming a prescription.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Role      UserRole  `gorm:"type:varchar(20);not null;index" json:"role"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	FullName  string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Mobile    string    `gorm:"type:varchar(20)" json:"mobile,omitempty"`
	PublicKey string    `gorm:"type:varchar(50)" json:"public_key,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// GeneratePublicKey derives the short patient-facing key handed out at
// registration: the first 15 characters of a fresh UUID.
func GeneratePublicKey() string {
	return uuid.New().String()[:15]
}
