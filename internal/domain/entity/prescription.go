package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PrescriptionStatus is the durable, server-side prescription status.
// "claimed" is the intermediate marker taken when a pharmacy pulls the
// prescription into its queue; it keeps a second pharmacy from claiming
// the same order.
type PrescriptionStatus string

const (
	PrescriptionStatusPending   PrescriptionStatus = "pending"
	PrescriptionStatusClaimed   PrescriptionStatus = "claimed"
	PrescriptionStatusDispensed PrescriptionStatus = "dispensed"
)

// Medication is one line of a prescription. All fields are free text as
// written by the doctor.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency,omitempty"`
	Duration  string `json:"duration,omitempty"`
}

// Medications is stored as a JSONB array.
type Medications []Medication

// Value implements driver.Valuer.
func (m Medications) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *Medications) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	var result []Medication
	err := json.Unmarshal(bytes, &result)
	*m = Medications(result)
	return err
}

// Prescription represents a doctor's medication order for a patient.
type Prescription struct {
	ID               uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID         uuid.UUID          `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Medications      Medications        `gorm:"type:jsonb;not null" json:"medications"`
	PhotoHash        *string            `gorm:"type:varchar(255)" json:"photo_hash,omitempty"`
	Status           PrescriptionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ClaimedBy        *uuid.UUID         `gorm:"type:uuid;index" json:"claimed_by,omitempty"`
	PrescriptionDate time.Time          `gorm:"type:date;not null" json:"prescription_date"`
	CreatedAt        time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

// IsPending checks if the prescription is still up for claiming.
func (p *Prescription) IsPending() bool {
	return p.Status == PrescriptionStatusPending
}

// IsDispensed checks if the prescription has been fulfilled.
func (p *Prescription) IsDispensed() bool {
	return p.Status == PrescriptionStatusDispensed
}
