package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type MedicationRequest struct {
	Name      string `json:"name" validate:"required,min=1"`
	Dosage    string `json:"dosage" validate:"required,min=1"`
	Frequency string `json:"frequency" validate:"omitempty"`
	Duration  string `json:"duration" validate:"omitempty"`
}

type CreatePrescriptionRequest struct {
	PatientID        string              `json:"patient_id" validate:"required,uuid"`
	Medications      []MedicationRequest `json:"medications" validate:"required,min=1,dive"`
	PrescriptionDate string              `json:"prescription_date" validate:"required,datetime=2006-01-02"`
	// PhotoHash is set by the handler after a successful photo pin; it is
	// never accepted from the request body.
	PhotoHash string `json:"-"`
}

// Response DTOs

type MedicationResponse struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency,omitempty"`
	Duration  string `json:"duration,omitempty"`
}

type PrescriptionResponse struct {
	ID               uuid.UUID            `json:"id"`
	PatientID        uuid.UUID            `json:"patient_id"`
	DoctorID         uuid.UUID            `json:"doctor_id"`
	PatientName      string               `json:"patient_name,omitempty"`
	DoctorName       string               `json:"doctor_name,omitempty"`
	Medications      []MedicationResponse `json:"medications"`
	PhotoHash        string               `json:"photo_hash,omitempty"`
	PhotoURL         string               `json:"photo_url,omitempty"`
	Status           string               `json:"status"`
	PrescriptionDate time.Time            `json:"prescription_date"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

type PrescriptionListResponse struct {
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
	Total         int                    `json:"total"`
}
