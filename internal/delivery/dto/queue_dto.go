package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type ClaimPrescriptionRequest struct {
	PrescriptionID string `json:"prescription_id" validate:"required,uuid"`
	// PublicKey, when present, must match the patient's public key before
	// the claim is accepted.
	PublicKey string `json:"public_key" validate:"omitempty"`
}

type UpdateQueueStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SetMedicationPriceRequest carries the price as a string so that
// malformed input can be coerced to zero instead of failing JSON
// decoding.
type SetMedicationPriceRequest struct {
	MedicationIndex int    `json:"medication_index" validate:"gte=0"`
	Price           string `json:"price" validate:"required"`
}

// Response DTOs

type MedicationPriceResponse struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Price     string `json:"price"`
}

type QueueEntryResponse struct {
	PrescriptionID   uuid.UUID                 `json:"prescription_id"`
	PatientName      string                    `json:"patient_name"`
	DoctorName       string                    `json:"doctor_name"`
	PrescriptionDate time.Time                 `json:"prescription_date"`
	QueueStatus      string                    `json:"queue_status"`
	AddedToQueueAt   time.Time                 `json:"added_to_queue_at"`
	CompletedAt      *time.Time                `json:"completed_at,omitempty"`
	MedicationPrices []MedicationPriceResponse `json:"medication_prices"`
	TotalPrice       string                    `json:"total_price"`
}

type QueueListResponse struct {
	Entries []QueueEntryResponse `json:"entries"`
	Total   int                  `json:"total"`
}
