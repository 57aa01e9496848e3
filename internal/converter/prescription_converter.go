package converter

import (
	"healthvault/internal/delivery/dto"
	"healthvault/internal/domain/entity"

	"github.com/google/uuid"
)

// PrescriptionToResponse converts a Prescription entity to its DTO.
// photoURL is the gateway retrieval URL for the pinned photo, empty when
// the prescription has none.
func PrescriptionToResponse(prescription *entity.Prescription, photoURL string) *dto.PrescriptionResponse {
	if prescription == nil {
		return nil
	}

	medications := make([]dto.MedicationResponse, len(prescription.Medications))
	for i, med := range prescription.Medications {
		medications[i] = dto.MedicationResponse{
			Name:      med.Name,
			Dosage:    med.Dosage,
			Frequency: med.Frequency,
			Duration:  med.Duration,
		}
	}

	response := &dto.PrescriptionResponse{
		ID:               prescription.ID,
		PatientID:        prescription.PatientID,
		DoctorID:         prescription.DoctorID,
		Medications:      medications,
		Status:           string(prescription.Status),
		PrescriptionDate: prescription.PrescriptionDate,
		CreatedAt:        prescription.CreatedAt,
		UpdatedAt:        prescription.UpdatedAt,
	}

	if prescription.PhotoHash != nil {
		response.PhotoHash = *prescription.PhotoHash
		response.PhotoURL = photoURL
	}
	if prescription.Patient.ID != uuid.Nil {
		response.PatientName = prescription.Patient.FullName
	}
	if prescription.Doctor.ID != uuid.Nil {
		response.DoctorName = prescription.Doctor.FullName
	}

	return response
}
