package converter

import (
	"healthvault/internal/delivery/dto"
	"healthvault/internal/domain/entity"
)

// QueueEntryToResponse converts a QueueEntry to its DTO. Prices render
// with two decimal places, matching how pharmacies display them.
func QueueEntryToResponse(entry *entity.QueueEntry) *dto.QueueEntryResponse {
	if entry == nil {
		return nil
	}

	prices := make([]dto.MedicationPriceResponse, len(entry.MedicationPrices))
	for i, mp := range entry.MedicationPrices {
		prices[i] = dto.MedicationPriceResponse{
			Name:      mp.Name,
			Dosage:    mp.Dosage,
			Frequency: mp.Frequency,
			Duration:  mp.Duration,
			Price:     mp.Price.StringFixed(2),
		}
	}

	return &dto.QueueEntryResponse{
		PrescriptionID:   entry.PrescriptionID,
		PatientName:      entry.PatientName,
		DoctorName:       entry.DoctorName,
		PrescriptionDate: entry.PrescriptionDate,
		QueueStatus:      string(entry.QueueStatus),
		AddedToQueueAt:   entry.AddedToQueueAt,
		CompletedAt:      entry.CompletedAt,
		MedicationPrices: prices,
		TotalPrice:       entry.TotalPrice.StringFixed(2),
	}
}

// QueueEntriesToResponses converts a slice of QueueEntry values
func QueueEntriesToResponses(entries []entity.QueueEntry) []dto.QueueEntryResponse {
	responses := make([]dto.QueueEntryResponse, len(entries))
	for i, entry := range entries {
		resp := QueueEntryToResponse(&entry)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
