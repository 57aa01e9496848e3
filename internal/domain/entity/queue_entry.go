package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QueueStatus is the pharmacy-local fulfillment stage of a claimed
// prescription. It is richer than the server-side status: the server only
// learns about the terminal stage, via dispensation.
type QueueStatus string

const (
	QueueStatusInProcess QueueStatus = "In Process"
	QueueStatusReady     QueueStatus = "Ready for Shipment"
	QueueStatusCompleted QueueStatus = "Completed"
)

// Valid reports whether the status is a member of the closed set.
func (s QueueStatus) Valid() bool {
	switch s {
	case QueueStatusInProcess, QueueStatusReady, QueueStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Forward moves and the single backward correction (un-staging a parcel
// that was marked ready) are permitted; Completed is terminal.
func (s QueueStatus) CanTransitionTo(next QueueStatus) bool {
	if !s.Valid() || !next.Valid() || s == next {
		return false
	}
	switch s {
	case QueueStatusInProcess:
		return next == QueueStatusReady || next == QueueStatusCompleted
	case QueueStatusReady:
		return next == QueueStatusInProcess || next == QueueStatusCompleted
	case QueueStatusCompleted:
		return false
	}
	return false
}

// MedicationPrice is one prescription line with the price the pharmacy
// assigned to it. Prices default to zero at claim time.
type MedicationPrice struct {
	Medication
	Price decimal.Decimal `json:"price"`
}

// QueueEntry is a pharmacy's in-progress handling of one claimed
// prescription. It is owned by exactly one pharmacy and persisted in that
// pharmacy's private queue storage, never shared across actors. Its
// identity is the source prescription's id.
type QueueEntry struct {
	PrescriptionID   uuid.UUID         `json:"prescription_id"`
	PharmacyID       uuid.UUID         `json:"pharmacy_id"`
	PatientID        uuid.UUID         `json:"patient_id"`
	PatientName      string            `json:"patient_name"`
	DoctorName       string            `json:"doctor_name"`
	PrescriptionDate time.Time         `json:"prescription_date"`
	QueueStatus      QueueStatus       `json:"queue_status"`
	AddedToQueueAt   time.Time         `json:"added_to_queue_at"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`
	MedicationPrices []MedicationPrice `json:"medication_prices"`
	TotalPrice       decimal.Decimal   `json:"total_price"`
}

// NewQueueEntry builds the initial entry for a freshly claimed
// prescription: status In Process, all prices zero.
func NewQueueEntry(p *Prescription, pharmacyID uuid.UUID, patientName, doctorName string, now time.Time) QueueEntry {
	prices := make([]MedicationPrice, len(p.Medications))
	for i, med := range p.Medications {
		prices[i] = MedicationPrice{Medication: med, Price: decimal.Zero}
	}
	return QueueEntry{
		PrescriptionID:   p.ID,
		PharmacyID:       pharmacyID,
		PatientID:        p.PatientID,
		PatientName:      patientName,
		DoctorName:       doctorName,
		PrescriptionDate: p.PrescriptionDate,
		QueueStatus:      QueueStatusInProcess,
		AddedToQueueAt:   now,
		MedicationPrices: prices,
		TotalPrice:       decimal.Zero,
	}
}

// RecalculateTotal recomputes TotalPrice as the sum of all line prices.
// Called after every price edit.
func (e *QueueEntry) RecalculateTotal() {
	total := decimal.Zero
	for _, mp := range e.MedicationPrices {
		total = total.Add(mp.Price)
	}
	e.TotalPrice = total
}
