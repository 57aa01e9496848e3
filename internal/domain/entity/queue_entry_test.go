package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestQueueStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to QueueStatus
		allowed  bool
	}{
		{QueueStatusInProcess, QueueStatusReady, true},
		{QueueStatusInProcess, QueueStatusCompleted, true},
		{QueueStatusReady, QueueStatusCompleted, true},
		{QueueStatusReady, QueueStatusInProcess, true},
		{QueueStatusCompleted, QueueStatusInProcess, false},
		{QueueStatusCompleted, QueueStatusReady, false},
		{QueueStatusInProcess, QueueStatusInProcess, false},
		{QueueStatusReady, QueueStatusReady, false},
		{QueueStatusCompleted, QueueStatusCompleted, false},
		{QueueStatusInProcess, QueueStatus("Shipped"), false},
		{QueueStatus("Shipped"), QueueStatusReady, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestQueueStatusValid(t *testing.T) {
	require.True(t, QueueStatusInProcess.Valid())
	require.True(t, QueueStatusReady.Valid())
	require.True(t, QueueStatusCompleted.Valid())
	require.False(t, QueueStatus("in process").Valid())
	require.False(t, QueueStatus("").Valid())
}

func TestNewQueueEntry(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	p := &Prescription{
		ID:        uuid.New(),
		PatientID: uuid.New(),
		Medications: Medications{
			{Name: "Amoxicillin", Dosage: "500mg"},
			{Name: "Ibuprofen", Dosage: "200mg"},
		},
		PrescriptionDate: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
	}
	pharmacyID := uuid.New()

	entry := NewQueueEntry(p, pharmacyID, "Jane Miller", "Dr. Adams", now)

	require.Equal(t, p.ID, entry.PrescriptionID)
	require.Equal(t, pharmacyID, entry.PharmacyID)
	require.Equal(t, QueueStatusInProcess, entry.QueueStatus)
	require.Equal(t, now, entry.AddedToQueueAt)
	require.Nil(t, entry.CompletedAt)
	require.Len(t, entry.MedicationPrices, 2)
	for _, mp := range entry.MedicationPrices {
		require.True(t, mp.Price.IsZero())
	}
	require.True(t, entry.TotalPrice.IsZero())
}

func TestRecalculateTotal(t *testing.T) {
	entry := QueueEntry{
		MedicationPrices: []MedicationPrice{
			{Price: decimal.RequireFromString("12.50")},
			{Price: decimal.RequireFromString("3.25")},
			{Price: decimal.Zero},
		},
	}

	entry.RecalculateTotal()
	require.Equal(t, "15.75", entry.TotalPrice.StringFixed(2))

	entry.MedicationPrices[2].Price = decimal.RequireFromString("0.25")
	entry.RecalculateTotal()
	require.Equal(t, "16.00", entry.TotalPrice.StringFixed(2))
}
