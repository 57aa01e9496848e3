package repository

import (
	"context"

	"healthvault/internal/domain/entity"

	"github.com/google/uuid"
)

type PrescriptionRepository interface {
	Create(ctx context.Context, prescription *entity.Prescription) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Prescription, error)
	FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Prescription, error)
	FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Prescription, error)
	// FindPending returns all pending prescriptions with patient and
	// doctor preloaded for name display.
	FindPending(ctx context.Context) ([]entity.Prescription, error)
	// Claim conditionally marks the prescription as claimed by pharmacyID
	// only while it is still pending. Returns affected rows: 0 means the
	// prescription was already claimed, dispensed, or does not exist.
	Claim(ctx context.Context, id, pharmacyID uuid.UUID) (int64, error)
	// Release reverts a claim back to pending, only while the
	// prescription is still claimed by pharmacyID. Compensates a claim
	// whose queue write failed.
	Release(ctx context.Context, id, pharmacyID uuid.UUID) (int64, error)
	// MarkDispensed sets status to dispensed. Idempotent: repeating the
	// write has no additional effect.
	MarkDispensed(ctx context.Context, id uuid.UUID) error
}
