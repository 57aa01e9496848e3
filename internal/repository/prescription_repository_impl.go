package repository

import (
	"context"
	"errors"

	"healthvault/internal/domain/entity"
	domainRepo "healthvault/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type prescriptionRepository struct {
	db *gorm.DB
}

func NewPrescriptionRepository(db *gorm.DB) domainRepo.PrescriptionRepository {
	return &prescriptionRepository{db: db}
}

func (r *prescriptionRepository) Create(ctx context.Context, prescription *entity.Prescription) error {
	return r.db.WithContext(ctx).Create(prescription).Error
}

func (r *prescriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Prescription, error) {
	var prescription entity.Prescription
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Where("id = ?", id).
		First(&prescription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prescription, nil
}

func (r *prescriptionRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Prescription, error) {
	var prescriptions []entity.Prescription
	err := r.db.WithContext(ctx).
		Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("prescription_date DESC, created_at DESC").
		Find(&prescriptions).Error
	if err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Prescription, error) {
	var prescriptions []entity.Prescription
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Where("doctor_id = ?", doctorID).
		Order("prescription_date DESC, created_at DESC").
		Find(&prescriptions).Error
	if err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) FindPending(ctx context.Context) ([]entity.Prescription, error) {
	var prescriptions []entity.Prescription
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Where("status = ?", entity.PrescriptionStatusPending).
		Order("prescription_date DESC, created_at DESC").
		Find(&prescriptions).Error
	if err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// Claim atomically claims the prescription ONLY while it is still pending.
// Returns affected rows: 1 = claimed, 0 = lost the race or already handled.
func (r *prescriptionRepository) Claim(ctx context.Context, id, pharmacyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Prescription{}).
		Where("id = ? AND status = ?", id, entity.PrescriptionStatusPending).
		Updates(map[string]interface{}{
			"status":     entity.PrescriptionStatusClaimed,
			"claimed_by": pharmacyID,
		})
	return result.RowsAffected, result.Error
}

func (r *prescriptionRepository) Release(ctx context.Context, id, pharmacyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Prescription{}).
		Where("id = ? AND status = ? AND claimed_by = ?", id, entity.PrescriptionStatusClaimed, pharmacyID).
		Updates(map[string]interface{}{
			"status":     entity.PrescriptionStatusPending,
			"claimed_by": nil,
		})
	return result.RowsAffected, result.Error
}

func (r *prescriptionRepository) MarkDispensed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Prescription{}).
		Where("id = ?", id).
		Update("status", entity.PrescriptionStatusDispensed).Error
}
