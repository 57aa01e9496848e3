package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"healthvault/internal/converter"
	"healthvault/internal/delivery/dto"
	"healthvault/internal/delivery/http/middleware"
	"healthvault/internal/domain/entity"
	"healthvault/internal/domain/repository"
	"healthvault/internal/infrastructure/pinning"
	"healthvault/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrPatientNotFound       = errors.New("patient not found")
	ErrNoMedications         = errors.New("prescription must contain at least one medication")
	ErrIncompleteMedication  = errors.New("each medication requires a name and dosage")
	ErrFutureDate            = errors.New("prescription date must not be in the future")
	ErrPrescriptionNotFound  = errors.New("prescription not found")
	ErrPhotoUploadFailed     = errors.New("failed to upload prescription photo")
	ErrMissingPrescriptionDt = errors.New("prescription date is required")
)

type PrescriptionUsecase interface {
	Create(ctx context.Context, req *dto.CreatePrescriptionRequest, photoName string, photo io.Reader) (*dto.PrescriptionResponse, error)
	LookupPending(ctx context.Context, filter *entity.PrescriptionFilter) (*dto.PrescriptionListResponse, error)
	GetMyPrescriptions(ctx context.Context) (*dto.PrescriptionListResponse, error)
	GetDoctorPrescriptions(ctx context.Context) (*dto.PrescriptionListResponse, error)
	SearchPatients(ctx context.Context, term string) (*dto.UserListResponse, error)
}

type prescriptionUsecase struct {
	log              *logrus.Logger
	prescriptionRepo repository.PrescriptionRepository
	userRepo         repository.UserRepository
	pinner           pinning.Pinner
	audit            service.AuditService
	// now is injectable so tests can pin the clock
	now func() time.Time
}

func NewPrescriptionUsecase(
	log *logrus.Logger,
	prescriptionRepo repository.PrescriptionRepository,
	userRepo repository.UserRepository,
	pinner pinning.Pinner,
	audit service.AuditService,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		log:              log,
		prescriptionRepo: prescriptionRepo,
		userRepo:         userRepo,
		pinner:           pinner,
		audit:            audit,
		now:              time.Now,
	}
}

// Create validates and persists a new prescription authored by the
// logged-in doctor. When a photo is attached it is pinned BEFORE the
// insert; a failed pin aborts the whole creation so there is never a
// prescription row without its referenced photo.
func (u *prescriptionUsecase) Create(ctx context.Context, req *dto.CreatePrescriptionRequest, photoName string, photo io.Reader) (*dto.PrescriptionResponse, error) {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrPatientNotFound
	}

	if len(req.Medications) == 0 {
		return nil, ErrNoMedications
	}
	medications := make(entity.Medications, len(req.Medications))
	for i, med := range req.Medications {
		if strings.TrimSpace(med.Name) == "" || strings.TrimSpace(med.Dosage) == "" {
			return nil, ErrIncompleteMedication
		}
		medications[i] = entity.Medication{
			Name:      med.Name,
			Dosage:    med.Dosage,
			Frequency: med.Frequency,
			Duration:  med.Duration,
		}
	}

	if req.PrescriptionDate == "" {
		return nil, ErrMissingPrescriptionDt
	}
	prescriptionDate, err := time.Parse("2006-01-02", req.PrescriptionDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	// Prescription dates carry no timezone, so a date counts as future
	// only if that civil day has not begun in the most advanced timezone
	// (UTC+14). A doctor ahead of UTC is never rejected on their own
	// local today.
	today := u.now().UTC().Add(14 * time.Hour).Truncate(24 * time.Hour)
	if prescriptionDate.After(today) {
		return nil, ErrFutureDate
	}

	patient, err := u.userRepo.FindByID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil || patient.Role != entity.RolePatient {
		return nil, ErrPatientNotFound
	}

	var photoHash *string
	if photo != nil {
		pinResult, err := u.pinner.PinFile(ctx, photoName, photo, map[string]string{
			"type":              "prescription_photo",
			"doctor_id":         doctorID.String(),
			"patient_id":        patientID.String(),
			"prescription_date": req.PrescriptionDate,
		})
		if err != nil {
			u.log.Warnf("Failed to pin prescription photo: %+v", err)
			return nil, fmt.Errorf("%w: %v", ErrPhotoUploadFailed, err)
		}
		photoHash = &pinResult.IpfsHash
	}

	prescription := &entity.Prescription{
		PatientID:        patientID,
		DoctorID:         doctorID,
		Medications:      medications,
		PhotoHash:        photoHash,
		Status:           entity.PrescriptionStatusPending,
		PrescriptionDate: prescriptionDate,
	}

	if err := u.prescriptionRepo.Create(ctx, prescription); err != nil {
		u.log.Warnf("Failed to create prescription: %+v", err)
		return nil, err
	}

	u.audit.LogCreate(ctx, &doctorID, entity.AuditActionPrescriptionCreate, "prescription", prescription.ID.String(), map[string]interface{}{
		"patient_id":  patientID.String(),
		"medications": len(medications),
	})

	prescription.Patient = *patient
	u.log.Infof("Prescription created: id=%s, doctor=%s, patient=%s", prescription.ID, doctorID, patientID)
	return converter.PrescriptionToResponse(prescription, u.photoURL(prescription)), nil
}

// LookupPending returns every pending prescription, filtered in memory:
// case-insensitive substring match on patient and doctor names and an
// exact calendar-day match on the prescription date.
func (u *prescriptionUsecase) LookupPending(ctx context.Context, filter *entity.PrescriptionFilter) (*dto.PrescriptionListResponse, error) {
	prescriptions, err := u.prescriptionRepo.FindPending(ctx)
	if err != nil {
		u.log.Warnf("Failed to load pending prescriptions: %+v", err)
		return nil, err
	}

	filtered := filterPrescriptions(prescriptions, filter)

	responses := make([]dto.PrescriptionResponse, len(filtered))
	for i := range filtered {
		responses[i] = *converter.PrescriptionToResponse(&filtered[i], u.photoURL(&filtered[i]))
	}

	return &dto.PrescriptionListResponse{
		Prescriptions: responses,
		Total:         len(responses),
	}, nil
}

func (u *prescriptionUsecase) GetMyPrescriptions(ctx context.Context) (*dto.PrescriptionListResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	prescriptions, err := u.prescriptionRepo.FindByPatientID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find prescriptions for patient %s: %+v", patientID, err)
		return nil, err
	}

	return u.toListResponse(prescriptions), nil
}

func (u *prescriptionUsecase) GetDoctorPrescriptions(ctx context.Context) (*dto.PrescriptionListResponse, error) {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	prescriptions, err := u.prescriptionRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find prescriptions for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return u.toListResponse(prescriptions), nil
}

// SearchPatients finds patients by name or email substring for the
// prescription form.
func (u *prescriptionUsecase) SearchPatients(ctx context.Context, term string) (*dto.UserListResponse, error) {
	patients, err := u.userRepo.SearchByRole(ctx, entity.RolePatient, term)
	if err != nil {
		u.log.Warnf("Failed to search patients: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(patients),
		Total: len(patients),
	}, nil
}

func (u *prescriptionUsecase) toListResponse(prescriptions []entity.Prescription) *dto.PrescriptionListResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i := range prescriptions {
		responses[i] = *converter.PrescriptionToResponse(&prescriptions[i], u.photoURL(&prescriptions[i]))
	}
	return &dto.PrescriptionListResponse{
		Prescriptions: responses,
		Total:         len(responses),
	}
}

func (u *prescriptionUsecase) photoURL(p *entity.Prescription) string {
	if p.PhotoHash == nil {
		return ""
	}
	return u.pinner.GatewayURL(*p.PhotoHash)
}

// filterPrescriptions applies the lookup predicates. Name filters are
// case-insensitive substring matches; the date filter compares calendar
// days only.
func filterPrescriptions(prescriptions []entity.Prescription, filter *entity.PrescriptionFilter) []entity.Prescription {
	if filter == nil {
		return prescriptions
	}

	filtered := prescriptions[:0:0]
	for _, p := range prescriptions {
		if filter.PatientName != "" &&
			!strings.Contains(strings.ToLower(p.Patient.FullName), strings.ToLower(filter.PatientName)) {
			continue
		}
		if filter.DoctorName != "" &&
			!strings.Contains(strings.ToLower(p.Doctor.FullName), strings.ToLower(filter.DoctorName)) {
			continue
		}
		if filter.Date != "" {
			searchDate, err := time.Parse("2006-01-02", filter.Date)
			if err != nil {
				continue
			}
			y1, m1, d1 := p.PrescriptionDate.Date()
			y2, m2, d2 := searchDate.Date()
			if y1 != y2 || m1 != m2 || d1 != d2 {
				continue
			}
		}
		filtered = append(filtered, p)
	}
	return filtered
}
