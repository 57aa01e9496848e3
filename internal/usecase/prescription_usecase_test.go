package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"healthvault/internal/delivery/dto"
	"healthvault/internal/delivery/http/middleware"
	"healthvault/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type prescriptionTestEnv struct {
	usecase          PrescriptionUsecase
	prescriptionRepo *fakePrescriptionRepo
	userRepo         *fakeUserRepo
	pinner           *fakePinner
	audit            *fakeAuditService
	doctor           *entity.User
	patient          *entity.User
	ctx              context.Context
}

func newPrescriptionTestEnv(t *testing.T) *prescriptionTestEnv {
	t.Helper()
	prescriptionRepo := newFakePrescriptionRepo()
	userRepo := newFakeUserRepo()
	pinner := &fakePinner{}
	audit := &fakeAuditService{}

	doctor := userRepo.add(&entity.User{Role: entity.RoleDoctor, FullName: "Dr. Chen", Email: "chen@clinic.test"})
	patient := userRepo.add(&entity.User{Role: entity.RolePatient, FullName: "Sam Carter", Email: "sam@mail.test"})

	u := NewPrescriptionUsecase(quietLogger(), prescriptionRepo, userRepo, pinner, audit)
	u.(*prescriptionUsecase).now = func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	}

	return &prescriptionTestEnv{
		usecase:          u,
		prescriptionRepo: prescriptionRepo,
		userRepo:         userRepo,
		pinner:           pinner,
		audit:            audit,
		doctor:           doctor,
		patient:          patient,
		ctx:              middleware.WithIdentity(context.Background(), doctor.ID, entity.RoleDoctor),
	}
}

func (env *prescriptionTestEnv) validRequest() *dto.CreatePrescriptionRequest {
	return &dto.CreatePrescriptionRequest{
		PatientID: env.patient.ID.String(),
		Medications: []dto.MedicationRequest{
			{Name: "Metformin", Dosage: "850mg", Frequency: "2x daily", Duration: "30 days"},
		},
		PrescriptionDate: "2026-08-30",
	}
}

func TestCreatePrescription(t *testing.T) {
	env := newPrescriptionTestEnv(t)

	prescription, err := env.usecase.Create(env.ctx, env.validRequest(), "", nil)
	require.NoError(t, err)
	require.Equal(t, string(entity.PrescriptionStatusPending), prescription.Status)
	require.Equal(t, env.patient.ID, prescription.PatientID)
	require.Equal(t, env.doctor.ID, prescription.DoctorID)
	require.Len(t, prescription.Medications, 1)
	require.True(t, env.audit.has(entity.AuditActionPrescriptionCreate))
}

func TestCreatePrescriptionRequiresMedications(t *testing.T) {
	env := newPrescriptionTestEnv(t)

	req := env.validRequest()
	req.Medications = nil
	_, err := env.usecase.Create(env.ctx, req, "", nil)
	require.ErrorIs(t, err, ErrNoMedications)

	req = env.validRequest()
	req.Medications = []dto.MedicationRequest{{Name: "  ", Dosage: "500mg"}}
	_, err = env.usecase.Create(env.ctx, req, "", nil)
	require.ErrorIs(t, err, ErrIncompleteMedication)

	req = env.validRequest()
	req.Medications = []dto.MedicationRequest{{Name: "Metformin", Dosage: ""}}
	_, err = env.usecase.Create(env.ctx, req, "", nil)
	require.ErrorIs(t, err, ErrIncompleteMedication)
}

func TestCreatePrescriptionDateRules(t *testing.T) {
	env := newPrescriptionTestEnv(t)

	req := env.validRequest()
	req.PrescriptionDate = ""
	_, err := env.usecase.Create(env.ctx, req, "", nil)
	require.ErrorIs(t, err, ErrMissingPrescriptionDt)

	req = env.validRequest()
	req.PrescriptionDate = "31-08-2026"
	_, err = env.usecase.Create(env.ctx, req, "", nil)
	require.ErrorIs(t, err, ErrInvalidDateFormat)

	// A day that has not begun anywhere yet is future
	req = env.validRequest()
	req.PrescriptionDate = "2026-09-02"
	_, err = env.usecase.Create(env.ctx, req, "", nil)
	require.ErrorIs(t, err, ErrFutureDate)

	// Today UTC is allowed
	req = env.validRequest()
	req.PrescriptionDate = "2026-08-31"
	_, err = env.usecase.Create(env.ctx, req, "", nil)
	require.NoError(t, err)

	// At 12:00 UTC it is already Sep 1 in UTC+14, so a doctor there may
	// date a prescription for their local today
	req = env.validRequest()
	req.PrescriptionDate = "2026-09-01"
	_, err = env.usecase.Create(env.ctx, req, "", nil)
	require.NoError(t, err)
}

func TestCreatePrescriptionRejectsNonPatients(t *testing.T) {
	env := newPrescriptionTestEnv(t)

	req := env.validRequest()
	req.PatientID = uuid.New().String()
	_, err := env.usecase.Create(env.ctx, req, "", nil)
	require.ErrorIs(t, err, ErrPatientNotFound)

	// A doctor's id is not a valid prescription target
	req = env.validRequest()
	req.PatientID = env.doctor.ID.String()
	_, err = env.usecase.Create(env.ctx, req, "", nil)
	require.ErrorIs(t, err, ErrPatientNotFound)
}

func TestCreatePrescriptionPinsPhotoBeforeInsert(t *testing.T) {
	env := newPrescriptionTestEnv(t)
	env.pinner.hash = "bafyphotohash"

	prescription, err := env.usecase.Create(env.ctx, env.validRequest(), "rx.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	require.Equal(t, "bafyphotohash", prescription.PhotoHash)
	require.Equal(t, "https://gateway.test/ipfs/bafyphotohash", prescription.PhotoURL)
	require.Equal(t, 1, env.pinner.calls)
}

func TestCreatePrescriptionAbortsWhenPinFails(t *testing.T) {
	env := newPrescriptionTestEnv(t)
	env.pinner.err = errors.New("pinning service unavailable")

	_, err := env.usecase.Create(env.ctx, env.validRequest(), "rx.jpg", strings.NewReader("jpeg-bytes"))
	require.ErrorIs(t, err, ErrPhotoUploadFailed)

	// Nothing was written
	pending, repoErr := env.prescriptionRepo.FindPending(context.Background())
	require.NoError(t, repoErr)
	require.Empty(t, pending)
}

func TestLookupPendingFilters(t *testing.T) {
	env := newPrescriptionTestEnv(t)

	add := func(patientName, doctorName, date string) {
		day, err := time.Parse("2006-01-02", date)
		require.NoError(t, err)
		env.prescriptionRepo.add(&entity.Prescription{
			Status:           entity.PrescriptionStatusPending,
			Medications:      entity.Medications{{Name: "Aspirin", Dosage: "100mg"}},
			PrescriptionDate: day,
			Patient:          entity.User{FullName: patientName},
			Doctor:           entity.User{FullName: doctorName},
		})
	}
	add("Alice Johnson", "Dr. Chen", "2026-08-01")
	add("Bob Johnson", "Dr. Patel", "2026-08-01")
	add("Carol Smith", "Dr. Chen", "2026-08-15")

	// Claimed prescriptions never show up
	env.prescriptionRepo.add(&entity.Prescription{
		Status:      entity.PrescriptionStatusClaimed,
		Medications: entity.Medications{{Name: "Aspirin", Dosage: "100mg"}},
		Patient:     entity.User{FullName: "Alice Johnson"},
	})

	cases := []struct {
		name   string
		filter *entity.PrescriptionFilter
		want   int
	}{
		{"no filter", nil, 3},
		{"patient substring, case-insensitive", &entity.PrescriptionFilter{PatientName: "johnson"}, 2},
		{"doctor substring", &entity.PrescriptionFilter{DoctorName: "chen"}, 2},
		{"exact day", &entity.PrescriptionFilter{Date: "2026-08-01"}, 2},
		{"combined", &entity.PrescriptionFilter{PatientName: "alice", DoctorName: "chen", Date: "2026-08-01"}, 1},
		{"no match", &entity.PrescriptionFilter{PatientName: "zelda"}, 0},
		{"unparseable date matches nothing", &entity.PrescriptionFilter{Date: "soon"}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := env.usecase.LookupPending(env.ctx, tc.filter)
			require.NoError(t, err)
			require.Equal(t, tc.want, result.Total)
		})
	}
}

func TestSearchPatients(t *testing.T) {
	env := newPrescriptionTestEnv(t)

	result, err := env.usecase.SearchPatients(env.ctx, "sam")
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	require.Equal(t, "Sam Carter", result.Users[0].FullName)

	// Doctors never appear in patient search
	result, err = env.usecase.SearchPatients(env.ctx, "chen")
	require.NoError(t, err)
	require.Equal(t, 0, result.Total)
}
