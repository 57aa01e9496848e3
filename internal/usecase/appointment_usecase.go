package usecase

import (
	"context"
	"errors"
	"time"

	"healthvault/internal/converter"
	"healthvault/internal/delivery/dto"
	"healthvault/internal/delivery/http/middleware"
	"healthvault/internal/domain/entity"
	"healthvault/internal/domain/repository"
	"healthvault/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAppointmentNotOwned = errors.New("appointment does not belong to you")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrInvalidDateFormat   = errors.New("invalid date format")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrNoIdentity          = errors.New("user not found in context")
)

type AppointmentUsecase interface {
	Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetDoctorAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	UpdateStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	ListDoctors(ctx context.Context) (*dto.UserListResponse, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	audit           service.AuditService
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	audit service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		audit:           audit,
	}
}

// Create books a new appointment for the logged-in patient.
func (u *appointmentUsecase) Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		// Accept a bare calendar date as well
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
	}

	doctor, err := u.userRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil || doctor.Role != entity.RoleDoctor {
		return nil, ErrDoctorNotFound
	}

	appointment := &entity.Appointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Status:    entity.AppointmentStatusPending,
	}

	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	u.audit.LogCreate(ctx, &patientID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), map[string]interface{}{
		"doctor_id": doctorID.String(),
		"date":      date,
	})

	appointment.Doctor = *doctor
	u.log.Infof("Appointment created: id=%s, patient=%s, doctor=%s", appointment.ID, patientID, doctorID)
	return converter.AppointmentToResponse(appointment), nil
}

// GetMyAppointments returns all appointments for the logged-in patient,
// joined with the doctor's name.
func (u *appointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	appointments, err := u.appointmentRepo.FindByPatientID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// GetDoctorAppointments returns all appointments addressed to the
// logged-in doctor, joined with the patient's name.
func (u *appointmentUsecase) GetDoctorAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	appointments, err := u.appointmentRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// UpdateStatus moves an appointment to any of the four statuses. There
// is deliberately no ordering between statuses: a doctor may reset a
// rejected appointment back to pending.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	status := entity.AppointmentStatus(req.Status)
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrAppointmentNotOwned
	}

	oldStatus := appointment.Status

	affected, err := u.appointmentRepo.UpdateStatus(ctx, appointmentID, status)
	if err != nil {
		u.log.Warnf("Failed to update appointment %s status: %+v", appointmentID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAppointmentNotFound
	}

	u.audit.LogUpdate(ctx, &doctorID, entity.AuditActionAppointmentStatus, "appointment", appointmentID.String(),
		string(oldStatus), string(status))

	appointment.Status = status
	u.log.Infof("Appointment status updated: id=%s, %s -> %s", appointmentID, oldStatus, status)
	return converter.AppointmentToResponse(appointment), nil
}

// ListDoctors returns all registered doctors for the booking form.
func (u *appointmentUsecase) ListDoctors(ctx context.Context) (*dto.UserListResponse, error) {
	doctors, err := u.userRepo.FindByRole(ctx, entity.RoleDoctor)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(doctors),
		Total: len(doctors),
	}, nil
}
