package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"healthvault/internal/domain/entity"
	"healthvault/internal/infrastructure/pinning"

	"github.com/google/uuid"
)

// In-memory doubles for the repository and service interfaces. They keep
// the usecase tests free of database and Redis dependencies.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return errors.New("duplicate email")
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) FindByRole(ctx context.Context, role entity.UserRole) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.User
	for _, user := range r.users {
		if user.Role == role {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) SearchByRole(ctx context.Context, role entity.UserRole, term string) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.User
	for _, user := range r.users {
		if user.Role != role {
			continue
		}
		if term == "" ||
			strings.Contains(strings.ToLower(user.FullName), strings.ToLower(term)) ||
			strings.Contains(strings.ToLower(user.Email), strings.ToLower(term)) {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) add(user *entity.User) *entity.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.users[user.ID] = &clone
	return user
}

type fakePrescriptionRepo struct {
	mu            sync.Mutex
	prescriptions map[uuid.UUID]*entity.Prescription
	dispenseCalls int
}

func newFakePrescriptionRepo() *fakePrescriptionRepo {
	return &fakePrescriptionRepo{prescriptions: make(map[uuid.UUID]*entity.Prescription)}
}

func (r *fakePrescriptionRepo) Create(ctx context.Context, prescription *entity.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prescription.ID == uuid.Nil {
		prescription.ID = uuid.New()
	}
	clone := *prescription
	r.prescriptions[prescription.ID] = &clone
	return nil
}

func (r *fakePrescriptionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Prescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prescriptions[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakePrescriptionRepo) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Prescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Prescription
	for _, p := range r.prescriptions {
		if p.PatientID == patientID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *fakePrescriptionRepo) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Prescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Prescription
	for _, p := range r.prescriptions {
		if p.DoctorID == doctorID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *fakePrescriptionRepo) FindPending(ctx context.Context) ([]entity.Prescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Prescription
	for _, p := range r.prescriptions {
		if p.Status == entity.PrescriptionStatusPending {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *fakePrescriptionRepo) Claim(ctx context.Context, id, pharmacyID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prescriptions[id]
	if !ok || p.Status != entity.PrescriptionStatusPending {
		return 0, nil
	}
	p.Status = entity.PrescriptionStatusClaimed
	claimedBy := pharmacyID
	p.ClaimedBy = &claimedBy
	return 1, nil
}

func (r *fakePrescriptionRepo) Release(ctx context.Context, id, pharmacyID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prescriptions[id]
	if !ok || p.Status != entity.PrescriptionStatusClaimed || p.ClaimedBy == nil || *p.ClaimedBy != pharmacyID {
		return 0, nil
	}
	p.Status = entity.PrescriptionStatusPending
	p.ClaimedBy = nil
	return 1, nil
}

func (r *fakePrescriptionRepo) MarkDispensed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispenseCalls++
	p, ok := r.prescriptions[id]
	if !ok {
		return nil
	}
	p.Status = entity.PrescriptionStatusDispensed
	return nil
}

func (r *fakePrescriptionRepo) add(p *entity.Prescription) *entity.Prescription {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.prescriptions[p.ID] = &clone
	return p
}

func (r *fakePrescriptionRepo) statusOf(id uuid.UUID) entity.PrescriptionStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prescriptions[id].Status
}

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*entity.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, appointment *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	clone := *appointment
	r.appointments[appointment.ID] = &clone
	return nil
}

func (r *fakeAppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (r *fakeAppointmentRepo) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Appointment
	for _, a := range r.appointments {
		if a.PatientID == patientID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *fakeAppointmentRepo) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Appointment
	for _, a := range r.appointments {
		if a.DoctorID == doctorID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return 0, nil
	}
	a.Status = status
	return 1, nil
}

type fakeQueueStore struct {
	mu     sync.Mutex
	queues map[uuid.UUID][]entity.QueueEntry
	// loadErr/storeErr fail the next call only, then clear; used to
	// simulate a flaky Redis.
	loadErr  error
	storeErr error
}

func newFakeQueueStore() *fakeQueueStore {
	return &fakeQueueStore{queues: make(map[uuid.UUID][]entity.QueueEntry)}
}

func (s *fakeQueueStore) Load(ctx context.Context, pharmacyID uuid.UUID) ([]entity.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		err := s.loadErr
		s.loadErr = nil
		return nil, err
	}
	return append([]entity.QueueEntry(nil), s.queues[pharmacyID]...), nil
}

func (s *fakeQueueStore) Store(ctx context.Context, pharmacyID uuid.UUID, entries []entity.QueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storeErr != nil {
		err := s.storeErr
		s.storeErr = nil
		return err
	}
	s.queues[pharmacyID] = append([]entity.QueueEntry(nil), entries...)
	return nil
}

type fakeAuditService struct {
	mu      sync.Mutex
	actions []string
}

func (a *fakeAuditService) LogCreate(ctx context.Context, userID *uuid.UUID, action, entityName, entityID string, newValue interface{}) {
	a.record(action)
}

func (a *fakeAuditService) LogUpdate(ctx context.Context, userID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) {
	a.record(action)
}

func (a *fakeAuditService) LogDelete(ctx context.Context, userID *uuid.UUID, action, entityName, entityID string, oldValue interface{}) {
	a.record(action)
}

func (a *fakeAuditService) record(action string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
}

func (a *fakeAuditService) has(action string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, recorded := range a.actions {
		if recorded == action {
			return true
		}
	}
	return false
}

type fakePinner struct {
	mu    sync.Mutex
	hash  string
	err   error
	calls int
}

func (p *fakePinner) PinFile(ctx context.Context, filename string, content io.Reader, metadata map[string]string) (*pinning.PinResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	hash := p.hash
	if hash == "" {
		hash = "bafybeigtesthash"
	}
	return &pinning.PinResult{IpfsHash: hash, URL: "https://gateway.test/ipfs/" + hash}, nil
}

func (p *fakePinner) GatewayURL(hash string) string {
	return "https://gateway.test/ipfs/" + hash
}
