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
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrAlreadyClaimed     = errors.New("prescription has already been claimed")
	ErrInvalidQueueStatus = errors.New("invalid queue status")
	ErrInvalidTransition  = errors.New("queue status transition not allowed")
	ErrPublicKeyMismatch  = errors.New("public key does not match the patient's key")
	ErrMedicationIndex    = errors.New("medication index out of range")
)

type PharmacyQueueUsecase interface {
	GetQueue(ctx context.Context) (*dto.QueueListResponse, error)
	Claim(ctx context.Context, req *dto.ClaimPrescriptionRequest) (*dto.QueueEntryResponse, error)
	AdvanceStatus(ctx context.Context, prescriptionID uuid.UUID, req *dto.UpdateQueueStatusRequest) (*dto.QueueEntryResponse, error)
	SetMedicationPrice(ctx context.Context, prescriptionID uuid.UUID, req *dto.SetMedicationPriceRequest) (*dto.QueueEntryResponse, error)
	Remove(ctx context.Context, prescriptionID uuid.UUID) error
}

type pharmacyQueueUsecase struct {
	log              *logrus.Logger
	prescriptionRepo repository.PrescriptionRepository
	queueStore       service.QueueStore
	audit            service.AuditService
	now              func() time.Time
}

func NewPharmacyQueueUsecase(
	log *logrus.Logger,
	prescriptionRepo repository.PrescriptionRepository,
	queueStore service.QueueStore,
	audit service.AuditService,
) PharmacyQueueUsecase {
	return &pharmacyQueueUsecase{
		log:              log,
		prescriptionRepo: prescriptionRepo,
		queueStore:       queueStore,
		audit:            audit,
		now:              time.Now,
	}
}

// GetQueue returns the logged-in pharmacy's private queue.
func (u *pharmacyQueueUsecase) GetQueue(ctx context.Context) (*dto.QueueListResponse, error) {
	pharmacyID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	entries, err := u.queueStore.Load(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}

	return &dto.QueueListResponse{
		Entries: converter.QueueEntriesToResponses(entries),
		Total:   len(entries),
	}, nil
}

// Claim takes ownership of a pending prescription for the logged-in
// pharmacy. The claim is a conditional update keyed on the pending
// status, so when two pharmacies race for the same prescription exactly
// one wins; the loser gets ErrAlreadyClaimed. On success the
// prescription enters the pharmacy's queue as In Process with zero
// prices.
//
// When the request carries a public key it must match the patient's key
// before the claim is attempted. If the queue write fails after the
// claim landed, the claim is released so the prescription returns to
// the pending pool instead of sitting claimed in nobody's queue.
func (u *pharmacyQueueUsecase) Claim(ctx context.Context, req *dto.ClaimPrescriptionRequest) (*dto.QueueEntryResponse, error) {
	pharmacyID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	prescriptionID, err := uuid.Parse(req.PrescriptionID)
	if err != nil {
		return nil, ErrPrescriptionNotFound
	}

	prescription, err := u.prescriptionRepo.FindByID(ctx, prescriptionID)
	if err != nil {
		u.log.Warnf("Failed to find prescription %s: %+v", prescriptionID, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}
	if !prescription.IsPending() {
		return nil, ErrAlreadyClaimed
	}

	if req.PublicKey != "" && req.PublicKey != prescription.Patient.PublicKey {
		return nil, ErrPublicKeyMismatch
	}

	affected, err := u.prescriptionRepo.Claim(ctx, prescriptionID, pharmacyID)
	if err != nil {
		u.log.Warnf("Failed to claim prescription %s: %+v", prescriptionID, err)
		return nil, err
	}
	if affected == 0 {
		// Someone else won the race between our read and the update
		return nil, ErrAlreadyClaimed
	}

	entry := entity.NewQueueEntry(prescription, pharmacyID,
		prescription.Patient.FullName, prescription.Doctor.FullName, u.now().UTC())

	entries, err := u.queueStore.Load(ctx, pharmacyID)
	if err != nil {
		u.releaseClaim(ctx, prescriptionID, pharmacyID)
		return nil, err
	}
	entries = append(entries, entry)
	if err := u.queueStore.Store(ctx, pharmacyID, entries); err != nil {
		u.releaseClaim(ctx, prescriptionID, pharmacyID)
		return nil, err
	}

	u.audit.LogCreate(ctx, &pharmacyID, entity.AuditActionPrescriptionClaim, "prescription", prescriptionID.String(), map[string]interface{}{
		"patient_id": prescription.PatientID.String(),
	})

	u.log.Infof("Prescription claimed: id=%s, pharmacy=%s", prescriptionID, pharmacyID)
	return converter.QueueEntryToResponse(&entry), nil
}

// AdvanceStatus moves a queue entry between fulfillment stages. The
// transition table allows forward moves plus un-staging a ready parcel;
// Completed is terminal. Reaching Completed stamps the completion time
// and marks the prescription dispensed server-side.
func (u *pharmacyQueueUsecase) AdvanceStatus(ctx context.Context, prescriptionID uuid.UUID, req *dto.UpdateQueueStatusRequest) (*dto.QueueEntryResponse, error) {
	pharmacyID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	next := entity.QueueStatus(req.Status)
	if !next.Valid() {
		return nil, ErrInvalidQueueStatus
	}

	entries, err := u.queueStore.Load(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}

	idx := findEntry(entries, prescriptionID)
	if idx < 0 {
		return nil, service.ErrQueueEntryNotFound
	}

	entry := &entries[idx]
	if !entry.QueueStatus.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	oldStatus := entry.QueueStatus
	entry.QueueStatus = next

	if next == entity.QueueStatusCompleted {
		completedAt := u.now().UTC()
		entry.CompletedAt = &completedAt

		// Report the terminal stage to the record store. MarkDispensed is
		// idempotent, so a retried completion is harmless.
		if err := u.prescriptionRepo.MarkDispensed(ctx, prescriptionID); err != nil {
			u.log.Warnf("Failed to mark prescription %s dispensed: %+v", prescriptionID, err)
			return nil, err
		}

		u.audit.LogUpdate(ctx, &pharmacyID, entity.AuditActionPrescriptionDispens, "prescription", prescriptionID.String(),
			string(entity.PrescriptionStatusClaimed), string(entity.PrescriptionStatusDispensed))
	}

	if err := u.queueStore.Store(ctx, pharmacyID, entries); err != nil {
		return nil, err
	}

	u.log.Infof("Queue entry status updated: prescription=%s, pharmacy=%s, %s -> %s",
		prescriptionID, pharmacyID, oldStatus, next)
	return converter.QueueEntryToResponse(entry), nil
}

// SetMedicationPrice assigns a price to one prescription line and
// recomputes the total. Malformed or negative input coerces to zero
// rather than failing; pricing is advisory, never a gate.
func (u *pharmacyQueueUsecase) SetMedicationPrice(ctx context.Context, prescriptionID uuid.UUID, req *dto.SetMedicationPriceRequest) (*dto.QueueEntryResponse, error) {
	pharmacyID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	entries, err := u.queueStore.Load(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}

	idx := findEntry(entries, prescriptionID)
	if idx < 0 {
		return nil, service.ErrQueueEntryNotFound
	}

	entry := &entries[idx]
	if req.MedicationIndex < 0 || req.MedicationIndex >= len(entry.MedicationPrices) {
		return nil, ErrMedicationIndex
	}

	entry.MedicationPrices[req.MedicationIndex].Price = coercePrice(req.Price)
	entry.RecalculateTotal()

	if err := u.queueStore.Store(ctx, pharmacyID, entries); err != nil {
		return nil, err
	}

	return converter.QueueEntryToResponse(entry), nil
}

// Remove drops a prescription from the pharmacy's local queue. The
// server-side prescription status is untouched: a dispensed
// prescription stays dispensed, and removing an entry never releases
// the claim.
func (u *pharmacyQueueUsecase) Remove(ctx context.Context, prescriptionID uuid.UUID) error {
	pharmacyID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrNoIdentity
	}

	entries, err := u.queueStore.Load(ctx, pharmacyID)
	if err != nil {
		return err
	}

	idx := findEntry(entries, prescriptionID)
	if idx < 0 {
		return service.ErrQueueEntryNotFound
	}

	entries = append(entries[:idx], entries[idx+1:]...)
	if err := u.queueStore.Store(ctx, pharmacyID, entries); err != nil {
		return err
	}

	u.audit.LogDelete(ctx, &pharmacyID, entity.AuditActionQueueRemove, "queue_entry", prescriptionID.String(), nil)

	u.log.Infof("Queue entry removed: prescription=%s, pharmacy=%s", prescriptionID, pharmacyID)
	return nil
}

// releaseClaim undoes a server-side claim whose queue write failed. A
// failed release is only logged: the prescription stays claimed until an
// operator intervenes, which beats double-claiming it.
func (u *pharmacyQueueUsecase) releaseClaim(ctx context.Context, prescriptionID, pharmacyID uuid.UUID) {
	if _, err := u.prescriptionRepo.Release(ctx, prescriptionID, pharmacyID); err != nil {
		u.log.Warnf("Failed to release claim on prescription %s: %+v", prescriptionID, err)
	}
}

func findEntry(entries []entity.QueueEntry, prescriptionID uuid.UUID) int {
	for i := range entries {
		if entries[i].PrescriptionID == prescriptionID {
			return i
		}
	}
	return -1
}

// coercePrice parses the price input, mapping anything unparseable or
// negative to zero.
func coercePrice(input string) decimal.Decimal {
	price, err := decimal.NewFromString(input)
	if err != nil || price.IsNegative() {
		return decimal.Zero
	}
	return price
}
