package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"healthvault/internal/delivery/dto"
	"healthvault/internal/service"
	"healthvault/internal/usecase"
	"healthvault/pkg/response"
	"healthvault/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type PharmacyQueueHandler struct {
	queueUsecase usecase.PharmacyQueueUsecase
	validator    *validator.CustomValidator
}

func NewPharmacyQueueHandler(queueUsecase usecase.PharmacyQueueUsecase, validator *validator.CustomValidator) *PharmacyQueueHandler {
	return &PharmacyQueueHandler{
		queueUsecase: queueUsecase,
		validator:    validator,
	}
}

func (h *PharmacyQueueHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := h.queueUsecase.GetQueue(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get queue")
		return
	}

	response.Success(w, http.StatusOK, "Queue retrieved successfully", queue)
}

// ClaimPrescription takes a pending prescription into this pharmacy's
// queue. Exactly one pharmacy can win a claim; losers get 409.
func (h *PharmacyQueueHandler) ClaimPrescription(w http.ResponseWriter, r *http.Request) {
	var req dto.ClaimPrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.queueUsecase.Claim(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPrescriptionNotFound):
			response.NotFound(w, "Prescription not found")
		case errors.Is(err, usecase.ErrAlreadyClaimed):
			response.Conflict(w, "Prescription has already been claimed")
		case errors.Is(err, usecase.ErrPublicKeyMismatch):
			response.UnprocessableEntity(w, "Public key does not match the patient's key")
		default:
			response.InternalServerError(w, "Failed to claim prescription")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Prescription claimed successfully", entry)
}

func (h *PharmacyQueueHandler) UpdateQueueStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	prescriptionID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid prescription ID", nil)
		return
	}

	var req dto.UpdateQueueStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.queueUsecase.AdvanceStatus(r.Context(), prescriptionID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQueueEntryNotFound):
			response.NotFound(w, "Prescription not found in queue")
		case errors.Is(err, usecase.ErrInvalidQueueStatus):
			response.Error(w, http.StatusBadRequest, "Invalid queue status", nil)
		case errors.Is(err, usecase.ErrInvalidTransition):
			response.UnprocessableEntity(w, "Queue status transition not allowed")
		default:
			response.InternalServerError(w, "Failed to update queue status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Queue status updated successfully", entry)
}

func (h *PharmacyQueueHandler) SetMedicationPrice(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	prescriptionID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid prescription ID", nil)
		return
	}

	var req dto.SetMedicationPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.queueUsecase.SetMedicationPrice(r.Context(), prescriptionID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQueueEntryNotFound):
			response.NotFound(w, "Prescription not found in queue")
		case errors.Is(err, usecase.ErrMedicationIndex):
			response.UnprocessableEntity(w, "Medication index out of range")
		default:
			response.InternalServerError(w, "Failed to set medication price")
		}
		return
	}

	response.Success(w, http.StatusOK, "Medication price updated successfully", entry)
}

func (h *PharmacyQueueHandler) RemoveFromQueue(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	prescriptionID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid prescription ID", nil)
		return
	}

	if err := h.queueUsecase.Remove(r.Context(), prescriptionID); err != nil {
		switch {
		case errors.Is(err, service.ErrQueueEntryNotFound):
			response.NotFound(w, "Prescription not found in queue")
		default:
			response.InternalServerError(w, "Failed to remove prescription from queue")
		}
		return
	}

	response.Success(w, http.StatusOK, "Prescription removed from queue", nil)
}
