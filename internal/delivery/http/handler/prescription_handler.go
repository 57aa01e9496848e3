package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"healthvault/internal/delivery/dto"
	"healthvault/internal/domain/entity"
	"healthvault/internal/usecase"
	"healthvault/pkg/response"
	"healthvault/pkg/validator"
)

type PrescriptionHandler struct {
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
}

func NewPrescriptionHandler(prescriptionUsecase usecase.PrescriptionUsecase, validator *validator.CustomValidator) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
	}
}

// CreatePrescription accepts either a JSON body or a multipart form.
// The multipart variant carries the prescription JSON under "data" and
// an optional photo of the handwritten prescription under "photo".
func (h *PrescriptionHandler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	var (
		req       dto.CreatePrescriptionRequest
		photo     io.Reader
		photoName string
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid multipart form", nil)
			return
		}

		if err := json.Unmarshal([]byte(r.FormValue("data")), &req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid prescription data", nil)
			return
		}

		file, header, err := r.FormFile("photo")
		if err == nil {
			defer file.Close()
			photo = file
			photoName = header.Filename
		} else if !errors.Is(err, http.ErrMissingFile) {
			response.Error(w, http.StatusBadRequest, "Invalid photo upload", nil)
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	prescription, err := h.prescriptionUsecase.Create(r.Context(), &req, photoName, photo)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		case errors.Is(err, usecase.ErrNoMedications),
			errors.Is(err, usecase.ErrIncompleteMedication),
			errors.Is(err, usecase.ErrMissingPrescriptionDt),
			errors.Is(err, usecase.ErrFutureDate):
			response.UnprocessableEntity(w, err.Error())
		case errors.Is(err, usecase.ErrInvalidDateFormat):
			response.Error(w, http.StatusBadRequest, "Invalid prescription date format", nil)
		case errors.Is(err, usecase.ErrPhotoUploadFailed):
			response.Error(w, http.StatusBadGateway, "Failed to upload prescription photo", nil)
		default:
			response.InternalServerError(w, "Failed to create prescription")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Prescription created successfully", prescription)
}

// LookupPending lets a pharmacy search the pending prescription pool.
// Filters arrive as query parameters: patient_name, doctor_name, date.
func (h *PrescriptionHandler) LookupPending(w http.ResponseWriter, r *http.Request) {
	filter := &entity.PrescriptionFilter{
		PatientName: r.URL.Query().Get("patient_name"),
		DoctorName:  r.URL.Query().Get("doctor_name"),
		Date:        r.URL.Query().Get("date"),
	}

	prescriptions, err := h.prescriptionUsecase.LookupPending(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to look up prescriptions")
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

func (h *PrescriptionHandler) GetMyPrescriptions(w http.ResponseWriter, r *http.Request) {
	prescriptions, err := h.prescriptionUsecase.GetMyPrescriptions(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get prescriptions")
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

func (h *PrescriptionHandler) GetDoctorPrescriptions(w http.ResponseWriter, r *http.Request) {
	prescriptions, err := h.prescriptionUsecase.GetDoctorPrescriptions(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get prescriptions")
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

// SearchPatients backs the patient picker on the prescription form.
func (h *PrescriptionHandler) SearchPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.prescriptionUsecase.SearchPatients(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		response.InternalServerError(w, "Failed to search patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}
