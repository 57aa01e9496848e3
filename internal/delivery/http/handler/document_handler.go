package handler

import (
	"net/http"

	"healthvault/internal/delivery/dto"
	"healthvault/internal/usecase"
	"healthvault/pkg/response"
	"healthvault/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Uploads larger than this are rejected before reading the body.
const maxUploadSize = 25 << 20 // 25 MiB

type DocumentHandler struct {
	documentUsecase usecase.DocumentUsecase
	validator       *validator.CustomValidator
}

func NewDocumentHandler(documentUsecase usecase.DocumentUsecase, validator *validator.CustomValidator) *DocumentHandler {
	return &DocumentHandler{
		documentUsecase: documentUsecase,
		validator:       validator,
	}
}

// UploadDocument accepts a multipart form: the file under "file" plus
// name, type, and optional test_date fields.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "File is required", nil)
		return
	}
	defer file.Close()

	req := dto.UploadDocumentRequest{
		Name:     r.FormValue("name"),
		Type:     r.FormValue("type"),
		TestDate: r.FormValue("test_date"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	document, err := h.documentUsecase.Upload(r.Context(), &req, header.Filename, file)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid test date format", nil)
		default:
			response.Error(w, http.StatusBadGateway, "Failed to upload document", nil)
		}
		return
	}

	response.Success(w, http.StatusCreated, "Document uploaded successfully", document)
}

func (h *DocumentHandler) GetMyDocuments(w http.ResponseWriter, r *http.Request) {
	documents, err := h.documentUsecase.GetMyDocuments(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get documents")
		return
	}

	response.Success(w, http.StatusOK, "Documents retrieved successfully", documents)
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	documentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid document ID", nil)
		return
	}

	if err := h.documentUsecase.Delete(r.Context(), documentID); err != nil {
		switch err {
		case usecase.ErrDocumentNotFound:
			response.NotFound(w, "Document not found")
		default:
			response.InternalServerError(w, "Failed to delete document")
		}
		return
	}

	response.Success(w, http.StatusOK, "Document deleted successfully", nil)
}
