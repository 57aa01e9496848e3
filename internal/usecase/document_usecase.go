package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
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
	ErrDocumentNotFound = errors.New("document not found")
	ErrUploadFailed     = errors.New("failed to upload file to pinning service")
)

type DocumentUsecase interface {
	Upload(ctx context.Context, req *dto.UploadDocumentRequest, filename string, content io.Reader) (*dto.DocumentResponse, error)
	GetMyDocuments(ctx context.Context) (*dto.DocumentListResponse, error)
	Delete(ctx context.Context, documentID uuid.UUID) error
}

type documentUsecase struct {
	log          *logrus.Logger
	documentRepo repository.DocumentRepository
	pinner       pinning.Pinner
	audit        service.AuditService
}

func NewDocumentUsecase(
	log *logrus.Logger,
	documentRepo repository.DocumentRepository,
	pinner pinning.Pinner,
	audit service.AuditService,
) DocumentUsecase {
	return &documentUsecase{
		log:          log,
		documentRepo: documentRepo,
		pinner:       pinner,
		audit:        audit,
	}
}

// Upload pins the file first and only then writes the record. A pin
// failure aborts the whole upload so a document row never references a
// hash that was not stored.
func (u *documentUsecase) Upload(ctx context.Context, req *dto.UploadDocumentRequest, filename string, content io.Reader) (*dto.DocumentResponse, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	var testDate *time.Time
	if req.TestDate != "" {
		parsed, err := time.Parse("2006-01-02", req.TestDate)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		testDate = &parsed
	}

	pinResult, err := u.pinner.PinFile(ctx, filename, content, map[string]string{
		"type":     "patient_document",
		"owner_id": ownerID.String(),
	})
	if err != nil {
		u.log.Warnf("Failed to pin document for user %s: %+v", ownerID, err)
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	document := &entity.Document{
		OwnerID:    ownerID,
		Name:       req.Name,
		Type:       req.Type,
		IpfsHash:   pinResult.IpfsHash,
		TestDate:   testDate,
		UploadDate: time.Now().UTC(),
	}

	if err := u.documentRepo.Create(ctx, document); err != nil {
		u.log.Warnf("Failed to create document record: %+v", err)
		return nil, err
	}

	u.audit.LogCreate(ctx, &ownerID, entity.AuditActionDocumentUpload, "document", document.ID.String(), map[string]interface{}{
		"name":      document.Name,
		"ipfs_hash": document.IpfsHash,
	})

	u.log.Infof("Document uploaded: id=%s, owner=%s, hash=%s", document.ID, ownerID, document.IpfsHash)
	return converter.DocumentToResponse(document, u.pinner.GatewayURL(document.IpfsHash)), nil
}

func (u *documentUsecase) GetMyDocuments(ctx context.Context) (*dto.DocumentListResponse, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}

	documents, err := u.documentRepo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		u.log.Warnf("Failed to find documents for user %s: %+v", ownerID, err)
		return nil, err
	}

	responses := make([]dto.DocumentResponse, len(documents))
	for i, doc := range documents {
		responses[i] = *converter.DocumentToResponse(&doc, u.pinner.GatewayURL(doc.IpfsHash))
	}

	return &dto.DocumentListResponse{
		Documents: responses,
		Total:     len(documents),
	}, nil
}

// Delete removes a document record. Only the owning patient can delete;
// the conditional delete keeps anyone else's id from matching.
func (u *documentUsecase) Delete(ctx context.Context, documentID uuid.UUID) error {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrNoIdentity
	}

	affected, err := u.documentRepo.DeleteOwned(ctx, documentID, ownerID)
	if err != nil {
		u.log.Warnf("Failed to delete document %s: %+v", documentID, err)
		return err
	}
	if affected == 0 {
		return ErrDocumentNotFound
	}

	u.audit.LogDelete(ctx, &ownerID, entity.AuditActionDocumentDelete, "document", documentID.String(), nil)

	u.log.Infof("Document deleted: id=%s, owner=%s", documentID, ownerID)
	return nil
}
