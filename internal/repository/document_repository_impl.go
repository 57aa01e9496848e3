package repository

import (
	"context"
	"errors"

	"healthvault/internal/domain/entity"
	domainRepo "healthvault/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) domainRepo.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, document *entity.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	var document entity.Document
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&document).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &document, nil
}

func (r *documentRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]entity.Document, error) {
	var documents []entity.Document
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("upload_date DESC").
		Find(&documents).Error
	if err != nil {
		return nil, err
	}
	return documents, nil
}

// DeleteOwned deletes atomically only when the row belongs to ownerID,
// so a patient can never remove another patient's record.
func (r *documentRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&entity.Document{})
	return result.RowsAffected, result.Error
}
