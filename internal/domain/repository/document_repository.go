package repository

import (
	"context"

	"healthvault/internal/domain/entity"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]entity.Document, error)
	// DeleteOwned deletes the document only if it belongs to ownerID.
	// Returns affected rows: 0 means not found or not owned.
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) (int64, error)
}
