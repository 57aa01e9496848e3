package repository

import (
	"context"

	"healthvault/internal/domain/entity"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByRole(ctx context.Context, role entity.UserRole) ([]entity.User, error)
	SearchByRole(ctx context.Context, role entity.UserRole, term string) ([]entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}
