package repositories

import (
	"context"

	"github.com/google/uuid"
	"registration-service/internal/domain/entities"
)

// UserRepository is the identity boundary: accounts are only ever created
// through it, and only after the email has been verified.
type UserRepository interface {
	Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error)
	FindById(ctx context.Context, id uuid.UUID) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
