package repositories

import (
	"context"

	"github.com/valutrade/valutrade-hub/internal/core/domain"
)

// UserReader defines read operations for user records.
type UserReader interface {
	// FindUserByID retrieves a user by id. Missing users map to apperrors.ErrNotFound.
	FindUserByID(ctx context.Context, userID int64) (*domain.User, error)

	// FindUserByUsername retrieves a user by their unique username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserWriter defines write operations for user records.
type UserWriter interface {
	// CreateUser persists a new user and assigns its id.
	CreateUser(ctx context.Context, user domain.User) (*domain.User, error)

	// SaveUser updates an existing user record.
	SaveUser(ctx context.Context, user domain.User) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
