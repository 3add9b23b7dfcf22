package services

import (
	"context"

	"github.com/valutrade/valutrade-hub/internal/core/domain"
)

// UserSvcFacade manages registration and credential verification. Password
// hashing is a black box behind this boundary; callers only ever see the
// verified/not-verified outcome.
type UserSvcFacade interface {
	// Register creates a user with a unique username and seeds their
	// portfolio with the configured bootstrap balance in the base currency.
	Register(ctx context.Context, username, password string) (*domain.User, error)

	// Authenticate verifies the credentials and returns the user on success.
	// Failures are always apperrors.ErrInvalidCredentials, never revealing
	// which half was wrong.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)

	// ChangePassword re-hashes and stores a new password for the user.
	ChangePassword(ctx context.Context, userID int64, newPassword string) error
}

// TokenSvcFacade issues and verifies session tokens. Sessions are explicit
// objects carried in tokens rather than process-global state, so concurrent
// users never share a session variable.
type TokenSvcFacade interface {
	// IssueToken creates a signed session token for the user.
	IssueToken(user *domain.User) (string, error)

	// VerifyToken checks the token and returns the user id it carries.
	VerifyToken(token string) (int64, error)
}
