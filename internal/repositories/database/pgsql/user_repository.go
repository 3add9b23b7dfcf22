package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valutrade/valutrade-hub/internal/apperrors"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	portsrepo "github.com/valutrade/valutrade-hub/internal/core/ports/repositories"
)

// PgxUserRepository implements the user repository ports using pgxpool.
type PgxUserRepository struct {
	BaseRepository
}

// NewPgxUserRepository creates a PgxUserRepository.
func NewPgxUserRepository(db *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, username, registration_date, hashed_password, COALESCE(salt, '')`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.UserID, &user.Username, &user.RegistrationDate, &user.HashedPassword, &user.Salt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewPersistenceError("scan user", err)
	}
	return &user, nil
}

// FindUserByID retrieves a user by id.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID)
	return scanUser(row)
}

// FindUserByUsername retrieves a user by their unique username.
func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// CreateUser inserts the user and returns it with the sequence-assigned id.
func (r *PgxUserRepository) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO users (username, registration_date, hashed_password, salt)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id`,
		user.Username, user.RegistrationDate, user.HashedPassword, user.Salt,
	).Scan(&user.UserID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, apperrors.NewPersistenceError("create user", err)
	}
	return &user, nil
}

// SaveUser updates an existing user record.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE users
		SET username = $2, hashed_password = $3, salt = $4
		WHERE user_id = $1`,
		user.UserID, user.Username, user.HashedPassword, user.Salt,
	)
	if err != nil {
		return apperrors.NewPersistenceError("save user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
