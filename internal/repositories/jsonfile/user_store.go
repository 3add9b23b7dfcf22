package jsonfile

import (
	"context"
	"strings"
	"time"

	"github.com/valutrade/valutrade-hub/internal/apperrors"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	portsrepo "github.com/valutrade/valutrade-hub/internal/core/ports/repositories"
)

const usersFile = "users.json"

// userRecord is the persisted shape of one user.
type userRecord struct {
	UserID           int64  `json:"user_id"`
	Username         string `json:"username"`
	RegistrationDate string `json:"registration_date"`
	HashedPassword   string `json:"hashed_password"`
	Salt             string `json:"salt,omitempty"`
}

func toUserRecord(u domain.User) userRecord {
	return userRecord{
		UserID:           u.UserID,
		Username:         u.Username,
		RegistrationDate: formatTime(u.RegistrationDate),
		HashedPassword:   u.HashedPassword,
		Salt:             u.Salt,
	}
}

func (r userRecord) toDomain() domain.User {
	return domain.User{
		UserID:           r.UserID,
		Username:         r.Username,
		RegistrationDate: parseTime(r.RegistrationDate),
		HashedPassword:   r.HashedPassword,
		Salt:             r.Salt,
	}
}

// UserRepository persists user records as a JSON array.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a UserRepository over the store.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) loadAll() ([]userRecord, error) {
	var records []userRecord
	if err := r.store.readJSON(usersFile, &records); err != nil && !missingOrCorrupt(err) {
		return nil, err
	}
	return records, nil
}

// FindUserByID retrieves a user by id.
func (r *UserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	r.store.usersMu.Lock()
	defer r.store.usersMu.Unlock()

	records, err := r.loadAll()
	if err != nil {
		return nil, apperrors.NewPersistenceError("find user", err)
	}
	for _, rec := range records {
		if rec.UserID == userID {
			user := rec.toDomain()
			return &user, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// FindUserByUsername retrieves a user by their unique username.
func (r *UserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.store.usersMu.Lock()
	defer r.store.usersMu.Unlock()

	records, err := r.loadAll()
	if err != nil {
		return nil, apperrors.NewPersistenceError("find user", err)
	}
	for _, rec := range records {
		if rec.Username == username {
			user := rec.toDomain()
			return &user, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// CreateUser assigns the next free id and appends the record. Uniqueness of
// the username is re-checked under the store lock, so two concurrent
// registrations cannot both claim the same name.
func (r *UserRepository) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	r.store.usersMu.Lock()
	defer r.store.usersMu.Unlock()

	records, err := r.loadAll()
	if err != nil {
		return nil, apperrors.NewPersistenceError("create user", err)
	}

	var maxID int64
	for _, rec := range records {
		if strings.EqualFold(rec.Username, user.Username) {
			return nil, apperrors.ErrUsernameTaken
		}
		if rec.UserID > maxID {
			maxID = rec.UserID
		}
	}
	user.UserID = maxID + 1
	if user.RegistrationDate.IsZero() {
		user.RegistrationDate = time.Now()
	}

	records = append(records, toUserRecord(user))
	if err := r.store.writeJSON(usersFile, records); err != nil {
		return nil, apperrors.NewPersistenceError("create user", err)
	}
	return &user, nil
}

// SaveUser updates an existing user record in place.
func (r *UserRepository) SaveUser(ctx context.Context, user domain.User) error {
	r.store.usersMu.Lock()
	defer r.store.usersMu.Unlock()

	records, err := r.loadAll()
	if err != nil {
		return apperrors.NewPersistenceError("save user", err)
	}
	for i, rec := range records {
		if rec.UserID == user.UserID {
			records[i] = toUserRecord(user)
			if err := r.store.writeJSON(usersFile, records); err != nil {
				return apperrors.NewPersistenceError("save user", err)
			}
			return nil
		}
	}
	return apperrors.ErrNotFound
}

var _ portsrepo.UserRepositoryFacade = (*UserRepository)(nil)
