package services

import (
	"context"
	"strings"
	"time"

	"github.com/valutrade/valutrade-hub/internal/apperrors"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	portsrepo "github.com/valutrade/valutrade-hub/internal/core/ports/repositories"
	portssvc "github.com/valutrade/valutrade-hub/internal/core/ports/services"
	"github.com/valutrade/valutrade-hub/internal/platform/config"
	"github.com/valutrade/valutrade-hub/internal/utils"
)

// minPasswordLength matches the historical rule: passwords of four characters
// or fewer are rejected.
const minPasswordLength = 5

// UserService manages registration and credential verification. It is the
// only component that ever sees plaintext passwords; everything above it
// works with verified user ids.
type UserService struct {
	userRepo      portsrepo.UserRepositoryFacade
	portfolioRepo portsrepo.PortfolioWriter
	cfg           *config.Config
	now           func() time.Time
}

// NewUserService creates a UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, portfolioRepo portsrepo.PortfolioWriter, cfg *config.Config) *UserService {
	return &UserService{
		userRepo:      userRepo,
		portfolioRepo: portfolioRepo,
		cfg:           cfg,
		now:           time.Now,
	}
}

// Register creates a new user and seeds their portfolio with the configured
// bootstrap balance in the default base currency.
func (s *UserService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.NewValidationError("username cannot be empty")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password is too short")
	}

	existing, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil && !isNotFound(err) {
		return nil, apperrors.NewPersistenceError("find user", err)
	}
	if existing != nil {
		return nil, apperrors.ErrUsernameTaken
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.CreateUser(ctx, domain.User{
		Username:         username,
		HashedPassword:   hash,
		RegistrationDate: s.now(),
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError("create user", err)
	}

	portfolio := domain.NewPortfolio(user.UserID)
	portfolio.EnsureWallet(s.cfg.DefaultBaseCurrency)
	seeded, _ := portfolio.Wallet(s.cfg.DefaultBaseCurrency)
	if err := seeded.Deposit(s.cfg.BootstrapBalance); err != nil {
		return nil, err
	}
	portfolio.SetWallet(seeded)
	if err := s.portfolioRepo.SavePortfolio(ctx, portfolio); err != nil {
		return nil, apperrors.NewPersistenceError("save portfolio", err)
	}

	return user, nil
}

// Authenticate verifies the credentials and returns the user on success. The
// failure mode is always ErrInvalidCredentials so callers cannot learn which
// half of the credentials was wrong.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.NewPersistenceError("find user", err)
	}

	if user.Salt != "" {
		if !utils.CheckLegacyPasswordHash(password, user.Salt, user.HashedPassword) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return user, nil
	}
	if !utils.CheckPasswordHash(password, user.HashedPassword) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByID retrieves a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// ChangePassword re-hashes and stores a new password. Legacy sha256 records
// move to bcrypt here, dropping their salt.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("password is too short")
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.HashedPassword = hash
	user.Salt = ""
	if err := s.userRepo.SaveUser(ctx, *user); err != nil {
		return apperrors.NewPersistenceError("save user", err)
	}
	return nil
}

var _ portssvc.UserSvcFacade = (*UserService)(nil)
