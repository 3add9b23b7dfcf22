package services

import (
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	portssvc "github.com/valutrade/valutrade-hub/internal/core/ports/services"
	"github.com/valutrade/valutrade-hub/internal/platform/config"
	"github.com/valutrade/valutrade-hub/internal/utils"
)

// tokenService issues and verifies the JWT session tokens that replace any
// notion of a process-global "currently logged in user".
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a token service backed by the configured secret.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// IssueToken creates a signed session token for the user.
func (s *tokenService) IssueToken(user *domain.User) (string, error) {
	return utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
}

// VerifyToken checks the token and returns the user id it carries.
func (s *tokenService) VerifyToken(token string) (int64, error) {
	return utils.ParseAndValidateJWT(token, s.cfg.JWTSecret)
}
