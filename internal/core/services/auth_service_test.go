package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	"github.com/valutrade/valutrade-hub/internal/core/services"
	"github.com/valutrade/valutrade-hub/internal/platform/config"
)

func TestTokenService_RoundTrip(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTIssuer:         "valutrade-hub",
		JWTExpiryDuration: time.Hour,
	}
	tokens := services.NewTokenService(cfg)

	token, err := tokens.IssueToken(&domain.User{UserID: 42, Username: "alice"})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := tokens.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	issue := services.NewTokenService(&config.Config{
		JWTSecret: "secret-a", JWTIssuer: "valutrade-hub", JWTExpiryDuration: time.Hour,
	})
	verify := services.NewTokenService(&config.Config{
		JWTSecret: "secret-b", JWTIssuer: "valutrade-hub", JWTExpiryDuration: time.Hour,
	})

	token, err := issue.IssueToken(&domain.User{UserID: 42})
	assert.NoError(t, err)

	_, err = verify.VerifyToken(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	tokens := services.NewTokenService(&config.Config{
		JWTSecret: "test-secret", JWTIssuer: "valutrade-hub", JWTExpiryDuration: -time.Minute,
	})

	token, err := tokens.IssueToken(&domain.User{UserID: 42})
	assert.NoError(t, err)

	_, err = tokens.VerifyToken(token)
	assert.Error(t, err)
}
