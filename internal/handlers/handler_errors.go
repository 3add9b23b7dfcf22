package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valutrade/valutrade-hub/internal/apperrors"
	"github.com/valutrade/valutrade-hub/internal/middleware"
)

// respondError maps an application error to a stable HTTP status and message.
// Internal failures are logged in full but surface as a generic message.
func respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var insufficientFunds *apperrors.InsufficientFundsError
	var refreshFailed *apperrors.RefreshFailedError
	var providerErr *apperrors.ProviderError

	switch {
	case errors.As(err, &insufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        insufficientFunds.Error(),
			"available":    insufficientFunds.Available,
			"required":     insufficientFunds.Required,
			"currencyCode": insufficientFunds.Code,
		})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidCredentials), errors.Is(err, apperrors.ErrNotLoggedIn):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &refreshFailed), errors.As(err, &providerErr):
		logger.Error("Provider failure", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.Error("Unhandled error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
