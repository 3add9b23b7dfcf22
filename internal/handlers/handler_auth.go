package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valutrade/valutrade-hub/internal/core/services"
	"github.com/valutrade/valutrade-hub/internal/dto"
	"github.com/valutrade/valutrade-hub/internal/middleware"
)

// authHandler handles registration and login.
type authHandler struct {
	container *services.Container
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(r *gin.Engine, container *services.Container) {
	h := &authHandler{container: container}

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}
}

func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.container.User.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("User registered", slog.Int64("user_id", user.UserID), slog.String("username", user.Username))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.container.User.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.container.Token.IssueToken(user)
	if err != nil {
		logger.Error("Failed to issue session token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	logger.Info("User logged in", slog.Int64("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		UserID:      user.UserID,
		Username:    user.Username,
		AccessToken: token,
	})
}
