package dto

import (
	"time"

	"github.com/valutrade/valutrade-hub/internal/core/domain"
)

// RegisterRequest defines the payload for creating a new account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=1,max=64"`
	Password string `json:"password" binding:"required,min=5"`
}

// LoginRequest defines the payload for authenticating.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	UserID      int64  `json:"userID"`
	Username    string `json:"username"`
	AccessToken string `json:"accessToken"`
}

// ChangePasswordRequest defines the payload for replacing a password.
type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=5"`
}

// UserResponse is the public view of a user record.
type UserResponse struct {
	UserID           int64     `json:"userID"`
	Username         string    `json:"username"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// ToUserResponse converts a domain.User to its public view.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:           user.UserID,
		Username:         user.Username,
		RegistrationDate: user.RegistrationDate,
	}
}
