package auth

import (
	"github.com/airbear/airbear-backend/internal/users"
	"github.com/airbear/airbear-backend/pkg/db/models"
	"github.com/airbear/airbear-backend/pkg/enums"
)

// RegisterRequest is the sign-up payload. Password length is checked against
// the configured minimum by the service.
type RegisterRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Username string          `json:"username" validate:"required,min=3,max=32"`
	Password string          `json:"password" validate:"required"`
	FullName *string         `json:"fullName" validate:"omitempty,max=120"`
	Role     *enums.UserRole `json:"role" validate:"omitempty,oneof=user driver admin"`
}

type RegisterResponse struct {
	User users.Summary `json:"user"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the signed-in user and, when token signing is
// configured, a bearer token.
type LoginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token,omitempty"`
}
