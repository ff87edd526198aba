package users

import (
	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/db/models"
	"github.com/airbear/airbear-backend/pkg/enums"
)

const (
	ReasonNoTshirt        = "No CEO T-shirt purchased"
	ReasonFreeRideClaimed = "Free ride already used today"
)

// Summary is the compact user shape returned by registration.
type Summary struct {
	ID       uuid.UUID      `json:"id"`
	Email    string         `json:"email"`
	Username string         `json:"username"`
	Role     enums.UserRole `json:"role"`
}

func SummaryFromModel(u *models.User) Summary {
	return Summary{ID: u.ID, Email: u.Email, Username: u.Username, Role: u.Role}
}

// UpdateProfileRequest syncs profile fields from the client. Only the fields
// present in the body change; role is fixed at registration.
type UpdateProfileRequest struct {
	FullName  *string `json:"fullName" validate:"omitempty,max=120"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url"`
}

// FreeRideStatus reports whether the CEO T-shirt perk covers a ride today.
type FreeRideStatus struct {
	CanRideFree bool   `json:"canRideFree"`
	Reason      string `json:"reason,omitempty"`
}
