package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/enums"
	"github.com/airbear/airbear-backend/pkg/types"
)

// User is a rider, driver or admin account.
type User struct {
	ID                 uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email              string         `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	Username           string         `gorm:"column:username;type:text;not null;uniqueIndex" json:"username"`
	PasswordHash       string         `gorm:"column:password_hash;not null" json:"-"`
	FullName           *string        `gorm:"column:full_name" json:"fullName,omitempty"`
	AvatarURL          *string        `gorm:"column:avatar_url" json:"avatarUrl,omitempty"`
	Role               enums.UserRole `gorm:"column:role;type:text;not null" json:"role"`
	EcoPoints          int            `gorm:"column:eco_points;not null" json:"ecoPoints"`
	TotalRides         int            `gorm:"column:total_rides;not null" json:"totalRides"`
	CO2Saved           types.Decimal  `gorm:"column:co2_saved;type:numeric(12,2);not null" json:"co2Saved"`
	HasCeoTshirt       bool           `gorm:"column:has_ceo_tshirt;not null" json:"hasCeoTshirt"`
	TshirtPurchaseDate *time.Time     `gorm:"column:tshirt_purchase_date" json:"tshirtPurchaseDate,omitempty"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
