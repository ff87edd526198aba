package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/types"
)

// Spot is a fixed pickup/dropoff location.
type Spot struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string           `gorm:"column:name;not null" json:"name"`
	Latitude  types.Coordinate `gorm:"column:latitude;type:numeric(10,7);not null" json:"latitude"`
	Longitude types.Coordinate `gorm:"column:longitude;type:numeric(10,7);not null" json:"longitude"`
	IsActive  bool             `gorm:"column:is_active;not null" json:"isActive"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
