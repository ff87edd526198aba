package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/enums"
	"github.com/airbear/airbear-backend/pkg/types"
)

// Vehicle is a rentable AirBear rickshaw.
type Vehicle struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	DriverID          *uuid.UUID              `gorm:"column:driver_id;type:uuid" json:"driverId,omitempty"`
	CurrentSpotID     *uuid.UUID              `gorm:"column:current_spot_id;type:uuid" json:"currentSpotId,omitempty"`
	BatteryLevel      int                     `gorm:"column:battery_level;not null" json:"batteryLevel"`
	IsAvailable       bool                    `gorm:"column:is_available;not null" json:"isAvailable"`
	IsCharging        bool                    `gorm:"column:is_charging;not null" json:"isCharging"`
	TotalDistance     types.Decimal           `gorm:"column:total_distance;type:numeric(12,2);not null" json:"totalDistance"`
	MaintenanceStatus enums.MaintenanceStatus `gorm:"column:maintenance_status;type:text;not null" json:"maintenanceStatus"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Vehicle) TableName() string {
	return "airbears"
}

// Ready reports whether the vehicle can take a new ride right now.
func (v Vehicle) Ready() bool {
	return v.IsAvailable && !v.IsCharging
}
