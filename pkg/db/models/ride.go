package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/enums"
	"github.com/airbear/airbear-backend/pkg/types"
)

// Ride is a booking between two spots.
type Ride struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	DriverID          *uuid.UUID       `gorm:"column:driver_id;type:uuid" json:"driverId,omitempty"`
	AirbearID         *uuid.UUID       `gorm:"column:airbear_id;type:uuid" json:"airbearId,omitempty"`
	PickupSpotID      uuid.UUID        `gorm:"column:pickup_spot_id;type:uuid;not null" json:"pickupSpotId"`
	DestinationSpotID uuid.UUID        `gorm:"column:destination_spot_id;type:uuid;not null" json:"destinationSpotId"`
	Status            enums.RideStatus `gorm:"column:status;type:text;not null" json:"status"`
	EstimatedDuration *int             `gorm:"column:estimated_duration" json:"estimatedDuration,omitempty"`
	ActualDuration    *int             `gorm:"column:actual_duration" json:"actualDuration,omitempty"`
	Distance          *types.Decimal   `gorm:"column:distance;type:numeric(10,2)" json:"distance,omitempty"`
	CO2Saved          *types.Decimal   `gorm:"column:co2_saved;type:numeric(10,2)" json:"co2Saved,omitempty"`
	Fare              types.Decimal    `gorm:"column:fare;type:numeric(10,2);not null" json:"fare"`
	IsFreeTshirtRide  bool             `gorm:"column:is_free_tshirt_ride;not null" json:"isFreeTshirtRide"`
	RequestedAt       time.Time        `gorm:"column:requested_at;not null;index" json:"requestedAt"`
	AcceptedAt        *time.Time       `gorm:"column:accepted_at" json:"acceptedAt,omitempty"`
	StartedAt         *time.Time       `gorm:"column:started_at" json:"startedAt,omitempty"`
	CompletedAt       *time.Time       `gorm:"column:completed_at" json:"completedAt,omitempty"`
}
