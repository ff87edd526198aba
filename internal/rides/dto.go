package rides

import (
	"time"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/enums"
	"github.com/airbear/airbear-backend/pkg/types"
)

// CreateRideRequest books a ride between two spots. Fare arrives as a JSON
// number or string and is kept at two decimal places.
type CreateRideRequest struct {
	UserID            uuid.UUID      `json:"userId" validate:"required"`
	DriverID          *uuid.UUID     `json:"driverId"`
	AirbearID         *uuid.UUID     `json:"airbearId"`
	PickupSpotID      uuid.UUID      `json:"pickupSpotId" validate:"required"`
	DestinationSpotID uuid.UUID      `json:"destinationSpotId" validate:"required"`
	EstimatedDuration *int           `json:"estimatedDuration" validate:"omitempty,min=0"`
	Distance          *types.Decimal `json:"distance" validate:"omitempty,gte=0"`
	CO2Saved          *types.Decimal `json:"co2Saved" validate:"omitempty,gte=0"`
	Fare              *types.Decimal `json:"fare" validate:"required,gte=0"`
	IsFreeTshirtRide  bool           `json:"isFreeTshirtRide"`
}

func (r CreateRideRequest) CheckFields() map[string]string {
	if r.PickupSpotID != uuid.Nil && r.PickupSpotID == r.DestinationSpotID {
		return map[string]string{"destinationSpotId": "must differ from pickupSpotId"}
	}
	return nil
}

// UpdateRideRequest is a partial ride update. Any valid status is accepted
// unless strict transitions are switched on.
type UpdateRideRequest struct {
	Status            *enums.RideStatus `json:"status" validate:"omitempty,oneof=pending accepted in_progress completed cancelled"`
	DriverID          *uuid.UUID        `json:"driverId"`
	AirbearID         *uuid.UUID        `json:"airbearId"`
	EstimatedDuration *int              `json:"estimatedDuration" validate:"omitempty,min=0"`
	ActualDuration    *int              `json:"actualDuration" validate:"omitempty,min=0"`
	Distance          *types.Decimal    `json:"distance" validate:"omitempty,gte=0"`
	CO2Saved          *types.Decimal    `json:"co2Saved" validate:"omitempty,gte=0"`
	Fare              *types.Decimal    `json:"fare" validate:"omitempty,gte=0"`
	IsFreeTshirtRide  *bool             `json:"isFreeTshirtRide"`
	AcceptedAt        *time.Time        `json:"acceptedAt"`
	StartedAt         *time.Time        `json:"startedAt"`
	CompletedAt       *time.Time        `json:"completedAt"`
}

// Estimate is a quote for a trip between two spots.
type Estimate struct {
	DistanceKM        types.Decimal `json:"distanceKm"`
	EstimatedDuration int           `json:"estimatedDuration"`
	Fare              types.Decimal `json:"fare"`
	CO2Saved          types.Decimal `json:"co2Saved"`
}
