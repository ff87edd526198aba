package fleet

import (
	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/enums"
	"github.com/airbear/airbear-backend/pkg/types"
)

// UpdateVehicleRequest is a driver-side status update for one AirBear.
type UpdateVehicleRequest struct {
	DriverID          *uuid.UUID               `json:"driverId"`
	CurrentSpotID     *uuid.UUID               `json:"currentSpotId"`
	BatteryLevel      *int                     `json:"batteryLevel" validate:"omitempty,min=0,max=100"`
	IsAvailable       *bool                    `json:"isAvailable"`
	IsCharging        *bool                    `json:"isCharging"`
	TotalDistance     *types.Decimal           `json:"totalDistance" validate:"omitempty,gte=0"`
	MaintenanceStatus *enums.MaintenanceStatus `json:"maintenanceStatus" validate:"omitempty,oneof=good needs_service in_service out_of_service"`
}
