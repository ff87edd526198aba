package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/db/models"
	"github.com/airbear/airbear-backend/pkg/enums"
	"github.com/airbear/airbear-backend/pkg/types"
)

// Patches carry only the fields a caller wants to change. Nil fields are left
// untouched, so an empty patch is a no-op.

type UserPatch struct {
	FullName           *string
	AvatarURL          *string
	EcoPoints          *int
	TotalRides         *int
	CO2Saved           *types.Decimal
	HasCeoTshirt       *bool
	TshirtPurchaseDate *time.Time
}

func (p UserPatch) Apply(u *models.User) {
	if p.FullName != nil {
		name := *p.FullName
		u.FullName = &name
	}
	if p.AvatarURL != nil {
		avatar := *p.AvatarURL
		u.AvatarURL = &avatar
	}
	if p.EcoPoints != nil {
		u.EcoPoints = *p.EcoPoints
	}
	if p.TotalRides != nil {
		u.TotalRides = *p.TotalRides
	}
	if p.CO2Saved != nil {
		u.CO2Saved = *p.CO2Saved
	}
	if p.HasCeoTshirt != nil {
		u.HasCeoTshirt = *p.HasCeoTshirt
	}
	if p.TshirtPurchaseDate != nil {
		t := *p.TshirtPurchaseDate
		u.TshirtPurchaseDate = &t
	}
}

type VehiclePatch struct {
	DriverID          *uuid.UUID
	CurrentSpotID     *uuid.UUID
	BatteryLevel      *int
	IsAvailable       *bool
	IsCharging        *bool
	TotalDistance     *types.Decimal
	MaintenanceStatus *enums.MaintenanceStatus
}

func (p VehiclePatch) Apply(v *models.Vehicle) {
	if p.DriverID != nil {
		id := *p.DriverID
		v.DriverID = &id
	}
	if p.CurrentSpotID != nil {
		id := *p.CurrentSpotID
		v.CurrentSpotID = &id
	}
	if p.BatteryLevel != nil {
		v.BatteryLevel = *p.BatteryLevel
	}
	if p.IsAvailable != nil {
		v.IsAvailable = *p.IsAvailable
	}
	if p.IsCharging != nil {
		v.IsCharging = *p.IsCharging
	}
	if p.TotalDistance != nil {
		v.TotalDistance = *p.TotalDistance
	}
	if p.MaintenanceStatus != nil {
		v.MaintenanceStatus = *p.MaintenanceStatus
	}
}

type RidePatch struct {
	DriverID          *uuid.UUID
	AirbearID         *uuid.UUID
	Status            *enums.RideStatus
	EstimatedDuration *int
	ActualDuration    *int
	Distance          *types.Decimal
	CO2Saved          *types.Decimal
	Fare              *types.Decimal
	IsFreeTshirtRide  *bool
	AcceptedAt        *time.Time
	StartedAt         *time.Time
	CompletedAt       *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p RidePatch) IsEmpty() bool {
	return p == RidePatch{}
}

func (p RidePatch) Apply(r *models.Ride) {
	if p.DriverID != nil {
		id := *p.DriverID
		r.DriverID = &id
	}
	if p.AirbearID != nil {
		id := *p.AirbearID
		r.AirbearID = &id
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.EstimatedDuration != nil {
		d := *p.EstimatedDuration
		r.EstimatedDuration = &d
	}
	if p.ActualDuration != nil {
		d := *p.ActualDuration
		r.ActualDuration = &d
	}
	if p.Distance != nil {
		d := *p.Distance
		r.Distance = &d
	}
	if p.CO2Saved != nil {
		c := *p.CO2Saved
		r.CO2Saved = &c
	}
	if p.Fare != nil {
		r.Fare = *p.Fare
	}
	if p.IsFreeTshirtRide != nil {
		r.IsFreeTshirtRide = *p.IsFreeTshirtRide
	}
	if p.AcceptedAt != nil {
		t := *p.AcceptedAt
		r.AcceptedAt = &t
	}
	if p.StartedAt != nil {
		t := *p.StartedAt
		r.StartedAt = &t
	}
	if p.CompletedAt != nil {
		t := *p.CompletedAt
		r.CompletedAt = &t
	}
}

type OrderPatch struct {
	Status *enums.OrderStatus
	Notes  *string
}

func (p OrderPatch) Apply(o *models.Order) {
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.Notes != nil {
		n := *p.Notes
		o.Notes = &n
	}
}

type PaymentPatch struct {
	Status             *enums.PaymentStatus
	ExternalPaymentRef *string
	// Metadata keys are merged into the existing map.
	Metadata map[string]string
}

func (p PaymentPatch) Apply(pay *models.Payment) {
	if p.Status != nil {
		pay.Status = *p.Status
	}
	if p.ExternalPaymentRef != nil {
		ref := *p.ExternalPaymentRef
		pay.ExternalPaymentRef = &ref
	}
	if len(p.Metadata) > 0 {
		merged := make(map[string]string, len(pay.Metadata)+len(p.Metadata))
		for k, v := range pay.Metadata {
			merged[k] = v
		}
		for k, v := range p.Metadata {
			merged[k] = v
		}
		pay.Metadata = merged
	}
}
