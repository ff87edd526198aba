package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/db/models"
	"github.com/airbear/airbear-backend/pkg/types"
)

// Records leave the store as deep copies so callers can never mutate shared
// state through a returned pointer.

func cloneUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

func cloneDecimal(d *types.Decimal) *types.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func cloneUser(u models.User) *models.User {
	u.FullName = cloneString(u.FullName)
	u.AvatarURL = cloneString(u.AvatarURL)
	u.TshirtPurchaseDate = cloneTime(u.TshirtPurchaseDate)
	return &u
}

func cloneVehicle(v models.Vehicle) *models.Vehicle {
	v.DriverID = cloneUUID(v.DriverID)
	v.CurrentSpotID = cloneUUID(v.CurrentSpotID)
	return &v
}

func cloneRide(r models.Ride) *models.Ride {
	r.DriverID = cloneUUID(r.DriverID)
	r.AirbearID = cloneUUID(r.AirbearID)
	r.EstimatedDuration = cloneInt(r.EstimatedDuration)
	r.ActualDuration = cloneInt(r.ActualDuration)
	r.Distance = cloneDecimal(r.Distance)
	r.CO2Saved = cloneDecimal(r.CO2Saved)
	r.AcceptedAt = cloneTime(r.AcceptedAt)
	r.StartedAt = cloneTime(r.StartedAt)
	r.CompletedAt = cloneTime(r.CompletedAt)
	return &r
}

func cloneBodegaItem(i models.BodegaItem) *models.BodegaItem {
	i.Description = cloneString(i.Description)
	i.ImageURL = cloneString(i.ImageURL)
	return &i
}

func cloneOrder(o models.Order) *models.Order {
	o.RideID = cloneUUID(o.RideID)
	o.AirbearID = cloneUUID(o.AirbearID)
	o.Notes = cloneString(o.Notes)
	items := make([]models.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return &o
}

func clonePayment(p models.Payment) *models.Payment {
	p.OrderID = cloneUUID(p.OrderID)
	p.RideID = cloneUUID(p.RideID)
	p.ExternalPaymentRef = cloneString(p.ExternalPaymentRef)
	meta := make(map[string]string, len(p.Metadata))
	for k, v := range p.Metadata {
		meta[k] = v
	}
	p.Metadata = meta
	return &p
}
