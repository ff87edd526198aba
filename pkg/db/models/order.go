package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/enums"
	"github.com/airbear/airbear-backend/pkg/types"
)

// OrderItem is one bodega line captured at order time.
type OrderItem struct {
	ItemID   uuid.UUID     `json:"itemId"`
	Quantity int           `json:"quantity"`
	Price    types.Decimal `json:"price"`
}

// Order is a bodega purchase, optionally tied to a ride.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	RideID      *uuid.UUID        `gorm:"column:ride_id;type:uuid" json:"rideId,omitempty"`
	AirbearID   *uuid.UUID        `gorm:"column:airbear_id;type:uuid" json:"airbearId,omitempty"`
	Items       []OrderItem       `gorm:"column:items;type:jsonb;serializer:json;not null" json:"items"`
	TotalAmount types.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null" json:"totalAmount"`
	Status      enums.OrderStatus `gorm:"column:status;type:text;not null" json:"status"`
	Notes       *string           `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
