package bodega

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/types"
)

// OrderLine is one requested item. Price is optional; the catalog price is
// used when it is omitted.
type OrderLine struct {
	ItemID   uuid.UUID      `json:"itemId" validate:"required"`
	Quantity int            `json:"quantity" validate:"required,min=1,max=99"`
	Price    *types.Decimal `json:"price" validate:"omitempty,gte=0"`
}

// CreateOrderRequest places a bodega order. TotalAmount defaults to the sum
// of line prices.
type CreateOrderRequest struct {
	UserID      uuid.UUID      `json:"userId" validate:"required"`
	RideID      *uuid.UUID     `json:"rideId"`
	AirbearID   *uuid.UUID     `json:"airbearId"`
	Items       []OrderLine    `json:"items" validate:"required,min=1,dive"`
	TotalAmount *types.Decimal `json:"totalAmount" validate:"omitempty,gte=0"`
	Notes       *string        `json:"notes" validate:"omitempty,max=500"`
}

func (r CreateOrderRequest) CheckFields() map[string]string {
	seen := make(map[uuid.UUID]int, len(r.Items))
	for i, line := range r.Items {
		if prev, ok := seen[line.ItemID]; ok && line.ItemID != uuid.Nil {
			return map[string]string{
				fmt.Sprintf("items[%d].itemId", i): fmt.Sprintf("duplicates items[%d]", prev),
			}
		}
		seen[line.ItemID] = i
	}
	return nil
}
