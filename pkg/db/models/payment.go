package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/enums"
	"github.com/airbear/airbear-backend/pkg/types"
)

// Payment records money collected for an order or ride.
type Payment struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	OrderID            *uuid.UUID          `gorm:"column:order_id;type:uuid" json:"orderId,omitempty"`
	RideID             *uuid.UUID          `gorm:"column:ride_id;type:uuid" json:"rideId,omitempty"`
	ExternalPaymentRef *string             `gorm:"column:external_payment_ref;uniqueIndex:idx_payments_external_payment_ref" json:"externalPaymentRef,omitempty"`
	Amount             types.Decimal       `gorm:"column:amount;type:numeric(10,2);not null" json:"amount"`
	Currency           string              `gorm:"column:currency;not null" json:"currency"`
	Status             enums.PaymentStatus `gorm:"column:status;type:text;not null" json:"status"`
	PaymentMethod      enums.PaymentMethod `gorm:"column:payment_method;type:text;not null" json:"paymentMethod"`
	Metadata           map[string]string   `gorm:"column:metadata;type:jsonb;serializer:json" json:"metadata"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
