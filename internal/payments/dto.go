package payments

import (
	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/db/models"
	"github.com/airbear/airbear-backend/pkg/enums"
	"github.com/airbear/airbear-backend/pkg/types"
)

// ProductTypeCeoTshirt marks an intent that buys the free-ride perk.
const ProductTypeCeoTshirt = "ceo_tshirt"

// Metadata keys written on gateway intents and read back from webhooks.
const (
	metaOrderID     = "orderId"
	metaRideID      = "rideId"
	metaUserID      = "userId"
	metaProductType = "productType"
	metaDriverID    = "driverId"
)

// CreateIntentRequest starts a payment. Amount is checked by the service so
// that a zero or negative value always reports "Invalid amount".
type CreateIntentRequest struct {
	Amount        types.Decimal       `json:"amount"`
	OrderID       *uuid.UUID          `json:"orderId"`
	RideID        *uuid.UUID          `json:"rideId"`
	UserID        *uuid.UUID          `json:"userId"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=card apple_pay google_pay cash"`
	ProductType   string              `json:"productType" validate:"omitempty,max=64"`
}

// IntentResult carries either the gateway handles or a cash token.
type IntentResult struct {
	ClientSecret    string `json:"clientSecret,omitempty"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
	QRCode          string `json:"qrCode,omitempty"`
}

type ConfirmCashRequest struct {
	QRCode   string    `json:"qrCode" validate:"required"`
	DriverID uuid.UUID `json:"driverId" validate:"required"`
}

type ConfirmCashResult struct {
	Success bool            `json:"success"`
	Payment *models.Payment `json:"payment"`
}
