package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/airbear/airbear-backend/internal/store"
	"github.com/airbear/airbear-backend/pkg/db/models"
	"github.com/airbear/airbear-backend/pkg/enums"
	pkgerrors "github.com/airbear/airbear-backend/pkg/errors"
	"github.com/airbear/airbear-backend/pkg/logger"
	"github.com/airbear/airbear-backend/pkg/metrics"
	stripeclient "github.com/airbear/airbear-backend/pkg/stripe"
	"github.com/airbear/airbear-backend/pkg/types"
)

// Gateway opens card and wallet payment intents.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, req stripeclient.IntentRequest) (*stripeclient.Intent, error)
}

// Service settles orders and rides by card, wallet or cash.
type Service interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest) (*IntentResult, error)
	ConfirmCash(ctx context.Context, req ConfirmCashRequest) (*ConfirmCashResult, error)
	HandleEvent(ctx context.Context, event *stripe.Event) error
}

type paymentStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, patch store.UserPatch) (*models.User, error)
	GetRide(ctx context.Context, id uuid.UUID) (*models.Ride, error)
	UpdateRide(ctx context.Context, id uuid.UUID, patch store.RidePatch) (*models.Ride, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, patch store.OrderPatch) (*models.Order, error)
	GetPaymentByExternalRef(ctx context.Context, ref string) (*models.Payment, error)
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, patch store.PaymentPatch) (*models.Payment, error)
}

// ServiceParams wires the payment service. A nil Gateway disables the card
// path; cash keeps working.
type ServiceParams struct {
	Store      paymentStore
	Gateway    Gateway
	CashSigner *CashSigner
	Currency   string
	Metrics    *metrics.DomainMetrics
	Logger     *logger.Logger
	Now        func() time.Time
}

type service struct {
	store    paymentStore
	gateway  Gateway
	signer   *CashSigner
	currency string
	metrics  *metrics.DomainMetrics
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if params.CashSigner == nil {
		return nil, fmt.Errorf("cash signer is required")
	}
	currency := strings.ToLower(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "usd"
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		store:    params.Store,
		gateway:  params.Gateway,
		signer:   params.CashSigner,
		currency: currency,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      now,
	}, nil
}

func errPaymentsDisabled() error {
	return pkgerrors.New(pkgerrors.CodeConfiguration, "payments disabled")
}

func (s *service) CreateIntent(ctx context.Context, req CreateIntentRequest) (*IntentResult, error) {
	if !req.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid amount")
	}
	method := req.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodCard
	}
	userID, err := s.resolveUser(ctx, req)
	if err != nil {
		return nil, err
	}

	if !method.UsesGateway() {
		return s.issueCashToken(req)
	}
	if s.gateway == nil {
		return nil, errPaymentsDisabled()
	}
	if userID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"userId": "userId, orderId or rideId is required"})
	}

	meta := map[string]string{metaUserID: userID.String()}
	if req.OrderID != nil {
		meta[metaOrderID] = req.OrderID.String()
	}
	if req.RideID != nil {
		meta[metaRideID] = req.RideID.String()
	}
	if pt := strings.TrimSpace(req.ProductType); pt != "" {
		meta[metaProductType] = pt
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, stripeclient.IntentRequest{
		AmountMinor: req.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		Currency:    s.currency,
		Metadata:    meta,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, stripeclient.ErrorMessage(err))
	}

	ref := intent.ID
	payment, err := s.store.CreatePayment(ctx, &models.Payment{
		UserID:             *userID,
		OrderID:            req.OrderID,
		RideID:             req.RideID,
		ExternalPaymentRef: &ref,
		Amount:             req.Amount,
		Currency:           s.currency,
		Status:             enums.PaymentStatusPending,
		PaymentMethod:      method,
		Metadata:           meta,
	})
	if err != nil {
		return nil, store.Translate(err, "payment")
	}
	s.metrics.PaymentRecorded(string(payment.PaymentMethod), string(payment.Status))
	return &IntentResult{ClientSecret: intent.ClientSecret, PaymentIntentID: intent.ID}, nil
}

// resolveUser checks the referenced records and returns the paying user,
// preferring the explicit id over the order's and then the ride's owner.
func (s *service) resolveUser(ctx context.Context, req CreateIntentRequest) (*uuid.UUID, error) {
	var owner *uuid.UUID
	if req.RideID != nil {
		ride, err := s.store.GetRide(ctx, *req.RideID)
		if err != nil {
			return nil, store.Translate(err, "ride")
		}
		owner = &ride.UserID
	}
	if req.OrderID != nil {
		order, err := s.store.GetOrder(ctx, *req.OrderID)
		if err != nil {
			return nil, store.Translate(err, "order")
		}
		owner = &order.UserID
	}
	if req.UserID != nil {
		if _, err := s.store.GetUser(ctx, *req.UserID); err != nil {
			return nil, store.Translate(err, "user")
		}
		owner = req.UserID
	}
	return owner, nil
}

func (s *service) issueCashToken(req CreateIntentRequest) (*IntentResult, error) {
	if req.OrderID == nil && req.RideID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"orderId": "orderId or rideId is required for cash payments"})
	}
	code, err := s.signer.Encode(CashToken{
		OrderID:   req.OrderID,
		RideID:    req.RideID,
		Amount:    req.Amount,
		Timestamp: s.now().UnixMilli(),
		Method:    cashMethod,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cash token")
	}
	return &IntentResult{QRCode: code}, nil
}

// ConfirmCash redeems a cash token on behalf of a driver. Each token yields
// at most one payment.
func (s *service) ConfirmCash(ctx context.Context, req ConfirmCashRequest) (*ConfirmCashResult, error) {
	token, err := s.signer.Decode(req.QRCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cash token")
	}
	if _, err := s.store.GetUser(ctx, req.DriverID); err != nil {
		return nil, store.Translate(err, "driver")
	}

	ref := redemptionRef(req.QRCode)
	if _, err := s.store.GetPaymentByExternalRef(ctx, ref); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cash token already redeemed")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, store.Translate(err, "payment")
	}

	var userID uuid.UUID
	if token.RideID != nil {
		ride, err := s.store.GetRide(ctx, *token.RideID)
		if err != nil {
			return nil, store.Translate(err, "ride")
		}
		userID = ride.UserID
	}
	if token.OrderID != nil {
		order, err := s.store.GetOrder(ctx, *token.OrderID)
		if err != nil {
			return nil, store.Translate(err, "order")
		}
		userID = order.UserID
	}

	// The unique redemption ref makes the insert the claim on the token.
	payment, err := s.store.CreatePayment(ctx, &models.Payment{
		UserID:             userID,
		OrderID:            token.OrderID,
		RideID:             token.RideID,
		ExternalPaymentRef: &ref,
		Amount:             token.Amount,
		Currency:           s.currency,
		Status:             enums.PaymentStatusCompleted,
		PaymentMethod:      enums.PaymentMethodCash,
		Metadata:           map[string]string{metaDriverID: req.DriverID.String()},
	})
	if errors.Is(err, store.ErrConflict) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cash token already redeemed")
	}
	if err != nil {
		return nil, store.Translate(err, "payment")
	}
	if err := s.completeReferences(ctx, token.OrderID, token.RideID); err != nil {
		return nil, err
	}
	s.metrics.PaymentRecorded(string(payment.PaymentMethod), string(payment.Status))
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"payment_id": payment.ID.String(),
			"driver_id":  req.DriverID.String(),
		}), "payments.cash_confirmed")
	}
	return &ConfirmCashResult{Success: true, Payment: payment}, nil
}

func (s *service) completeReferences(ctx context.Context, orderID, rideID *uuid.UUID) error {
	if orderID != nil {
		status := enums.OrderStatusCompleted
		if _, err := s.store.UpdateOrder(ctx, *orderID, store.OrderPatch{Status: &status}); err != nil {
			return store.Translate(err, "order")
		}
	}
	if rideID != nil {
		status := enums.RideStatusCompleted
		now := s.now().UTC()
		if _, err := s.store.UpdateRide(ctx, *rideID, store.RidePatch{Status: &status, CompletedAt: &now}); err != nil {
			return store.Translate(err, "ride")
		}
	}
	return nil
}

// HandleEvent applies a verified gateway event. Unknown event types are
// acknowledged without changes.
func (s *service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}
	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded, stripe.EventTypePaymentIntentPaymentFailed:
	default:
		return nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment intent")
	}
	if intent.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment intent id missing")
	}

	if event.Type == stripe.EventTypePaymentIntentPaymentFailed {
		return s.markFailed(ctx, &intent)
	}
	return s.markSucceeded(ctx, &intent)
}

func (s *service) markSucceeded(ctx context.Context, intent *stripe.PaymentIntent) error {
	orderID := metadataID(intent.Metadata, metaOrderID)
	rideID := metadataID(intent.Metadata, metaRideID)
	userID := metadataID(intent.Metadata, metaUserID)

	if err := s.completeReferences(ctx, orderID, rideID); err != nil {
		return err
	}

	completed := enums.PaymentStatusCompleted
	existing, err := s.store.GetPaymentByExternalRef(ctx, intent.ID)
	switch {
	case err == nil:
		if _, err := s.store.UpdatePayment(ctx, existing.ID, store.PaymentPatch{Status: &completed}); err != nil {
			return store.Translate(err, "payment")
		}
		s.metrics.PaymentRecorded(string(existing.PaymentMethod), string(completed))
	case errors.Is(err, store.ErrNotFound):
		if userID == nil {
			s.warn(ctx, intent.ID, "payments.intent_without_user")
			break
		}
		ref := intent.ID
		currency := strings.ToLower(string(intent.Currency))
		if currency == "" {
			currency = s.currency
		}
		created, err := s.store.CreatePayment(ctx, &models.Payment{
			UserID:             *userID,
			OrderID:            orderID,
			RideID:             rideID,
			ExternalPaymentRef: &ref,
			Amount:             types.NewDecimal(decimal.New(intent.Amount, -2)),
			Currency:           currency,
			Status:             completed,
			PaymentMethod:      enums.PaymentMethodCard,
			Metadata:           intent.Metadata,
		})
		if err != nil {
			return store.Translate(err, "payment")
		}
		s.metrics.PaymentRecorded(string(created.PaymentMethod), string(created.Status))
	default:
		return store.Translate(err, "payment")
	}

	if intent.Metadata[metaProductType] == ProductTypeCeoTshirt && userID != nil {
		owned := true
		purchased := s.now().UTC()
		if _, err := s.store.UpdateUser(ctx, *userID, store.UserPatch{
			HasCeoTshirt:       &owned,
			TshirtPurchaseDate: &purchased,
		}); err != nil {
			return store.Translate(err, "user")
		}
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "payment_intent", intent.ID), "payments.intent_succeeded")
	}
	return nil
}

func (s *service) markFailed(ctx context.Context, intent *stripe.PaymentIntent) error {
	existing, err := s.store.GetPaymentByExternalRef(ctx, intent.ID)
	if errors.Is(err, store.ErrNotFound) {
		s.warn(ctx, intent.ID, "payments.unknown_intent_failed")
		return nil
	}
	if err != nil {
		return store.Translate(err, "payment")
	}
	failed := enums.PaymentStatusFailed
	if _, err := s.store.UpdatePayment(ctx, existing.ID, store.PaymentPatch{Status: &failed}); err != nil {
		return store.Translate(err, "payment")
	}
	s.metrics.PaymentRecorded(string(existing.PaymentMethod), string(failed))
	return nil
}

func (s *service) warn(ctx context.Context, intentID, msg string) {
	if s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "payment_intent", intentID), msg)
	}
}

func metadataID(meta map[string]string, key string) *uuid.UUID {
	raw := strings.TrimSpace(meta[key])
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
