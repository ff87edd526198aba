package bodega

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/airbear/airbear-backend/internal/store"
	"github.com/airbear/airbear-backend/pkg/db/models"
	"github.com/airbear/airbear-backend/pkg/enums"
	pkgerrors "github.com/airbear/airbear-backend/pkg/errors"
	"github.com/airbear/airbear-backend/pkg/logger"
	"github.com/airbear/airbear-backend/pkg/types"
)

// Service exposes the catalog and order placement.
type Service interface {
	ListItems(ctx context.Context, category string) ([]models.BodegaItem, error)
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

type bodegaStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetRide(ctx context.Context, id uuid.UUID) (*models.Ride, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	GetBodegaItem(ctx context.Context, id uuid.UUID) (*models.BodegaItem, error)
	ListBodegaItems(ctx context.Context, category string) ([]models.BodegaItem, error)
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

type ServiceParams struct {
	Store  bodegaStore
	Logger *logger.Logger
}

type service struct {
	store bodegaStore
	logg  *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &service{store: params.Store, logg: params.Logger}, nil
}

func (s *service) ListItems(ctx context.Context, category string) ([]models.BodegaItem, error) {
	items, err := s.store.ListBodegaItems(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, store.Translate(err, "bodega item")
	}
	return items, nil
}

// CreateOrder checks every reference, prices each line and stores the order
// as pending. Stock is checked but not decremented.
func (s *service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"items": "is required"})
	}
	if _, err := s.store.GetUser(ctx, req.UserID); err != nil {
		return nil, store.Translate(err, "user")
	}
	if req.RideID != nil {
		if _, err := s.store.GetRide(ctx, *req.RideID); err != nil {
			return nil, store.Translate(err, "ride")
		}
	}
	if req.AirbearID != nil {
		if _, err := s.store.GetVehicle(ctx, *req.AirbearID); err != nil {
			return nil, store.Translate(err, "airbear")
		}
	}

	lines := make([]models.OrderItem, 0, len(req.Items))
	details := map[string]string{}
	sum := decimal.Zero
	for i, line := range req.Items {
		item, err := s.store.GetBodegaItem(ctx, line.ItemID)
		if err != nil {
			return nil, store.Translate(err, "bodega item")
		}
		field := fmt.Sprintf("items[%d]", i)
		switch {
		case !item.IsAvailable:
			details[field] = fmt.Sprintf("%s is unavailable", item.Name)
			continue
		case line.Quantity > item.Stock:
			details[field] = fmt.Sprintf("only %d of %s in stock", item.Stock, item.Name)
			continue
		}

		price := item.Price
		if line.Price != nil {
			price = *line.Price
		}
		lines = append(lines, models.OrderItem{ItemID: item.ID, Quantity: line.Quantity, Price: price})
		sum = sum.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "some items cannot be ordered").WithDetails(details)
	}

	total := types.NewDecimal(sum)
	if req.TotalAmount != nil {
		total = *req.TotalAmount
	}
	if total.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"totalAmount": "must be greater than or equal to 0"})
	}

	order, err := s.store.CreateOrder(ctx, &models.Order{
		UserID:      req.UserID,
		RideID:      req.RideID,
		AirbearID:   req.AirbearID,
		Items:       lines,
		TotalAmount: total,
		Status:      enums.OrderStatusPending,
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, store.Translate(err, "order")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"order_id": order.ID.String(), "total": order.TotalAmount.String()}), "bodega.order_created")
	}
	return order, nil
}

func (s *service) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders, err := s.store.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, store.Translate(err, "order")
	}
	return orders, nil
}
