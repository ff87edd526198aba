package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/db/models"
)

var (
	// ErrNotFound is returned when the requested id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique key (email, username) is taken.
	ErrConflict = errors.New("record conflicts with an existing one")
)

// EntityStore owns every persisted record. The in-memory and relational
// implementations behave identically; callers never branch on which is active.
type EntityStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, patch UserPatch) (*models.User, error)

	GetSpot(ctx context.Context, id uuid.UUID) (*models.Spot, error)
	ListSpots(ctx context.Context) ([]models.Spot, error)
	CreateSpot(ctx context.Context, spot *models.Spot) (*models.Spot, error)

	GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
	// ListAvailableVehicles returns vehicles that are available and not charging.
	ListAvailableVehicles(ctx context.Context) ([]models.Vehicle, error)
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id uuid.UUID, patch VehiclePatch) (*models.Vehicle, error)

	GetRide(ctx context.Context, id uuid.UUID) (*models.Ride, error)
	ListRides(ctx context.Context) ([]models.Ride, error)
	ListRidesByUser(ctx context.Context, userID uuid.UUID) ([]models.Ride, error)
	// ListRidesByUserAndDate filters on the UTC calendar date of requestedAt.
	ListRidesByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]models.Ride, error)
	CreateRide(ctx context.Context, ride *models.Ride) (*models.Ride, error)
	UpdateRide(ctx context.Context, id uuid.UUID, patch RidePatch) (*models.Ride, error)

	GetBodegaItem(ctx context.Context, id uuid.UUID) (*models.BodegaItem, error)
	// ListBodegaItems filters by category when category is non-empty.
	ListBodegaItems(ctx context.Context, category string) ([]models.BodegaItem, error)
	CreateBodegaItem(ctx context.Context, item *models.BodegaItem) (*models.BodegaItem, error)

	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, patch OrderPatch) (*models.Order, error)

	GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	GetPaymentByExternalRef(ctx context.Context, ref string) (*models.Payment, error)
	ListPayments(ctx context.Context) ([]models.Payment, error)
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, patch PaymentPatch) (*models.Payment, error)
}

// DayBounds returns the UTC [start, end) window for the calendar date of t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
