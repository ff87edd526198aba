package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/airbear/airbear-backend/internal/store"
	"github.com/airbear/airbear-backend/pkg/db"
	"github.com/airbear/airbear-backend/pkg/db/models"
)

// Store is the relational EntityStore backed by GORM (Postgres or SQLite).
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

var _ store.EntityStore = (*Store)(nil)

func New(conn *gorm.DB) *Store {
	return &Store{db: conn, now: time.Now}
}

// WithClock returns a copy of the store using now for server-side timestamps,
// including the ones GORM stamps on save.
func (s *Store) WithClock(now func() time.Time) *Store {
	utc := func() time.Time { return now().UTC() }
	return &Store{db: s.db.Session(&gorm.Session{NowFunc: utc}), now: now}
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case db.IsUniqueViolation(err, ""):
		return store.ErrConflict
	default:
		return err
	}
}

func first[T any](ctx context.Context, conn *gorm.DB, query string, args ...any) (*T, error) {
	var out T
	if err := conn.WithContext(ctx).Where(query, args...).First(&out).Error; err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func list[T any](ctx context.Context, conn *gorm.DB, order string, query string, args ...any) ([]T, error) {
	out := make([]T, 0)
	tx := conn.WithContext(ctx).Order(order)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	if err := tx.Find(&out).Error; err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func create[T any](ctx context.Context, conn *gorm.DB, record *T) (*T, error) {
	if err := conn.WithContext(ctx).Create(record).Error; err != nil {
		return nil, mapErr(err)
	}
	return record, nil
}

// update loads the row, merges the patch and saves every column back.
func update[T any](ctx context.Context, conn *gorm.DB, id uuid.UUID, apply func(*T)) (*T, error) {
	record, err := first[T](ctx, conn, "id = ?", id)
	if err != nil {
		return nil, err
	}
	apply(record)
	if err := conn.WithContext(ctx).Save(record).Error; err != nil {
		return nil, mapErr(err)
	}
	return record, nil
}

func mintID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

const (
	orderOldestFirst = "created_at ASC, id ASC"
	orderNewestFirst = "created_at DESC, id DESC"
	orderByName      = "name ASC, id ASC"
	orderRides       = "requested_at DESC, id DESC"
)

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return first[models.User](ctx, s.db, "id = ?", id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return first[models.User](ctx, s.db, "LOWER(email) = LOWER(?)", email)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return first[models.User](ctx, s.db, "username = ?", username)
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	return list[models.User](ctx, s.db, orderOldestFirst, "")
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	record := *user
	record.ID = mintID(record.ID)
	now := s.stamp()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	return create(ctx, s.db, &record)
}

func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, patch store.UserPatch) (*models.User, error) {
	return update(ctx, s.db, id, func(u *models.User) {
		patch.Apply(u)
		u.UpdatedAt = s.stamp()
	})
}

func (s *Store) GetSpot(ctx context.Context, id uuid.UUID) (*models.Spot, error) {
	return first[models.Spot](ctx, s.db, "id = ?", id)
}

func (s *Store) ListSpots(ctx context.Context) ([]models.Spot, error) {
	return list[models.Spot](ctx, s.db, orderByName, "")
}

func (s *Store) CreateSpot(ctx context.Context, spot *models.Spot) (*models.Spot, error) {
	record := *spot
	record.ID = mintID(record.ID)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.stamp()
	}
	return create(ctx, s.db, &record)
}

func (s *Store) GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	return first[models.Vehicle](ctx, s.db, "id = ?", id)
}

func (s *Store) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return list[models.Vehicle](ctx, s.db, orderOldestFirst, "")
}

func (s *Store) ListAvailableVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return list[models.Vehicle](ctx, s.db, orderOldestFirst, "is_available = ? AND is_charging = ?", true, false)
}

func (s *Store) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	record := *vehicle
	record.ID = mintID(record.ID)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.stamp()
	}
	return create(ctx, s.db, &record)
}

func (s *Store) UpdateVehicle(ctx context.Context, id uuid.UUID, patch store.VehiclePatch) (*models.Vehicle, error) {
	return update(ctx, s.db, id, patch.Apply)
}

func (s *Store) GetRide(ctx context.Context, id uuid.UUID) (*models.Ride, error) {
	return first[models.Ride](ctx, s.db, "id = ?", id)
}

func (s *Store) ListRides(ctx context.Context) ([]models.Ride, error) {
	return list[models.Ride](ctx, s.db, orderRides, "")
}

func (s *Store) ListRidesByUser(ctx context.Context, userID uuid.UUID) ([]models.Ride, error) {
	return list[models.Ride](ctx, s.db, orderRides, "user_id = ?", userID)
}

func (s *Store) ListRidesByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]models.Ride, error) {
	start, end := store.DayBounds(date)
	return list[models.Ride](ctx, s.db, orderRides,
		"user_id = ? AND requested_at >= ? AND requested_at < ?", userID, start, end)
}

func (s *Store) CreateRide(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	record := *ride
	record.ID = mintID(record.ID)
	if record.RequestedAt.IsZero() {
		record.RequestedAt = s.stamp()
	}
	return create(ctx, s.db, &record)
}

func (s *Store) UpdateRide(ctx context.Context, id uuid.UUID, patch store.RidePatch) (*models.Ride, error) {
	return update(ctx, s.db, id, patch.Apply)
}

func (s *Store) GetBodegaItem(ctx context.Context, id uuid.UUID) (*models.BodegaItem, error) {
	return first[models.BodegaItem](ctx, s.db, "id = ?", id)
}

func (s *Store) ListBodegaItems(ctx context.Context, category string) ([]models.BodegaItem, error) {
	if category == "" {
		return list[models.BodegaItem](ctx, s.db, orderByName, "")
	}
	return list[models.BodegaItem](ctx, s.db, orderByName, "category = ?", category)
}

func (s *Store) CreateBodegaItem(ctx context.Context, item *models.BodegaItem) (*models.BodegaItem, error) {
	record := *item
	record.ID = mintID(record.ID)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.stamp()
	}
	return create(ctx, s.db, &record)
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return first[models.Order](ctx, s.db, "id = ?", id)
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	return list[models.Order](ctx, s.db, orderNewestFirst, "")
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return list[models.Order](ctx, s.db, orderNewestFirst, "user_id = ?", userID)
}

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	record := *order
	record.ID = mintID(record.ID)
	if record.Items == nil {
		record.Items = []models.OrderItem{}
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.stamp()
	}
	return create(ctx, s.db, &record)
}

func (s *Store) UpdateOrder(ctx context.Context, id uuid.UUID, patch store.OrderPatch) (*models.Order, error) {
	return update(ctx, s.db, id, patch.Apply)
}

func (s *Store) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return first[models.Payment](ctx, s.db, "id = ?", id)
}

func (s *Store) GetPaymentByExternalRef(ctx context.Context, ref string) (*models.Payment, error) {
	return first[models.Payment](ctx, s.db, "external_payment_ref = ?", ref)
}

func (s *Store) ListPayments(ctx context.Context) ([]models.Payment, error) {
	return list[models.Payment](ctx, s.db, orderNewestFirst, "")
}

func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	record := *payment
	record.ID = mintID(record.ID)
	if record.Metadata == nil {
		record.Metadata = map[string]string{}
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.stamp()
	}
	return create(ctx, s.db, &record)
}

func (s *Store) UpdatePayment(ctx context.Context, id uuid.UUID, patch store.PaymentPatch) (*models.Payment, error) {
	return update(ctx, s.db, id, patch.Apply)
}
