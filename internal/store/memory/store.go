package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/internal/store"
	"github.com/airbear/airbear-backend/pkg/db/models"
)

// Store is the process-lifetime, map-backed EntityStore. Construct it once
// at startup; every method is safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users    map[uuid.UUID]models.User
	spots    map[uuid.UUID]models.Spot
	vehicles map[uuid.UUID]models.Vehicle
	rides    map[uuid.UUID]models.Ride
	items    map[uuid.UUID]models.BodegaItem
	orders   map[uuid.UUID]models.Order
	payments map[uuid.UUID]models.Payment
}

var _ store.EntityStore = (*Store)(nil)

type Option func(*Store)

// WithClock overrides the time source used for server-side timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		now:      time.Now,
		users:    map[uuid.UUID]models.User{},
		spots:    map[uuid.UUID]models.Spot{},
		vehicles: map[uuid.UUID]models.Vehicle{},
		rides:    map[uuid.UUID]models.Ride{},
		items:    map[uuid.UUID]models.BodegaItem{},
		orders:   map[uuid.UUID]models.Order{},
		payments: map[uuid.UUID]models.Payment{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

func mintID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

func (s *Store) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *cloneUser(u))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return createdBefore(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *Store) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) || existing.Username == user.Username {
			return nil, store.ErrConflict
		}
	}

	record := *cloneUser(*user)
	record.ID = mintID(record.ID)
	if _, taken := s.users[record.ID]; taken {
		return nil, store.ErrConflict
	}
	now := s.stamp()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	s.users[record.ID] = record
	return cloneUser(record), nil
}

func (s *Store) UpdateUser(_ context.Context, id uuid.UUID, patch store.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	patch.Apply(&record)
	record.UpdatedAt = s.stamp()
	s.users[id] = record
	return cloneUser(record), nil
}

func (s *Store) GetSpot(_ context.Context, id uuid.UUID) (*models.Spot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	spot, ok := s.spots[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &spot, nil
}

func (s *Store) ListSpots(_ context.Context) ([]models.Spot, error) {
	s.mu.RLock()
	out := make([]models.Spot, 0, len(s.spots))
	for _, spot := range s.spots {
		out = append(out, spot)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Store) CreateSpot(_ context.Context, spot *models.Spot) (*models.Spot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := *spot
	record.ID = mintID(record.ID)
	if _, taken := s.spots[record.ID]; taken {
		return nil, store.ErrConflict
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.stamp()
	}
	s.spots[record.ID] = record
	return &record, nil
}

func (s *Store) GetVehicle(_ context.Context, id uuid.UUID) (*models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vehicles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneVehicle(v), nil
}

func (s *Store) ListVehicles(_ context.Context) ([]models.Vehicle, error) {
	return s.listVehicles(func(models.Vehicle) bool { return true }), nil
}

func (s *Store) ListAvailableVehicles(_ context.Context) ([]models.Vehicle, error) {
	return s.listVehicles(models.Vehicle.Ready), nil
}

func (s *Store) listVehicles(keep func(models.Vehicle) bool) []models.Vehicle {
	s.mu.RLock()
	out := make([]models.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		if keep(v) {
			out = append(out, *cloneVehicle(v))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return createdBefore(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out
}

func (s *Store) CreateVehicle(_ context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := *cloneVehicle(*vehicle)
	record.ID = mintID(record.ID)
	if _, taken := s.vehicles[record.ID]; taken {
		return nil, store.ErrConflict
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.stamp()
	}
	s.vehicles[record.ID] = record
	return cloneVehicle(record), nil
}

func (s *Store) UpdateVehicle(_ context.Context, id uuid.UUID, patch store.VehiclePatch) (*models.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.vehicles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	patch.Apply(&record)
	s.vehicles[id] = record
	return cloneVehicle(record), nil
}

func (s *Store) GetRide(_ context.Context, id uuid.UUID) (*models.Ride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rides[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneRide(r), nil
}

func (s *Store) ListRides(_ context.Context) ([]models.Ride, error) {
	return s.listRides(func(models.Ride) bool { return true }), nil
}

func (s *Store) ListRidesByUser(_ context.Context, userID uuid.UUID) ([]models.Ride, error) {
	return s.listRides(func(r models.Ride) bool { return r.UserID == userID }), nil
}

func (s *Store) ListRidesByUserAndDate(_ context.Context, userID uuid.UUID, date time.Time) ([]models.Ride, error) {
	start, end := store.DayBounds(date)
	return s.listRides(func(r models.Ride) bool {
		requested := r.RequestedAt.UTC()
		return r.UserID == userID && !requested.Before(start) && requested.Before(end)
	}), nil
}

// listRides returns matches newest first.
func (s *Store) listRides(keep func(models.Ride) bool) []models.Ride {
	s.mu.RLock()
	out := make([]models.Ride, 0)
	for _, r := range s.rides {
		if keep(r) {
			out = append(out, *cloneRide(r))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return createdBefore(out[j].RequestedAt, out[i].RequestedAt, out[j].ID, out[i].ID)
	})
	return out
}

func (s *Store) CreateRide(_ context.Context, ride *models.Ride) (*models.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := *cloneRide(*ride)
	record.ID = mintID(record.ID)
	if _, taken := s.rides[record.ID]; taken {
		return nil, store.ErrConflict
	}
	if record.RequestedAt.IsZero() {
		record.RequestedAt = s.stamp()
	}
	s.rides[record.ID] = record
	return cloneRide(record), nil
}

func (s *Store) UpdateRide(_ context.Context, id uuid.UUID, patch store.RidePatch) (*models.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.rides[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	patch.Apply(&record)
	s.rides[id] = record
	return cloneRide(record), nil
}

func (s *Store) GetBodegaItem(_ context.Context, id uuid.UUID) (*models.BodegaItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneBodegaItem(item), nil
}

func (s *Store) ListBodegaItems(_ context.Context, category string) ([]models.BodegaItem, error) {
	s.mu.RLock()
	out := make([]models.BodegaItem, 0, len(s.items))
	for _, item := range s.items {
		if category == "" || item.Category == category {
			out = append(out, *cloneBodegaItem(item))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Store) CreateBodegaItem(_ context.Context, item *models.BodegaItem) (*models.BodegaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := *cloneBodegaItem(*item)
	record.ID = mintID(record.ID)
	if _, taken := s.items[record.ID]; taken {
		return nil, store.ErrConflict
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.stamp()
	}
	s.items[record.ID] = record
	return cloneBodegaItem(record), nil
}

func (s *Store) GetOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (s *Store) ListOrders(_ context.Context) ([]models.Order, error) {
	return s.listOrders(func(models.Order) bool { return true }), nil
}

func (s *Store) ListOrdersByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.listOrders(func(o models.Order) bool { return o.UserID == userID }), nil
}

// listOrders returns matches newest first.
func (s *Store) listOrders(keep func(models.Order) bool) []models.Order {
	s.mu.RLock()
	out := make([]models.Order, 0)
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, *cloneOrder(o))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return createdBefore(out[j].CreatedAt, out[i].CreatedAt, out[j].ID, out[i].ID)
	})
	return out
}

func (s *Store) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := *cloneOrder(*order)
	record.ID = mintID(record.ID)
	if _, taken := s.orders[record.ID]; taken {
		return nil, store.ErrConflict
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.stamp()
	}
	s.orders[record.ID] = record
	return cloneOrder(record), nil
}

func (s *Store) UpdateOrder(_ context.Context, id uuid.UUID, patch store.OrderPatch) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	patch.Apply(&record)
	s.orders[id] = record
	return cloneOrder(record), nil
}

func (s *Store) GetPayment(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return clonePayment(p), nil
}

func (s *Store) GetPaymentByExternalRef(_ context.Context, ref string) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.payments {
		if p.ExternalPaymentRef != nil && *p.ExternalPaymentRef == ref {
			return clonePayment(p), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListPayments(_ context.Context) ([]models.Payment, error) {
	s.mu.RLock()
	out := make([]models.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		out = append(out, *clonePayment(p))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return createdBefore(out[j].CreatedAt, out[i].CreatedAt, out[j].ID, out[i].ID)
	})
	return out, nil
}

func (s *Store) CreatePayment(_ context.Context, payment *models.Payment) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := *clonePayment(*payment)
	record.ID = mintID(record.ID)
	if _, taken := s.payments[record.ID]; taken {
		return nil, store.ErrConflict
	}
	if record.ExternalPaymentRef != nil {
		for _, p := range s.payments {
			if p.ExternalPaymentRef != nil && *p.ExternalPaymentRef == *record.ExternalPaymentRef {
				return nil, store.ErrConflict
			}
		}
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.stamp()
	}
	s.payments[record.ID] = record
	return clonePayment(record), nil
}

func (s *Store) UpdatePayment(_ context.Context, id uuid.UUID, patch store.PaymentPatch) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.payments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	patch.Apply(&record)
	s.payments[id] = record
	return clonePayment(record), nil
}

func createdBefore(a, b time.Time, idA, idB uuid.UUID) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return idA.String() < idB.String()
}
