// Package storetest holds the behavioral contract every EntityStore
// implementation must satisfy.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airbear/airbear-backend/internal/store"
	"github.com/airbear/airbear-backend/internal/store/seed"
	"github.com/airbear/airbear-backend/pkg/db/models"
	"github.com/airbear/airbear-backend/pkg/enums"
	"github.com/airbear/airbear-backend/pkg/types"
)

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Factory builds an empty store that stamps records with clock.Now.
type Factory func(t *testing.T, clock *Clock) store.EntityStore

// Run executes the contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := map[string]func(t *testing.T, st store.EntityStore, clock *Clock){
		"users":                testUsers,
		"update missing ids":   testUpdateMissing,
		"available vehicles":   testAvailableVehicles,
		"vehicle patch":        testVehiclePatch,
		"rides":                testRides,
		"rides by date":        testRidesByDate,
		"bodega categories":    testBodegaCategories,
		"orders":               testOrders,
		"payments":             testPayments,
		"seed is idempotent":   testSeedIdempotent,
		"spots sorted by name": testSpots,
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			clock := NewClock(time.Date(2025, time.March, 14, 15, 0, 0, 0, time.UTC))
			fn(t, newStore(t, clock), clock)
		})
	}
}

func mustUser(t *testing.T, st store.EntityStore, email, username string) *models.User {
	t.Helper()
	u, err := st.CreateUser(context.Background(), &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: "hash",
		Role:         enums.UserRoleUser,
	})
	require.NoError(t, err)
	return u
}

func mustSpot(t *testing.T, st store.EntityStore, name string) *models.Spot {
	t.Helper()
	spot, err := st.CreateSpot(context.Background(), &models.Spot{
		Name:      name,
		Latitude:  types.CoordinateFromFloat(40.79),
		Longitude: types.CoordinateFromFloat(-77.86),
		IsActive:  true,
	})
	require.NoError(t, err)
	return spot
}

func money(t *testing.T, raw string) types.Decimal {
	t.Helper()
	d, err := types.ParseDecimal(raw)
	require.NoError(t, err)
	return d
}

func testUsers(t *testing.T, st store.EntityStore, clock *Clock) {
	ctx := context.Background()
	created := mustUser(t, st, "rider@example.com", "rider")
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.CreatedAt.Equal(clock.Now()))

	got, err := st.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "rider", got.Username)
	assert.Equal(t, "0.00", got.CO2Saved.String())

	byEmail, err := st.GetUserByEmail(ctx, "RIDER@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = st.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.CreateUser(ctx, &models.User{Email: "rider@example.com", Username: "other", Role: enums.UserRoleUser})
	assert.ErrorIs(t, err, store.ErrConflict)
	_, err = st.CreateUser(ctx, &models.User{Email: "other@example.com", Username: "rider", Role: enums.UserRoleUser})
	assert.ErrorIs(t, err, store.ErrConflict)

	users, err := st.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	external := uuid.New()
	minted, err := st.CreateUser(ctx, &models.User{ID: external, Email: "ext@example.com", Username: "ext", Role: enums.UserRoleDriver})
	require.NoError(t, err)
	assert.Equal(t, external, minted.ID)

	clock.Advance(time.Minute)
	unchanged, err := st.UpdateUser(ctx, created.ID, store.UserPatch{})
	require.NoError(t, err)
	assert.Equal(t, created.Email, unchanged.Email)
	assert.Equal(t, created.EcoPoints, unchanged.EcoPoints)
	assert.Equal(t, created.HasCeoTshirt, unchanged.HasCeoTshirt)
	assert.True(t, unchanged.UpdatedAt.Equal(clock.Now()))

	rides := 3
	flag := true
	purchased := clock.Now()
	co2 := money(t, "1.26")
	updated, err := st.UpdateUser(ctx, created.ID, store.UserPatch{
		TotalRides:         &rides,
		HasCeoTshirt:       &flag,
		TshirtPurchaseDate: &purchased,
		CO2Saved:           &co2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.TotalRides)
	assert.True(t, updated.HasCeoTshirt)
	require.NotNil(t, updated.TshirtPurchaseDate)
	assert.Equal(t, "1.26", updated.CO2Saved.String())
}

func testUpdateMissing(t *testing.T, st store.EntityStore, _ *Clock) {
	ctx := context.Background()
	missing := uuid.New()

	_, err := st.UpdateUser(ctx, missing, store.UserPatch{})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.UpdateVehicle(ctx, missing, store.VehiclePatch{})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.UpdateRide(ctx, missing, store.RidePatch{})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.UpdateOrder(ctx, missing, store.OrderPatch{})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.UpdatePayment(ctx, missing, store.PaymentPatch{})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.GetRide(ctx, missing)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.GetSpot(ctx, missing)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.GetBodegaItem(ctx, missing)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.GetOrder(ctx, missing)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.GetPayment(ctx, missing)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testAvailableVehicles(t *testing.T, st store.EntityStore, clock *Clock) {
	ctx := context.Background()
	var wantID uuid.UUID
	for _, combo := range []struct{ available, charging bool }{
		{true, false}, {true, true}, {false, false}, {false, true},
	} {
		v, err := st.CreateVehicle(ctx, &models.Vehicle{
			BatteryLevel:      80,
			IsAvailable:       combo.available,
			IsCharging:        combo.charging,
			MaintenanceStatus: enums.MaintenanceStatusGood,
		})
		require.NoError(t, err)
		if combo.available && !combo.charging {
			wantID = v.ID
		}
		clock.Advance(time.Second)
	}

	all, err := st.ListVehicles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	available, err := st.ListAvailableVehicles(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, wantID, available[0].ID)
}

func testVehiclePatch(t *testing.T, st store.EntityStore, _ *Clock) {
	ctx := context.Background()
	spot := mustSpot(t, st, "Hub")
	v, err := st.CreateVehicle(ctx, &models.Vehicle{
		BatteryLevel:      50,
		IsAvailable:       true,
		TotalDistance:     money(t, "10.00"),
		MaintenanceStatus: enums.MaintenanceStatusGood,
	})
	require.NoError(t, err)

	same, err := st.UpdateVehicle(ctx, v.ID, store.VehiclePatch{})
	require.NoError(t, err)
	assert.Equal(t, v.BatteryLevel, same.BatteryLevel)
	assert.Equal(t, v.IsAvailable, same.IsAvailable)
	assert.Equal(t, "10.00", same.TotalDistance.String())
	assert.Nil(t, same.CurrentSpotID)

	battery := 15
	charging := true
	updated, err := st.UpdateVehicle(ctx, v.ID, store.VehiclePatch{
		BatteryLevel:  &battery,
		IsCharging:    &charging,
		CurrentSpotID: &spot.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, updated.BatteryLevel)
	assert.True(t, updated.IsCharging)
	require.NotNil(t, updated.CurrentSpotID)
	assert.Equal(t, spot.ID, *updated.CurrentSpotID)
	assert.True(t, updated.IsAvailable)
}

func testRides(t *testing.T, st store.EntityStore, clock *Clock) {
	ctx := context.Background()
	user := mustUser(t, st, "r@example.com", "r")
	a := mustSpot(t, st, "A")
	b := mustSpot(t, st, "B")

	first, err := st.CreateRide(ctx, &models.Ride{
		UserID:            user.ID,
		PickupSpotID:      a.ID,
		DestinationSpotID: b.ID,
		Status:            enums.RideStatusPending,
		Fare:              money(t, "4.00"),
	})
	require.NoError(t, err)
	assert.True(t, first.RequestedAt.Equal(clock.Now()))
	assert.Nil(t, first.AcceptedAt)

	clock.Advance(time.Minute)
	second, err := st.CreateRide(ctx, &models.Ride{
		UserID:            user.ID,
		PickupSpotID:      b.ID,
		DestinationSpotID: a.ID,
		Status:            enums.RideStatusPending,
		Fare:              money(t, "6.50"),
	})
	require.NoError(t, err)

	rides, err := st.ListRidesByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, rides, 2)
	assert.Equal(t, second.ID, rides[0].ID, "newest first")
	assert.Equal(t, "4.00", rides[1].Fare.String())

	same, err := st.UpdateRide(ctx, first.ID, store.RidePatch{})
	require.NoError(t, err)
	assert.Equal(t, first.Status, same.Status)
	assert.Equal(t, first.Fare.String(), same.Fare.String())
	assert.True(t, first.RequestedAt.Equal(same.RequestedAt))
	assert.Nil(t, same.DriverID)

	status := enums.RideStatusAccepted
	accepted := clock.Now()
	distance := money(t, "1.20")
	updated, err := st.UpdateRide(ctx, first.ID, store.RidePatch{Status: &status, AcceptedAt: &accepted, Distance: &distance})
	require.NoError(t, err)
	assert.Equal(t, enums.RideStatusAccepted, updated.Status)
	require.NotNil(t, updated.AcceptedAt)
	assert.True(t, updated.AcceptedAt.Equal(accepted))
	require.NotNil(t, updated.Distance)
	assert.Equal(t, "1.20", updated.Distance.String())

	all, err := st.ListRides(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func testRidesByDate(t *testing.T, st store.EntityStore, _ *Clock) {
	ctx := context.Background()
	user := mustUser(t, st, "d@example.com", "d")
	other := mustUser(t, st, "o@example.com", "o")
	a := mustSpot(t, st, "A")
	b := mustSpot(t, st, "B")

	day := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	create := func(userID uuid.UUID, at time.Time) uuid.UUID {
		r, err := st.CreateRide(ctx, &models.Ride{
			UserID:            userID,
			PickupSpotID:      a.ID,
			DestinationSpotID: b.ID,
			Status:            enums.RideStatusPending,
			Fare:              money(t, "3.00"),
			RequestedAt:       at,
		})
		require.NoError(t, err)
		return r.ID
	}
	morning := create(user.ID, day.Add(9*time.Hour))
	evening := create(user.ID, day.Add(22*time.Hour))
	create(user.ID, day.Add(-2*time.Hour))
	create(user.ID, day.Add(26*time.Hour))
	create(other.ID, day.Add(10*time.Hour))

	rides, err := st.ListRidesByUserAndDate(ctx, user.ID, day.Add(13*time.Hour))
	require.NoError(t, err)
	require.Len(t, rides, 2)
	assert.Equal(t, evening, rides[0].ID)
	assert.Equal(t, morning, rides[1].ID)

	// A local time late on June 1st in New York is already June 2nd in UTC.
	ny := time.FixedZone("EDT", -4*3600)
	rides, err = st.ListRidesByUserAndDate(ctx, user.ID, time.Date(2025, time.June, 1, 21, 0, 0, 0, ny))
	require.NoError(t, err)
	assert.Len(t, rides, 2)
}

func testBodegaCategories(t *testing.T, st store.EntityStore, _ *Clock) {
	ctx := context.Background()
	for _, item := range []models.BodegaItem{
		{Name: "Water", Price: money(t, "2.50"), Category: "drinks", IsAvailable: true, Stock: 3},
		{Name: "Coffee", Price: money(t, "4.25"), Category: "drinks", IsAvailable: true, Stock: 3},
		{Name: "Chips", Price: money(t, "1.99"), Category: "snacks", IsAvailable: true, Stock: 3},
	} {
		_, err := st.CreateBodegaItem(ctx, &item)
		require.NoError(t, err)
	}

	drinks, err := st.ListBodegaItems(ctx, "drinks")
	require.NoError(t, err)
	require.Len(t, drinks, 2)
	assert.Equal(t, "Coffee", drinks[0].Name)
	assert.Equal(t, "4.25", drinks[0].Price.String())

	all, err := st.ListBodegaItems(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := st.ListBodegaItems(ctx, "electronics")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testOrders(t *testing.T, st store.EntityStore, clock *Clock) {
	ctx := context.Background()
	user := mustUser(t, st, "o@example.com", "o")
	itemID := uuid.New()

	first, err := st.CreateOrder(ctx, &models.Order{
		UserID:      user.ID,
		Items:       []models.OrderItem{{ItemID: itemID, Quantity: 2, Price: money(t, "2.50")}},
		TotalAmount: money(t, "5.00"),
		Status:      enums.OrderStatusPending,
	})
	require.NoError(t, err)
	require.Len(t, first.Items, 1)

	clock.Advance(time.Minute)
	second, err := st.CreateOrder(ctx, &models.Order{
		UserID:      user.ID,
		Items:       []models.OrderItem{},
		TotalAmount: money(t, "0"),
		Status:      enums.OrderStatusPending,
	})
	require.NoError(t, err)

	orders, err := st.ListOrdersByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)

	got, err := st.GetOrder(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, itemID, got.Items[0].ItemID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, "2.50", got.Items[0].Price.String())

	status := enums.OrderStatusCompleted
	updated, err := st.UpdateOrder(ctx, first.ID, store.OrderPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, updated.Status)
	assert.Equal(t, "5.00", updated.TotalAmount.String())
}

func testPayments(t *testing.T, st store.EntityStore, _ *Clock) {
	ctx := context.Background()
	user := mustUser(t, st, "p@example.com", "p")
	ref := "pi_123"

	created, err := st.CreatePayment(ctx, &models.Payment{
		UserID:             user.ID,
		ExternalPaymentRef: &ref,
		Amount:             money(t, "12.00"),
		Currency:           "usd",
		Status:             enums.PaymentStatusPending,
		PaymentMethod:      enums.PaymentMethodCard,
		Metadata:           map[string]string{"source": "app"},
	})
	require.NoError(t, err)

	_, err = st.CreatePayment(ctx, &models.Payment{
		UserID:             user.ID,
		ExternalPaymentRef: &ref,
		Amount:             money(t, "12.00"),
		Currency:           "usd",
		Status:             enums.PaymentStatusCompleted,
		PaymentMethod:      enums.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, store.ErrConflict)

	_, err = st.CreatePayment(ctx, &models.Payment{
		UserID:        user.ID,
		Amount:        money(t, "3.00"),
		Currency:      "usd",
		Status:        enums.PaymentStatusCompleted,
		PaymentMethod: enums.PaymentMethodCash,
	})
	require.NoError(t, err)
	_, err = st.CreatePayment(ctx, &models.Payment{
		UserID:        user.ID,
		Amount:        money(t, "4.00"),
		Currency:      "usd",
		Status:        enums.PaymentStatusCompleted,
		PaymentMethod: enums.PaymentMethodCash,
	})
	require.NoError(t, err)

	found, err := st.GetPaymentByExternalRef(ctx, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = st.GetPaymentByExternalRef(ctx, "pi_missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	status := enums.PaymentStatusCompleted
	updated, err := st.UpdatePayment(ctx, created.ID, store.PaymentPatch{
		Status:   &status,
		Metadata: map[string]string{"chargeId": "ch_1"},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusCompleted, updated.Status)
	assert.Equal(t, map[string]string{"source": "app", "chargeId": "ch_1"}, updated.Metadata)

	payments, err := st.ListPayments(ctx)
	require.NoError(t, err)
	assert.Len(t, payments, 3)
}

func testSeedIdempotent(t *testing.T, st store.EntityStore, _ *Clock) {
	ctx := context.Background()
	require.NoError(t, seed.Load(ctx, st))
	require.NoError(t, seed.Load(ctx, st))

	spots, err := st.ListSpots(ctx)
	require.NoError(t, err)
	assert.Len(t, spots, len(seed.Spots()))

	vehicles, err := st.ListVehicles(ctx)
	require.NoError(t, err)
	assert.Len(t, vehicles, len(seed.Vehicles()))

	available, err := st.ListAvailableVehicles(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, seed.ID("airbear", "1"), available[0].ID)

	items, err := st.ListBodegaItems(ctx, "")
	require.NoError(t, err)
	assert.Len(t, items, len(seed.BodegaItems()))
}

func testSpots(t *testing.T, st store.EntityStore, _ *Clock) {
	ctx := context.Background()
	mustSpot(t, st, "Zeta")
	alpha := mustSpot(t, st, "Alpha")

	spots, err := st.ListSpots(ctx)
	require.NoError(t, err)
	require.Len(t, spots, 2)
	assert.Equal(t, alpha.ID, spots[0].ID)
	assert.Equal(t, "40.7900000", spots[0].Latitude.String())

	got, err := st.GetSpot(ctx, alpha.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Name)
}
