package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airbear/airbear-backend/internal/store/memory"
	"github.com/airbear/airbear-backend/internal/store/seed"
	"github.com/airbear/airbear-backend/pkg/db/models"
	"github.com/airbear/airbear-backend/pkg/enums"
	pkgerrors "github.com/airbear/airbear-backend/pkg/errors"
	"github.com/airbear/airbear-backend/pkg/types"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 12, 0, 0, 0, time.UTC)
}

func dec(t *testing.T, raw string) types.Decimal {
	t.Helper()
	v, err := types.ParseDecimal(raw)
	require.NoError(t, err)
	return v
}

func decPtr(t *testing.T, raw string) *types.Decimal {
	v := dec(t, raw)
	return &v
}

func populated(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, seed.Load(ctx, st))

	rider, err := st.CreateUser(ctx, &models.User{Email: "a@psu.edu", Username: "a", Role: enums.UserRoleUser})
	require.NoError(t, err)
	_, err = st.CreateUser(ctx, &models.User{Email: "d@psu.edu", Username: "d", Role: enums.UserRoleDriver})
	require.NoError(t, err)

	rides := []models.Ride{
		{Status: enums.RideStatusCompleted, CO2Saved: decPtr(t, "0.33"), RequestedAt: day(1)},
		{Status: enums.RideStatusCompleted, CO2Saved: decPtr(t, "0.50"), RequestedAt: day(2)},
		{Status: enums.RideStatusPending, CO2Saved: decPtr(t, "9.99"), RequestedAt: day(2)},
		{Status: enums.RideStatusCancelled, RequestedAt: day(5)},
	}
	for _, r := range rides {
		r.UserID = rider.ID
		r.PickupSpotID = seed.ID("spot", "hub")
		r.DestinationSpotID = seed.ID("spot", "beaver")
		r.Fare = dec(t, "7.18")
		_, err := st.CreateRide(ctx, &r)
		require.NoError(t, err)
	}

	_, err = st.CreateOrder(ctx, &models.Order{UserID: rider.ID, TotalAmount: dec(t, "2.50"), Status: enums.OrderStatusPending, CreatedAt: day(1)})
	require.NoError(t, err)

	payments := []models.Payment{
		{Amount: dec(t, "7.18"), Status: enums.PaymentStatusCompleted, PaymentMethod: enums.PaymentMethodCash, CreatedAt: day(1)},
		{Amount: dec(t, "2.50"), Status: enums.PaymentStatusCompleted, PaymentMethod: enums.PaymentMethodCard, CreatedAt: day(5)},
		{Amount: dec(t, "100.00"), Status: enums.PaymentStatusFailed, PaymentMethod: enums.PaymentMethodCard, CreatedAt: day(2)},
	}
	for _, p := range payments {
		p.UserID = rider.ID
		p.Currency = "usd"
		_, err := st.CreatePayment(ctx, &p)
		require.NoError(t, err)
	}
	return st
}

func TestOverviewAggregatesEverything(t *testing.T) {
	svc, err := NewService(populated(t))
	require.NoError(t, err)

	got, err := svc.Overview(context.Background(), OverviewRequest{})
	require.NoError(t, err)

	assert.Equal(t, 2, got.TotalUsers)
	assert.Equal(t, 1, got.TotalDrivers)
	assert.Equal(t, 4, got.TotalRides)
	assert.Equal(t, map[string]int{"completed": 2, "pending": 1, "cancelled": 1}, got.RidesByStatus)
	assert.Equal(t, 2, got.ActiveVehicles)
	assert.Equal(t, 2, got.ChargingVehicles)
	assert.Equal(t, 1, got.TotalOrders)
	assert.Equal(t, "9.68", got.CompletedRevenue.String())
	assert.Equal(t, "0.83", got.TotalCO2Saved.String())
	assert.Equal(t, []TimeSeriesPoint{
		{Date: "2025-06-01", Value: 1},
		{Date: "2025-06-02", Value: 2},
		{Date: "2025-06-05", Value: 1},
	}, got.RidesPerDay)
}

func TestOverviewHonorsWindow(t *testing.T) {
	svc, err := NewService(populated(t))
	require.NoError(t, err)

	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	got, err := svc.Overview(context.Background(), OverviewRequest{Start: &start, End: &end})
	require.NoError(t, err)

	assert.Equal(t, 2, got.TotalRides)
	assert.Equal(t, 0, got.TotalOrders)
	assert.Equal(t, "0.00", got.CompletedRevenue.String())
	assert.Equal(t, "0.50", got.TotalCO2Saved.String())
	assert.Equal(t, 2, got.TotalUsers)
}

func TestOverviewRejectsInvertedWindow(t *testing.T) {
	svc, err := NewService(memory.New())
	require.NoError(t, err)

	start := day(5)
	end := day(1)
	_, err = svc.Overview(context.Background(), OverviewRequest{Start: &start, End: &end})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
