package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airbear/airbear-backend/internal/store"
	"github.com/airbear/airbear-backend/internal/store/storetest"
	"github.com/airbear/airbear-backend/pkg/db/models"
	"github.com/airbear/airbear-backend/pkg/enums"
)

func TestMemoryStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, clock *storetest.Clock) store.EntityStore {
		return New(WithClock(clock.Now))
	})
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	st := New()
	name := "Original"
	u, err := st.CreateUser(ctx, &models.User{Email: "a@example.com", Username: "a", FullName: &name, Role: enums.UserRoleUser})
	require.NoError(t, err)

	*u.FullName = "Mutated"
	u.EcoPoints = 99

	again, err := st.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", *again.FullName)
	assert.Zero(t, again.EcoPoints)
}

func TestConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	st := New()
	v, err := st.CreateVehicle(ctx, &models.Vehicle{BatteryLevel: 100, IsAvailable: true, MaintenanceStatus: enums.MaintenanceStatusGood})
	require.NoError(t, err)

	done := make(chan struct{})
	for i := 0; i < 20; i++ {
		go func(level int) {
			defer func() { done <- struct{}{} }()
			_, _ = st.UpdateVehicle(ctx, v.ID, store.VehiclePatch{BatteryLevel: &level})
			_, _ = st.ListAvailableVehicles(ctx)
		}(i)
	}
	for i := 0; i < 20; i++ {
		<-done
	}

	got, err := st.GetVehicle(ctx, v.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.BatteryLevel, 0)
	assert.Less(t, got.BatteryLevel, 20)
}
