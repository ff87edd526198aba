package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole("driver")
	require.NoError(t, err)
	assert.Equal(t, UserRoleDriver, role)

	_, err = ParseUserRole("owner")
	assert.Error(t, err)
}

func TestRideStatusTransitions(t *testing.T) {
	tests := []struct {
		from RideStatus
		to   RideStatus
		ok   bool
	}{
		{RideStatusPending, RideStatusAccepted, true},
		{RideStatusPending, RideStatusCancelled, true},
		{RideStatusPending, RideStatusCompleted, false},
		{RideStatusAccepted, RideStatusInProgress, true},
		{RideStatusInProgress, RideStatusCompleted, true},
		{RideStatusInProgress, RideStatusPending, false},
		{RideStatusCompleted, RideStatusCancelled, false},
		{RideStatusCancelled, RideStatusPending, false},
		{RideStatusCompleted, RideStatusCompleted, true},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to))
		})
	}
	assert.True(t, RideStatusCancelled.IsTerminal())
	assert.False(t, RideStatusAccepted.IsTerminal())
}

func TestPaymentMethodUsesGateway(t *testing.T) {
	assert.True(t, PaymentMethodCard.UsesGateway())
	assert.True(t, PaymentMethodApplePay.UsesGateway())
	assert.False(t, PaymentMethodCash.UsesGateway())

	_, err := ParsePaymentMethod("ach")
	assert.Error(t, err)
}

func TestStatusEnumsValidate(t *testing.T) {
	assert.True(t, OrderStatusConfirmed.IsValid())
	assert.False(t, OrderStatus("shipped").IsValid())
	assert.True(t, PaymentStatusRefunded.IsValid())
	assert.False(t, PaymentStatus("paid").IsValid())
	assert.True(t, MaintenanceStatusNeedsService.IsValid())
	_, err := ParseMaintenanceStatus("broken")
	assert.Error(t, err)
}
