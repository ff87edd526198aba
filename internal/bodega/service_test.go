package bodega

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airbear/airbear-backend/internal/store/memory"
	"github.com/airbear/airbear-backend/internal/store/seed"
	"github.com/airbear/airbear-backend/pkg/db/models"
	"github.com/airbear/airbear-backend/pkg/enums"
	pkgerrors "github.com/airbear/airbear-backend/pkg/errors"
	"github.com/airbear/airbear-backend/pkg/types"
)

var (
	water    = seed.ID("item", "water")
	coldBrew = seed.ID("item", "cold-brew")
	charger  = seed.ID("item", "phone-charger")
)

func newTestService(t *testing.T) (Service, *memory.Store, *models.User) {
	t.Helper()
	st := memory.New()
	require.NoError(t, seed.Load(context.Background(), st))
	user, err := st.CreateUser(context.Background(), &models.User{
		Email:    "snacker@psu.edu",
		Username: "snacker",
		Role:     enums.UserRoleUser,
	})
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{Store: st})
	require.NoError(t, err)
	return svc, st, user
}

func TestListItemsFiltersByCategory(t *testing.T) {
	svc, _, _ := newTestService(t)

	all, err := svc.ListItems(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, len(seed.BodegaItems()))

	drinks, err := svc.ListItems(context.Background(), " drinks ")
	require.NoError(t, err)
	require.Len(t, drinks, 2)
	for _, item := range drinks {
		assert.Equal(t, "drinks", item.Category)
	}

	none, err := svc.ListItems(context.Background(), "furniture")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateOrderSumsCatalogPrices(t *testing.T) {
	svc, _, user := newTestService(t)

	order, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID: user.ID,
		Items: []OrderLine{
			{ItemID: water, Quantity: 2},
			{ItemID: coldBrew, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, "9.25", order.TotalAmount.String())
	require.Len(t, order.Items, 2)
	assert.Equal(t, "2.50", order.Items[0].Price.String())
	assert.NotEqual(t, uuid.Nil, order.ID)

	orders, err := svc.ListOrdersByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestCreateOrderKeepsExplicitTotal(t *testing.T) {
	svc, _, user := newTestService(t)
	total, err := types.ParseDecimal("5")
	require.NoError(t, err)

	order, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:      user.ID,
		Items:       []OrderLine{{ItemID: water, Quantity: 1}},
		TotalAmount: &total,
	})
	require.NoError(t, err)
	assert.Equal(t, "5.00", order.TotalAmount.String())
}

func TestCreateOrderRejectsUnavailableAndMissingItems(t *testing.T) {
	svc, _, user := newTestService(t)

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID: user.ID,
		Items:  []OrderLine{{ItemID: charger, Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details["items[0]"], "unavailable")

	_, err = svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID: user.ID,
		Items:  []OrderLine{{ItemID: water, Quantity: 500}},
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID: user.ID,
		Items:  []OrderLine{{ItemID: uuid.New(), Quantity: 1}},
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID: uuid.New(),
		Items:  []OrderLine{{ItemID: water, Quantity: 1}},
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateOrderChecksOptionalReferences(t *testing.T) {
	svc, _, user := newTestService(t)
	missing := uuid.New()

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID: user.ID,
		RideID: &missing,
		Items:  []OrderLine{{ItemID: water, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, "ride not found", pkgerrors.As(err).Message())

	airbear := seed.ID("airbear", "1")
	order, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:    user.ID,
		AirbearID: &airbear,
		Items:     []OrderLine{{ItemID: water, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, order.AirbearID)
	assert.Equal(t, airbear, *order.AirbearID)
}

func TestCreateOrderRequestFlagsDuplicateLines(t *testing.T) {
	req := CreateOrderRequest{Items: []OrderLine{
		{ItemID: water, Quantity: 1},
		{ItemID: coldBrew, Quantity: 1},
		{ItemID: water, Quantity: 3},
	}}
	assert.Equal(t, map[string]string{"items[2].itemId": "duplicates items[0]"}, req.CheckFields())

	req.Items = req.Items[:2]
	assert.Nil(t, req.CheckFields())
}

func TestNewServiceRequiresStore(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.Error(t, err)
}
