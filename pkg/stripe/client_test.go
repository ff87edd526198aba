package stripe

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"

	"github.com/airbear/airbear-backend/pkg/config"
)

func TestNewClientValidatesConfig(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(ctx, config.StripeConfig{Secret: "whsec_1"}, nil)
	assert.ErrorIs(t, err, errAPIKeyRequired)

	_, err = NewClient(ctx, config.StripeConfig{APIKey: "sk_test_1"}, nil)
	assert.ErrorIs(t, err, errSecretRequired)

	_, err = NewClient(ctx, config.StripeConfig{APIKey: "sk_live_1", Secret: "whsec_1", Env: "test"}, nil)
	assert.Error(t, err)

	_, err = NewClient(ctx, config.StripeConfig{APIKey: "sk_test_1", Secret: "whsec_1", Env: "staging"}, nil)
	assert.ErrorIs(t, err, errInvalidStripeEnv)

	client, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_1", Secret: " whsec_1 "}, nil)
	require.NoError(t, err)
	assert.Equal(t, "test", client.Environment())
	assert.Equal(t, "whsec_1", client.SigningSecret())
	assert.NotNil(t, client.API())
}

func TestNilClientAccessors(t *testing.T) {
	var client *Client
	assert.Empty(t, client.SigningSecret())
	assert.Empty(t, client.Environment())
	assert.Nil(t, client.API())

	_, err := client.CreatePaymentIntent(context.Background(), IntentRequest{AmountMinor: 100, Currency: "usd"})
	assert.Error(t, err)
}

func TestErrorMessage(t *testing.T) {
	gatewayErr := &stripe.Error{Msg: "Your card was declined."}
	assert.Equal(t, "Your card was declined.", ErrorMessage(fmt.Errorf("create intent: %w", gatewayErr)))
	assert.Equal(t, "boom", ErrorMessage(errors.New("boom")))
	assert.Empty(t, ErrorMessage(nil))
}
