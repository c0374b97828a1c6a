package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusPreparing, true},
		{OrderStatusPreparing, OrderStatusOutForDelivery, true},
		{OrderStatusOutForDelivery, OrderStatusDelivered, true},
		{OrderStatusConfirmed, OrderStatusOutForDelivery, true},
		{OrderStatusOutForDelivery, OrderStatusOutForDelivery, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusOutForDelivery, OrderStatusCancelled, true},
		{OrderStatusPreparing, OrderStatusConfirmed, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusDelivered, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		{OrderStatusConfirmed, OrderStatus("shipped"), false},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestNext(t *testing.T) {
	next, ok := OrderStatusPending.Next()
	require.True(t, ok)
	assert.Equal(t, OrderStatusConfirmed, next)

	next, ok = OrderStatusOutForDelivery.Next()
	require.True(t, ok)
	assert.Equal(t, OrderStatusDelivered, next)

	_, ok = OrderStatusDelivered.Next()
	assert.False(t, ok)
	_, ok = OrderStatusCancelled.Next()
	assert.False(t, ok)
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("out_for_delivery")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusOutForDelivery, status)
	assert.True(t, status.IsValid())
	assert.False(t, status.IsTerminal())

	_, err = ParseOrderStatus("shipped")
	assert.Error(t, err)
}

func TestParsePaymentMethod(t *testing.T) {
	method, err := ParsePaymentMethod("cod")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodCOD, method)

	_, err = ParsePaymentMethod("card")
	assert.Error(t, err)
	assert.Equal(t, []PaymentMethod{PaymentMethodUPI, PaymentMethodCOD}, PaymentMethods())
}
