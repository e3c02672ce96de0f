package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOrder() Order {
	return Order{
		OrderId:           "ORD1",
		CustomerEmail:     "a@example.com",
		Status:            StatusProcessing,
		OrderDate:         MustDate("2024-01-10"),
		EstimatedDelivery: MustDate("2024-01-13"),
		Items: []OrderItem{
			{Name: "Smartphone Case", Quantity: 2, UnitPrice: 24.99},
		},
		Total:           49.98,
		ShippingAddress: "1 Road",
	}
}

func TestOrderValidate(t *testing.T) {
	require.NoError(t, validOrder().Validate())

	o := validOrder()
	o.Total = 24.99
	assert.Error(t, o.Validate())

	o = validOrder()
	o.Shipment = &Shipment{TrackingNumber: "1Z"}
	assert.Error(t, o.Validate())

	o = validOrder()
	d := MustDate("2024-01-13")
	o.DeliveryDate = &d
	assert.Error(t, o.Validate())
	o.Status = StatusDelivered
	assert.NoError(t, o.Validate())

	o = validOrder()
	o.Items[0].Quantity = 0
	assert.Error(t, o.Validate())
}

func TestOrderOwnedBy(t *testing.T) {
	o := validOrder()
	assert.True(t, o.OwnedBy("A@Example.com"))
	assert.False(t, o.OwnedBy("b@example.com"))
}

func TestOrderSummary(t *testing.T) {
	s := validOrder().Summary()
	assert.Equal(t, "ORD1", s.OrderId)
	assert.Equal(t, 2, s.ItemsCount)
	assert.Equal(t, 49.98, s.Total)
}

func TestOrderStatusCancellable(t *testing.T) {
	assert.True(t, StatusProcessing.Cancellable())
	assert.False(t, StatusShipped.Cancellable())
	assert.False(t, StatusDelivered.Cancellable())
}
