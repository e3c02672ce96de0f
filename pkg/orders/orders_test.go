package orders

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worldofchami/shopassist/pkg/apperr"
	"github.com/worldofchami/shopassist/pkg/models"
	"github.com/worldofchami/shopassist/pkg/store"
)

var fixedNow = time.Date(2024, time.March, 2, 15, 4, 5, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	stores, err := store.NewMemoryStores()
	require.NoError(t, err)
	return NewEngine(stores.Orders,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "ORD00042" }),
	)
}

func TestLookupOrder(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	order, err := e.LookupOrder(ctx, "ORD12345", "customer@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, order.Status)
	require.NotNil(t, order.Shipment)
	assert.Equal(t, "1Z999AA1234567890", order.Shipment.TrackingNumber)
	assert.Equal(t, "UPS", order.Shipment.Carrier)

	_, err = e.LookupOrder(ctx, "ORD12345", "wrong@example.com")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = e.LookupOrder(ctx, "ORD99999", "")
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindNotFound, ae.Kind)
	assert.Equal(t, "ORD99999", ae.ID)
}

func TestLookupOrder_CaseInsensitive(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	order, err := e.LookupOrder(ctx, "ord12347", "BUYER@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ORD12347", order.OrderId)
	require.NotNil(t, order.DeliveryDate)
	assert.Equal(t, "2024-01-13", order.DeliveryDate.Format(models.DateLayout))
}

func TestLookupOrder_WithoutEmailReturnsOrder(t *testing.T) {
	e := newTestEngine(t)
	order, err := e.LookupOrder(context.Background(), "ORD12346", "")
	require.NoError(t, err)
	assert.Nil(t, order.Shipment)
	assert.Equal(t, 1299.99, order.Total)
}

func TestCancelOrder(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		orderID  string
		email    string
		wantKind apperr.Kind
	}{
		{name: "shipped", orderID: "ORD12345", email: "customer@example.com", wantKind: apperr.KindConflict},
		{name: "delivered", orderID: "ORD12347", email: "buyer@example.com", wantKind: apperr.KindConflict},
		{name: "wrong owner", orderID: "ORD12346", email: "customer@example.com", wantKind: apperr.KindUnauthorized},
		{name: "missing order", orderID: "ORD00000", email: "customer@example.com", wantKind: apperr.KindNotFound},
		{name: "no email", orderID: "ORD12346", email: " ", wantKind: apperr.KindInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.CancelOrder(ctx, tt.orderID, tt.email, "")
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
		})
	}
}

func TestCancelOrder_Processing(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	order, err := e.LookupOrder(ctx, "ORD12346", "")
	require.NoError(t, err)

	res, err := e.CancelOrder(ctx, "ord12346", "shopper@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, models.CancellationResult{
		OrderId:          "ORD12346",
		Status:           models.StatusCancelled,
		CancellationDate: fixedNow,
		Reason:           DefaultCancelReason,
		RefundAmount:     order.Total,
		RefundTimeline:   RefundTimeline,
	}, res)

	res, err = e.CancelOrder(ctx, "ORD12346", "shopper@example.com", "Found it cheaper")
	require.NoError(t, err)
	assert.Equal(t, "Found it cheaper", res.Reason)

	again, err := e.LookupOrder(ctx, "ORD12346", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, again.Status)
}

func TestOrderHistory(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	got, err := e.OrderHistory(ctx, "Buyer@Example.com", DefaultHistoryLimit)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ORD12347", got[0].OrderId)
	assert.Equal(t, 2, got[0].ItemsCount)
	assert.Equal(t, 49.98, got[0].Total)

	got, err = e.OrderHistory(ctx, "buyer@example.com", 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = e.OrderHistory(ctx, "nobody@example.com", DefaultHistoryLimit)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = e.OrderHistory(ctx, "buyer@example.com", -1)
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
}

func TestCreateOrder(t *testing.T) {
	e := newTestEngine(t)

	order, err := e.CreateOrder(context.Background(), NewOrder{
		CustomerEmail: "new@example.com",
		Items: []models.OrderItem{
			{Name: "Smartphone Case", Quantity: 3, UnitPrice: 24.99},
			{Name: "Wireless Bluetooth Headphones", Quantity: 1, UnitPrice: 89.99},
		},
		ShippingAddress: "1 Test Lane",
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD00042", order.OrderId)
	assert.Equal(t, models.StatusProcessing, order.Status)
	assert.Equal(t, 164.96, order.Total)
	assert.Equal(t, "2024-03-02", order.OrderDate.Format(models.DateLayout))
	assert.Equal(t, "2024-03-07", order.EstimatedDelivery.Format(models.DateLayout))
	assert.Nil(t, order.Shipment)
	assert.Nil(t, order.DeliveryDate)
}

func TestCreateOrder_Invalid(t *testing.T) {
	e := newTestEngine(t)
	item := models.OrderItem{Name: "Smartphone Case", Quantity: 1, UnitPrice: 24.99}

	tests := []struct {
		name string
		req  NewOrder
	}{
		{name: "no email", req: NewOrder{Items: []models.OrderItem{item}, ShippingAddress: "x"}},
		{name: "no address", req: NewOrder{CustomerEmail: "a@b.c", Items: []models.OrderItem{item}}},
		{name: "no items", req: NewOrder{CustomerEmail: "a@b.c", ShippingAddress: "x"}},
		{name: "zero quantity", req: NewOrder{CustomerEmail: "a@b.c", ShippingAddress: "x", Items: []models.OrderItem{{Name: "A", Quantity: 0, UnitPrice: 1}}}},
		{name: "negative price", req: NewOrder{CustomerEmail: "a@b.c", ShippingAddress: "x", Items: []models.OrderItem{{Name: "A", Quantity: 1, UnitPrice: -1}}}},
		{name: "unnamed item", req: NewOrder{CustomerEmail: "a@b.c", ShippingAddress: "x", Items: []models.OrderItem{{Quantity: 1, UnitPrice: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.CreateOrder(context.Background(), tt.req)
			assert.True(t, apperr.Is(err, apperr.KindInvalidArgument), "got %v", err)
		})
	}
}

func TestRandomOrderID(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD\d{5}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, randomOrderID())
	}
}
