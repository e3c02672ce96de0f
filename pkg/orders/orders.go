// Package orders implements order lookup, history, cancellation and order
// creation over a read-only order store. Cancellation and creation return
// projections; the store is never written.
package orders

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/worldofchami/shopassist/pkg/apperr"
	"github.com/worldofchami/shopassist/pkg/models"
	"github.com/worldofchami/shopassist/pkg/store"
)

const (
	DefaultHistoryLimit  = 10
	DefaultCancelReason  = "Customer request"
	RefundTimeline       = "3-5 business days"
	DeliveryLeadTimeDays = 5
)

// Engine answers order questions.
type Engine struct {
	orders store.Store[string, models.Order]
	now    func() time.Time
	newID  func() string
}

type Option func(*Engine)

// WithClock sets the clock used for cancellation and order dates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator sets the generator for new order ids.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

func NewEngine(orders store.Store[string, models.Order], opts ...Option) *Engine {
	e := &Engine{
		orders: orders,
		now:    time.Now,
		newID:  randomOrderID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// randomOrderID returns "ORD" followed by five random digits.
func randomOrderID() string {
	return fmt.Sprintf("ORD%05d", rand.IntN(100000))
}

// LookupOrder fetches an order by id, ignoring case. When requesterEmail is
// non-empty it must match the owner, otherwise the order is withheld.
func (e *Engine) LookupOrder(ctx context.Context, orderID, requesterEmail string) (models.Order, error) {
	order, err := e.orders.GetByKey(ctx, strings.ToUpper(orderID))
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, apperr.NotFound("Order", orderID)
	}
	if err != nil {
		return models.Order{}, apperr.Internal(err, "order lookup failed")
	}

	if requesterEmail != "" && !order.OwnedBy(requesterEmail) {
		return models.Order{}, apperr.Unauthorized("order", orderID)
	}
	return order, nil
}

// CancelOrder checks that the requester owns the order and that it has not
// shipped, then returns the cancellation that would be applied. An empty
// reason becomes DefaultCancelReason.
func (e *Engine) CancelOrder(ctx context.Context, orderID, requesterEmail, reason string) (models.CancellationResult, error) {
	if strings.TrimSpace(requesterEmail) == "" {
		return models.CancellationResult{}, apperr.InvalidArgument("customer_email", "customer_email is required to cancel an order")
	}

	order, err := e.LookupOrder(ctx, orderID, requesterEmail)
	if err != nil {
		return models.CancellationResult{}, err
	}
	if !order.Status.Cancellable() {
		return models.CancellationResult{}, apperr.Conflict("Order", orderID, "Cannot cancel order with status: %s", order.Status)
	}

	if reason == "" {
		reason = DefaultCancelReason
	}
	return models.CancellationResult{
		OrderId:          order.OrderId,
		Status:           models.StatusCancelled,
		CancellationDate: e.now(),
		Reason:           reason,
		RefundAmount:     order.Total,
		RefundTimeline:   RefundTimeline,
	}, nil
}

// OrderHistory lists the customer's orders in store order, at most limit
// of them.
func (e *Engine) OrderHistory(ctx context.Context, customerEmail string, limit int) ([]models.OrderSummary, error) {
	if limit < 0 {
		return nil, apperr.InvalidArgument("limit", "limit must not be negative, got %d", limit)
	}

	owned, err := e.orders.FindByPredicate(ctx, func(o models.Order) bool {
		return o.OwnedBy(customerEmail)
	})
	if err != nil {
		return nil, apperr.Internal(err, "order history lookup failed")
	}

	if len(owned) > limit {
		owned = owned[:limit]
	}
	summaries := make([]models.OrderSummary, 0, len(owned))
	for _, o := range owned {
		summaries = append(summaries, o.Summary())
	}
	return summaries, nil
}

// NewOrder is a request to place an order.
type NewOrder struct {
	CustomerEmail   string
	Items           []models.OrderItem
	ShippingAddress string
}

// CreateOrder validates the request and returns the order that would be
// placed: a fresh id, Processing, dated today and due in
// DeliveryLeadTimeDays.
func (e *Engine) CreateOrder(_ context.Context, req NewOrder) (models.Order, error) {
	if strings.TrimSpace(req.CustomerEmail) == "" {
		return models.Order{}, apperr.InvalidArgument("customer_email", "customer_email is required")
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return models.Order{}, apperr.InvalidArgument("shipping_address", "shipping_address is required")
	}
	if len(req.Items) == 0 {
		return models.Order{}, apperr.InvalidArgument("items", "an order needs at least one item")
	}

	items := make([]models.OrderItem, len(req.Items))
	var total float64
	for i, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" {
			return models.Order{}, apperr.InvalidArgument("items", "item %d has no name", i+1)
		}
		if item.Quantity < 1 {
			return models.Order{}, apperr.InvalidArgument("items", "item %q has quantity %d", item.Name, item.Quantity)
		}
		if item.UnitPrice < 0 {
			return models.Order{}, apperr.InvalidArgument("items", "item %q has a negative price", item.Name)
		}
		items[i] = item
		total += item.Subtotal()
	}

	today := truncateToDay(e.now())
	order := models.Order{
		OrderId:           e.newID(),
		CustomerEmail:     req.CustomerEmail,
		Status:            models.StatusProcessing,
		OrderDate:         today,
		EstimatedDelivery: today.AddDate(0, 0, DeliveryLeadTimeDays),
		Items:             items,
		Total:             models.RoundCents(total),
		ShippingAddress:   req.ShippingAddress,
	}
	if err := order.Validate(); err != nil {
		return models.Order{}, apperr.Internal(err, "created order is inconsistent")
	}
	return order, nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
