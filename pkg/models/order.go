package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for every order date.
const DateLayout = "2006-01-02"

type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// Cancellable reports whether an order in this status may still be
// cancelled. Shipped and delivered orders are irreversible.
func (s OrderStatus) Cancellable() bool {
	return s != StatusShipped && s != StatusDelivered
}

// Shipment groups the carrier tracking data, which exists as a pair or not at all.
type Shipment struct {
	TrackingNumber string `json:"tracking_number"`
	Carrier        string `json:"carrier"`
}

type OrderItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Subtotal is quantity times unit price.
func (item OrderItem) Subtotal() float64 {
	return float64(item.Quantity) * item.UnitPrice
}

type Order struct {
	OrderId           string      `json:"order_id"`
	CustomerEmail     string      `json:"customer_email"`
	Status            OrderStatus `json:"status"`
	Shipment          *Shipment   `json:"shipment,omitempty"`
	OrderDate         time.Time   `json:"order_date"`
	EstimatedDelivery time.Time   `json:"estimated_delivery"`
	DeliveryDate      *time.Time  `json:"delivery_date,omitempty"`
	Items             []OrderItem `json:"items"`
	Total             float64     `json:"total"`
	ShippingAddress   string      `json:"shipping_address"`
}

// OwnedBy compares the requester email to the order owner, ignoring case.
func (o Order) OwnedBy(email string) bool {
	return strings.EqualFold(o.CustomerEmail, email)
}

// ItemsCount is the total number of units across all lines.
func (o Order) ItemsCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// Summary projects the order into a history row.
func (o Order) Summary() OrderSummary {
	return OrderSummary{
		OrderId:    o.OrderId,
		Status:     o.Status,
		OrderDate:  o.OrderDate,
		Total:      o.Total,
		ItemsCount: o.ItemsCount(),
	}
}

// Validate checks the order invariants: total matches the item subtotals,
// tracking data is complete, and a delivery date only accompanies a
// delivered order.
func (o Order) Validate() error {
	if strings.TrimSpace(o.OrderId) == "" {
		return fmt.Errorf("order id is empty")
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("order %s has no items", o.OrderId)
	}
	var sum float64
	for _, item := range o.Items {
		if item.Quantity < 1 {
			return fmt.Errorf("order %s: item %q has quantity %d", o.OrderId, item.Name, item.Quantity)
		}
		if item.UnitPrice < 0 {
			return fmt.Errorf("order %s: item %q has negative price", o.OrderId, item.Name)
		}
		sum += item.Subtotal()
	}
	if RoundCents(sum) != RoundCents(o.Total) {
		return fmt.Errorf("order %s: total %.2f does not match items %.2f", o.OrderId, o.Total, sum)
	}
	if o.Shipment != nil && (o.Shipment.TrackingNumber == "" || o.Shipment.Carrier == "") {
		return fmt.Errorf("order %s: tracking number and carrier must be set together", o.OrderId)
	}
	if o.DeliveryDate != nil && o.Status != StatusDelivered {
		return fmt.Errorf("order %s: delivery date set on %s order", o.OrderId, o.Status)
	}
	return nil
}

type OrderSummary struct {
	OrderId    string      `json:"order_id"`
	Status     OrderStatus `json:"status"`
	OrderDate  time.Time   `json:"order_date"`
	Total      float64     `json:"total"`
	ItemsCount int         `json:"items_count"`
}

type CancellationResult struct {
	OrderId          string      `json:"order_id"`
	Status           OrderStatus `json:"status"`
	CancellationDate time.Time   `json:"cancellation_date"`
	Reason           string      `json:"reason"`
	RefundAmount     float64     `json:"refund_amount"`
	RefundTimeline   string      `json:"refund_timeline"`
}

// RoundCents rounds a monetary amount to two decimal places.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// MustDate parses a calendar date and panics on malformed input. Only used
// for seed data.
func MustDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
