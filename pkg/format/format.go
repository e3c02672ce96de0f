// Package format renders engine results as the chat-friendly text blocks the
// tools return to an agent or a router caller.
package format

import (
	"fmt"
	"strings"

	"github.com/worldofchami/shopassist/pkg/apperr"
	"github.com/worldofchami/shopassist/pkg/models"
)

func money(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// SearchResults renders a product search. An empty result is rendered as a
// hint rather than an error.
func SearchResults(query, category string, products []models.Product) string {
	if len(products) == 0 {
		return fmt.Sprintf("No products found matching '%s' in category '%s'. Try different keywords or browse all categories.", query, category)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d products matching '%s':\n\n", len(products), query)
	for _, p := range products {
		stock := "✅ In Stock"
		if !p.InStock {
			stock = "❌ Out of Stock"
		}
		fmt.Fprintf(&b, "• %s (ID: %s)\n", p.Name, p.Id)
		fmt.Fprintf(&b, "  Price: %s | Rating: %v/5 | %s\n\n", money(p.Price), p.Rating, stock)
	}
	return b.String()
}

// ProductDetail renders a detail record. requestedID is echoed back as the
// caller typed it.
func ProductDetail(requestedID string, d models.ProductDetail) string {
	stock := fmt.Sprintf("✅ %d in stock", d.StockQuantity)
	if !d.InStock {
		stock = "❌ Out of stock"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (ID: %s)\n\n", d.Name, requestedID)
	fmt.Fprintf(&b, "💰 **Price:** %s\n", money(d.Price))
	fmt.Fprintf(&b, "⭐ **Rating:** %v/5 (%d reviews)\n", d.Rating, d.ReviewsCount)
	fmt.Fprintf(&b, "📦 **Availability:** %s\n", stock)
	fmt.Fprintf(&b, "🏷️ **Brand:** %s\n\n", d.Brand)

	b.WriteString("**Specifications:**\n")
	for _, spec := range d.Specifications {
		fmt.Fprintf(&b, "• %s: %s\n", spec.Name, spec.Value)
	}

	fmt.Fprintf(&b, "\n🚚 **Shipping:** %s\n", d.Shipping)
	fmt.Fprintf(&b, "🛡️ **Warranty:** %s", d.Warranty)
	return b.String()
}

// Recommendations renders a recommendation list. A budget other than "any"
// is noted above the list.
func Recommendations(preference, budget string, recs []models.RecommendationEntry) string {
	if len(recs) == 0 {
		return fmt.Sprintf("No recommendations found for '%s' within budget range '%s'. Try adjusting your budget or preferences.", preference, budget)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Recommendations for '%s'** 🎯\n\n", preference)
	if budget != "any" {
		fmt.Fprintf(&b, "*Filtered by budget: %s*\n\n", strings.ReplaceAll(budget, "_", " "))
	}
	for i, rec := range recs {
		fmt.Fprintf(&b, "%d. **%s** (ID: %s)\n", i+1, rec.Name, rec.ProductId)
		fmt.Fprintf(&b, "   💰 %s\n", money(rec.Price))
		fmt.Fprintf(&b, "   💡 %s\n\n", rec.Reason)
	}
	b.WriteString("Would you like more details about any of these products?")
	return b.String()
}

// OrderStatus renders a single order with its shipping state.
func OrderStatus(requestedID string, o models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Order Status: %s** 📦\n\n", o.Status)
	fmt.Fprintf(&b, "**Order ID:** %s\n", requestedID)
	fmt.Fprintf(&b, "**Order Date:** %s\n", o.OrderDate.Format(models.DateLayout))
	fmt.Fprintf(&b, "**Total:** %s\n\n", money(o.Total))

	b.WriteString("**Items Ordered:**\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "• %s (Qty: %d) - %s\n", item.Name, item.Quantity, money(item.UnitPrice))
	}

	fmt.Fprintf(&b, "\n**Shipping Address:** %s\n", o.ShippingAddress)
	fmt.Fprintf(&b, "**Estimated Delivery:** %s\n", o.EstimatedDelivery.Format(models.DateLayout))

	switch {
	case o.DeliveryDate != nil:
		fmt.Fprintf(&b, "**Delivered:** %s\n", o.DeliveryDate.Format(models.DateLayout))
		if o.Shipment != nil {
			fmt.Fprintf(&b, "**Tracking Number:** %s (%s)", o.Shipment.TrackingNumber, o.Shipment.Carrier)
		}
	case o.Shipment != nil:
		fmt.Fprintf(&b, "**Tracking Number:** %s\n", o.Shipment.TrackingNumber)
		fmt.Fprintf(&b, "**Carrier:** %s\n", o.Shipment.Carrier)
		b.WriteString("\n📍 You can track your package on the carrier's website using the tracking number above.")
	case o.Status == models.StatusCancelled:
		b.WriteString("\nThis order has been cancelled.")
	default:
		b.WriteString("\n⏳ Your order is being prepared for shipment. Tracking information will be available soon.")
	}
	return b.String()
}

// OrderHistory renders a customer's order summaries.
func OrderHistory(email string, summaries []models.OrderSummary) string {
	if len(summaries) == 0 {
		return fmt.Sprintf("No order history found for %s", email)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Order History for %s:\n\n", email)
	for _, s := range summaries {
		fmt.Fprintf(&b, "• %s - %s - %s (%s) - %d item(s)\n",
			s.OrderId, s.Status, money(s.Total), s.OrderDate.Format(models.DateLayout), s.ItemsCount)
	}
	return b.String()
}

// Cancellation renders a successful cancellation.
func Cancellation(c models.CancellationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Order %s has been cancelled.\n\n", c.OrderId)
	fmt.Fprintf(&b, "**Cancellation Date:** %s\n", c.CancellationDate.Format(models.DateLayout))
	fmt.Fprintf(&b, "**Reason:** %s\n", c.Reason)
	fmt.Fprintf(&b, "**Refund Amount:** %s\n", money(c.RefundAmount))
	fmt.Fprintf(&b, "**Refund Timeline:** %s", c.RefundTimeline)
	return b.String()
}

// CreatedOrder renders a newly placed order.
func CreatedOrder(o models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛒 Order %s placed for %s\n\n", o.OrderId, o.CustomerEmail)
	for _, item := range o.Items {
		fmt.Fprintf(&b, "• %s (Qty: %d) - %s\n", item.Name, item.Quantity, money(item.UnitPrice))
	}
	fmt.Fprintf(&b, "\n**Total:** %s\n", money(o.Total))
	fmt.Fprintf(&b, "**Status:** %s\n", o.Status)
	fmt.Fprintf(&b, "**Shipping Address:** %s\n", o.ShippingAddress)
	fmt.Fprintf(&b, "**Estimated Delivery:** %s", o.EstimatedDelivery.Format(models.DateLayout))
	return b.String()
}

// Error renders a failure for display. Classified errors show their message
// only; anything else shows the full error text.
func Error(err error) string {
	if err == nil {
		return ""
	}
	if ae, ok := apperr.As(err); ok && ae.Kind != apperr.KindInternal {
		return "❌ " + ae.Message
	}
	return "❌ " + err.Error()
}
