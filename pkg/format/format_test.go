package format

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/worldofchami/shopassist/pkg/apperr"
	"github.com/worldofchami/shopassist/pkg/models"
	"github.com/worldofchami/shopassist/pkg/store"
)

func TestSearchResults(t *testing.T) {
	catalog := store.Catalog()

	out := SearchResults("shoes", "all", catalog[3:4])
	assert.Equal(t, "Found 1 products matching 'shoes':\n\n"+
		"• Running Shoes (ID: PROD004)\n"+
		"  Price: $129.99 | Rating: 4.6/5 | ❌ Out of Stock\n\n", out)

	out = SearchResults("laptop", "clothing", nil)
	assert.Equal(t, "No products found matching 'laptop' in category 'clothing'. Try different keywords or browse all categories.", out)
}

func TestProductDetail(t *testing.T) {
	d := store.ProductDetails()[0]
	out := ProductDetail("prod001", d)

	assert.Contains(t, out, "**Wireless Bluetooth Headphones** (ID: prod001)\n\n")
	assert.Contains(t, out, "💰 **Price:** $89.99\n")
	assert.Contains(t, out, "⭐ **Rating:** 4.5/5 (1247 reviews)\n")
	assert.Contains(t, out, "📦 **Availability:** ✅ 45 in stock\n")
	assert.Contains(t, out, "**Specifications:**\n• Battery Life: 30 hours\n• Connectivity: Bluetooth 5.0\n")
	assert.True(t, len(out) > 0 && out[len(out)-1] != '\n')

	d.InStock = false
	assert.Contains(t, ProductDetail("PROD001", d), "📦 **Availability:** ❌ Out of stock\n")
}

func TestRecommendations(t *testing.T) {
	recs := store.DefaultRecommendations()[1:]

	out := Recommendations("gardening", "under_50", recs)
	assert.Equal(t, "**Recommendations for 'gardening'** 🎯\n\n"+
		"*Filtered by budget: under 50*\n\n"+
		"1. **Smartphone Case** (ID: PROD003)\n"+
		"   💰 $24.99\n"+
		"   💡 Essential protection for your device\n\n"+
		"Would you like more details about any of these products?", out)

	assert.NotContains(t, Recommendations("gardening", "any", recs), "Filtered by budget")

	assert.Equal(t,
		"No recommendations found for 'gaming' within budget range 'under_50'. Try adjusting your budget or preferences.",
		Recommendations("gaming", "under_50", nil))
}

func TestOrderStatus(t *testing.T) {
	seed := store.Orders()

	shipped := OrderStatus("ORD12345", seed[0])
	assert.Contains(t, shipped, "**Order Status: Shipped** 📦\n\n")
	assert.Contains(t, shipped, "• Wireless Bluetooth Headphones (Qty: 1) - $89.99\n")
	assert.Contains(t, shipped, "**Tracking Number:** 1Z999AA1234567890\n**Carrier:** UPS\n")

	processing := OrderStatus("ORD12346", seed[1])
	assert.Contains(t, processing, "Tracking information will be available soon.")
	assert.NotContains(t, processing, "Tracking Number")

	delivered := OrderStatus("ord12347", seed[2])
	assert.Contains(t, delivered, "**Order ID:** ord12347\n")
	assert.Contains(t, delivered, "**Delivered:** 2024-01-13\n")
	assert.Contains(t, delivered, "**Tracking Number:** 1Z999BB9876543210 (FedEx)")
}

func TestOrderHistory(t *testing.T) {
	seed := store.Orders()
	out := OrderHistory("buyer@example.com", []models.OrderSummary{seed[2].Summary()})
	assert.Equal(t, "📋 Order History for buyer@example.com:\n\n"+
		"• ORD12347 - Delivered - $49.98 (2024-01-10) - 2 item(s)\n", out)

	assert.Equal(t, "No order history found for nobody@example.com", OrderHistory("nobody@example.com", nil))
}

func TestCancellation(t *testing.T) {
	out := Cancellation(models.CancellationResult{
		OrderId:          "ORD12346",
		Status:           models.StatusCancelled,
		CancellationDate: time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC),
		Reason:           "Customer request",
		RefundAmount:     1299.99,
		RefundTimeline:   "3-5 business days",
	})
	assert.Contains(t, out, "✅ Order ORD12346 has been cancelled.")
	assert.Contains(t, out, "**Cancellation Date:** 2024-03-02\n")
	assert.Contains(t, out, "**Refund Amount:** $1299.99\n")
}

func TestError(t *testing.T) {
	assert.Equal(t, "❌ Product 'PROD999' not found", Error(apperr.NotFound("Product", "PROD999")))
	assert.Equal(t, "❌ boom", Error(errors.New("boom")))
	assert.Equal(t, "", Error(nil))
}
