package store

import "github.com/worldofchami/shopassist/pkg/models"

// Catalog returns the product search catalog.
func Catalog() []models.Product {
	return []models.Product{
		{
			Id:       "PROD001",
			Name:     "Wireless Bluetooth Headphones",
			Category: "electronics",
			Price:    89.99,
			Rating:   4.5,
			InStock:  true,
			Keywords: []string{"wireless", "bluetooth", "headphones", "audio"},
		},
		{
			Id:       "PROD002",
			Name:     "Gaming Laptop Pro",
			Category: "electronics",
			Price:    1299.99,
			Rating:   4.8,
			InStock:  true,
			Keywords: []string{"gaming", "laptop", "computer", "nvidia"},
		},
		{
			Id:       "PROD003",
			Name:     "Smartphone Case",
			Category: "electronics",
			Price:    24.99,
			Rating:   4.2,
			InStock:  true,
			Keywords: []string{"phone", "case", "protection", "smartphone"},
		},
		{
			Id:       "PROD004",
			Name:     "Running Shoes",
			Category: "clothing",
			Price:    129.99,
			Rating:   4.6,
			InStock:  false,
			Keywords: []string{"shoes", "running", "athletic", "sports"},
		},
		{
			Id:       "PROD005",
			Name:     "Programming Book: Python Mastery",
			Category: "books",
			Price:    39.99,
			Rating:   4.7,
			InStock:  true,
			Keywords: []string{"python", "programming", "book", "coding"},
		},
	}
}

// ProductDetails returns the detail table. It covers only part of the catalog.
func ProductDetails() []models.ProductDetail {
	return []models.ProductDetail{
		{
			Id:            "PROD001",
			Name:          "Wireless Bluetooth Headphones",
			Category:      "Electronics",
			Brand:         "AudioTech",
			Price:         89.99,
			Rating:        4.5,
			ReviewsCount:  1247,
			InStock:       true,
			StockQuantity: 45,
			Specifications: []models.Specification{
				{Name: "Battery Life", Value: "30 hours"},
				{Name: "Connectivity", Value: "Bluetooth 5.0"},
				{Name: "Weight", Value: "250g"},
				{Name: "Noise Cancellation", Value: "Active"},
			},
			Shipping: "Free shipping on orders over $50",
			Warranty: "1 year manufacturer warranty",
		},
		{
			Id:            "PROD002",
			Name:          "Gaming Laptop Pro",
			Category:      "Electronics",
			Brand:         "GameForce",
			Price:         1299.99,
			Rating:        4.8,
			ReviewsCount:  892,
			InStock:       true,
			StockQuantity: 12,
			Specifications: []models.Specification{
				{Name: "Processor", Value: "Intel i7-12700H"},
				{Name: "Graphics", Value: "NVIDIA RTX 4060"},
				{Name: "RAM", Value: "16GB DDR4"},
				{Name: "Storage", Value: "512GB SSD"},
				{Name: "Display", Value: `15.6" 144Hz`},
			},
			Shipping: "Free shipping",
			Warranty: "2 year manufacturer warranty",
		},
		{
			Id:            "PROD003",
			Name:          "Smartphone Case",
			Category:      "Electronics",
			Brand:         "ProtectPro",
			Price:         24.99,
			Rating:        4.2,
			ReviewsCount:  2156,
			InStock:       true,
			StockQuantity: 234,
			Specifications: []models.Specification{
				{Name: "Material", Value: "TPU + PC"},
				{Name: "Drop Protection", Value: "6 feet"},
				{Name: "Compatibility", Value: "iPhone 15 Pro"},
				{Name: "Wireless Charging", Value: "Compatible"},
			},
			Shipping: "$3.99 shipping",
			Warranty: "90 day warranty",
		},
	}
}

// Orders returns the order table.
func Orders() []models.Order {
	delivered := models.MustDate("2024-01-13")

	return []models.Order{
		{
			OrderId:       "ORD12345",
			CustomerEmail: "customer@example.com",
			Status:        models.StatusShipped,
			Shipment: &models.Shipment{
				TrackingNumber: "1Z999AA1234567890",
				Carrier:        "UPS",
			},
			OrderDate:         models.MustDate("2024-01-15"),
			EstimatedDelivery: models.MustDate("2024-01-18"),
			Items: []models.OrderItem{
				{Name: "Wireless Bluetooth Headphones", Quantity: 1, UnitPrice: 89.99},
			},
			Total:           89.99,
			ShippingAddress: "123 Main St, Anytown, ST 12345",
		},
		{
			OrderId:           "ORD12346",
			CustomerEmail:     "shopper@example.com",
			Status:            models.StatusProcessing,
			OrderDate:         models.MustDate("2024-01-16"),
			EstimatedDelivery: models.MustDate("2024-01-20"),
			Items: []models.OrderItem{
				{Name: "Gaming Laptop Pro", Quantity: 1, UnitPrice: 1299.99},
			},
			Total:           1299.99,
			ShippingAddress: "456 Oak Ave, Another City, ST 67890",
		},
		{
			OrderId:       "ORD12347",
			CustomerEmail: "buyer@example.com",
			Status:        models.StatusDelivered,
			Shipment: &models.Shipment{
				TrackingNumber: "1Z999BB9876543210",
				Carrier:        "FedEx",
			},
			OrderDate:         models.MustDate("2024-01-10"),
			EstimatedDelivery: models.MustDate("2024-01-13"),
			DeliveryDate:      &delivered,
			Items: []models.OrderItem{
				{Name: "Smartphone Case", Quantity: 2, UnitPrice: 24.99},
			},
			Total:           49.98,
			ShippingAddress: "789 Pine Rd, Some City, ST 11111",
		},
	}
}

// Recommendations returns the preference table in lookup order. The order
// matters: partial preference matches take the first key that fits.
func Recommendations() []models.PreferenceList {
	return []models.PreferenceList{
		{
			Key: "gaming",
			Entries: []models.RecommendationEntry{
				{ProductId: "PROD002", Name: "Gaming Laptop Pro", Price: 1299.99, Reason: "High-performance gaming with RTX graphics"},
				{ProductId: "PROD006", Name: "Gaming Mouse RGB", Price: 79.99, Reason: "Precision gaming with customizable RGB"},
				{ProductId: "PROD007", Name: "Mechanical Keyboard", Price: 149.99, Reason: "Tactile feedback for competitive gaming"},
			},
		},
		{
			Key: "fitness",
			Entries: []models.RecommendationEntry{
				{ProductId: "PROD004", Name: "Running Shoes", Price: 129.99, Reason: "Comfortable support for daily runs"},
				{ProductId: "PROD008", Name: "Fitness Tracker", Price: 199.99, Reason: "Track workouts and health metrics"},
				{ProductId: "PROD009", Name: "Wireless Earbuds", Price: 159.99, Reason: "Sweat-resistant for workout sessions"},
			},
		},
		{
			Key: "productivity",
			Entries: []models.RecommendationEntry{
				{ProductId: "PROD002", Name: "Gaming Laptop Pro", Price: 1299.99, Reason: "Powerful performance for work tasks"},
				{ProductId: "PROD005", Name: "Programming Book: Python Mastery", Price: 39.99, Reason: "Enhance coding skills"},
				{ProductId: "PROD010", Name: "Ergonomic Office Chair", Price: 299.99, Reason: "Comfortable for long work sessions"},
			},
		},
		{
			Key: "audio",
			Entries: []models.RecommendationEntry{
				{ProductId: "PROD001", Name: "Wireless Bluetooth Headphones", Price: 89.99, Reason: "High-quality audio with noise cancellation"},
				{ProductId: "PROD009", Name: "Wireless Earbuds", Price: 159.99, Reason: "Portable audio for on-the-go"},
				{ProductId: "PROD011", Name: "Bluetooth Speaker", Price: 119.99, Reason: "Room-filling sound for home"},
			},
		},
	}
}

// DefaultRecommendations is the fallback list for preferences matching no key.
func DefaultRecommendations() []models.RecommendationEntry {
	return []models.RecommendationEntry{
		{ProductId: "PROD001", Name: "Wireless Bluetooth Headphones", Price: 89.99, Reason: "Popular choice with great reviews"},
		{ProductId: "PROD003", Name: "Smartphone Case", Price: 24.99, Reason: "Essential protection for your device"},
	}
}
