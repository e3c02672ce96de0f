package models

// Product is the catalog view of an item, as returned by product search.
type Product struct {
	Id       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    float64  `json:"price"`
	Rating   float64  `json:"rating"`
	InStock  bool     `json:"in_stock"`
	Keywords []string `json:"keywords"`
}

// ProductDetail is the full detail record for a product. Only a subset of the
// catalog has one.
type ProductDetail struct {
	Id             string          `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Brand          string          `json:"brand"`
	Price          float64         `json:"price"`
	Rating         float64         `json:"rating"`
	ReviewsCount   int             `json:"reviews_count"`
	InStock        bool            `json:"in_stock"`
	StockQuantity  int             `json:"stock_quantity"`
	Specifications []Specification `json:"specifications"`
	Shipping       string          `json:"shipping"`
	Warranty       string          `json:"warranty"`
}

// Specification is one named spec line. Kept as a slice of pairs so
// rendering order is stable.
type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RecommendationEntry is a recommended product with the reason it was picked.
type RecommendationEntry struct {
	ProductId string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Reason    string  `json:"reason"`
}

// PreferenceList maps a preference key to its ordered recommendations.
type PreferenceList struct {
	Key     string                `json:"key"`
	Entries []RecommendationEntry `json:"entries"`
}
