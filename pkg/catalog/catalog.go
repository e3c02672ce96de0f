// Package catalog answers product questions: free-text search, detail lookup
// and preference-based recommendations. It only reads from its stores.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/worldofchami/shopassist/pkg/apperr"
	"github.com/worldofchami/shopassist/pkg/models"
	"github.com/worldofchami/shopassist/pkg/store"
)

const (
	DefaultCategory   = "all"
	DefaultMaxResults = 5
)

// Engine runs catalog queries against a set of stores.
type Engine struct {
	products        store.Store[string, models.Product]
	details         store.Store[string, models.ProductDetail]
	recommendations store.Store[string, models.PreferenceList]
	fallback        []models.RecommendationEntry
}

// NewEngine wires the engine to the catalog, detail and recommendation
// stores. fallback is recommended when a preference matches no table key.
func NewEngine(
	products store.Store[string, models.Product],
	details store.Store[string, models.ProductDetail],
	recommendations store.Store[string, models.PreferenceList],
	fallback []models.RecommendationEntry,
) *Engine {
	return &Engine{
		products:        products,
		details:         details,
		recommendations: recommendations,
		fallback:        fallback,
	}
}

// NewEngineFromStores is NewEngine over a store bundle with the seeded
// default recommendations.
func NewEngineFromStores(s *store.Stores) *Engine {
	return NewEngine(s.Catalog, s.Details, s.Recommendations, store.DefaultRecommendations())
}

// Search returns catalog products matching query, in catalog order, at most
// maxResults of them.
//
// A product matches when any lower-cased query token is a substring of its
// name or is exactly one of its keywords. A category other than "all"
// restricts the candidates first; both comparisons ignore case.
func (e *Engine) Search(ctx context.Context, query, category string, maxResults int) ([]models.Product, error) {
	if maxResults < 0 {
		return nil, apperr.InvalidArgument("max_results", "max_results must not be negative, got %d", maxResults)
	}
	if maxResults == 0 {
		return []models.Product{}, nil
	}
	if strings.TrimSpace(category) == "" {
		category = DefaultCategory
	}

	tokens := strings.Fields(strings.ToLower(query))
	allCategories := strings.EqualFold(category, DefaultCategory)

	matches, err := e.products.FindByPredicate(ctx, func(p models.Product) bool {
		if !allCategories && !strings.EqualFold(p.Category, category) {
			return false
		}
		return matchesAny(p, tokens)
	})
	if err != nil {
		return nil, apperr.Internal(err, "product search failed")
	}

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	if matches == nil {
		matches = []models.Product{}
	}
	return matches, nil
}

func matchesAny(p models.Product, tokens []string) bool {
	name := strings.ToLower(p.Name)
	for _, token := range tokens {
		if strings.Contains(name, token) {
			return true
		}
		for _, keyword := range p.Keywords {
			if strings.ToLower(keyword) == token {
				return true
			}
		}
	}
	return false
}

// Details looks up the detail record for productID, ignoring case. Products
// without a detail record are reported as not found even when they are in
// the search catalog.
func (e *Engine) Details(ctx context.Context, productID string) (models.ProductDetail, error) {
	detail, err := e.details.GetByKey(ctx, strings.ToUpper(productID))
	if errors.Is(err, store.ErrNotFound) {
		return models.ProductDetail{}, apperr.NotFound("Product", productID)
	}
	if err != nil {
		return models.ProductDetail{}, apperr.Internal(err, "product detail lookup failed")
	}
	return detail, nil
}
