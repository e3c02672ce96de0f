package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/worldofchami/shopassist/pkg/apperr"
	"github.com/worldofchami/shopassist/pkg/models"
	"github.com/worldofchami/shopassist/pkg/store"
)

const MaxRecommendations = 3

type Budget string

const (
	BudgetUnder50  Budget = "under_50"
	Budget50To200  Budget = "50_200"
	Budget200To500 Budget = "200_500"
	BudgetOver500  Budget = "over_500"
	BudgetAny      Budget = "any"
)

// DefaultBudget applies when the caller names no budget.
const DefaultBudget = BudgetAny

// Budgets lists the recognised buckets in display order.
var Budgets = []Budget{BudgetUnder50, Budget50To200, Budget200To500, BudgetOver500, BudgetAny}

// Allows reports whether price falls inside the bucket. Unrecognised buckets
// allow everything.
func (b Budget) Allows(price float64) bool {
	switch b {
	case BudgetUnder50:
		return price < 50
	case Budget50To200:
		return price >= 50 && price <= 200
	case Budget200To500:
		return price >= 200 && price <= 500
	case BudgetOver500:
		return price > 500
	default:
		return true
	}
}

// Known reports whether b is one of the named buckets.
func (b Budget) Known() bool {
	for _, known := range Budgets {
		if b == known {
			return true
		}
	}
	return false
}

// Recommend picks the recommendation list for preference and keeps the
// entries inside budget, at most MaxRecommendations of them.
//
// The list is chosen by exact key first, then by the first key in table
// order that contains the preference or is contained by it, then the
// fallback list. An empty result means nothing fits the budget.
func (e *Engine) Recommend(ctx context.Context, preference string, budget Budget) ([]models.RecommendationEntry, error) {
	candidates, err := e.preferenceList(ctx, strings.ToLower(preference))
	if err != nil {
		return nil, err
	}

	out := make([]models.RecommendationEntry, 0, MaxRecommendations)
	for _, entry := range candidates {
		if len(out) == MaxRecommendations {
			break
		}
		if budget.Allows(entry.Price) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (e *Engine) preferenceList(ctx context.Context, key string) ([]models.RecommendationEntry, error) {
	exact, err := e.recommendations.GetByKey(ctx, key)
	if err == nil && len(exact.Entries) > 0 {
		return exact.Entries, nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internal(err, "recommendation lookup failed")
	}

	table, err := e.recommendations.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "recommendation lookup failed")
	}
	for _, list := range table {
		if strings.Contains(key, list.Key) || strings.Contains(list.Key, key) {
			if len(list.Entries) > 0 {
				return list.Entries, nil
			}
			break
		}
	}
	return e.fallback, nil
}
