package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/worldofchami/shopassist/pkg/models"
	"gorm.io/gorm"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Stores bundles every table the engines read.
type Stores struct {
	Catalog         Store[string, models.Product]
	Details         Store[string, models.ProductDetail]
	Orders          Store[string, models.Order]
	Recommendations Store[string, models.PreferenceList]

	closer func() error
}

// Close releases the backend, if it holds anything.
func (s *Stores) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer()
}

func productKey(p models.Product) string { return p.Id }
func detailKey(d models.ProductDetail) string { return d.Id }
func orderKey(o models.Order) string { return o.OrderId }
func preferenceKey(p models.PreferenceList) string { return p.Key }

// validateOrders rejects seed orders that break the order invariants.
func validateOrders(orders []models.Order) error {
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("invalid seed order: %w", err)
		}
	}
	return nil
}

// NewMemoryStores builds in-memory stores over the seed tables.
func NewMemoryStores() (*Stores, error) {
	orders := Orders()
	if err := validateOrders(orders); err != nil {
		return nil, err
	}

	catalog, err := NewMemoryStore(productKey, Catalog())
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	details, err := NewMemoryStore(detailKey, ProductDetails())
	if err != nil {
		return nil, fmt.Errorf("product details: %w", err)
	}
	orderStore, err := NewMemoryStore(orderKey, orders)
	if err != nil {
		return nil, fmt.Errorf("orders: %w", err)
	}
	recs, err := NewMemoryStore(preferenceKey, Recommendations())
	if err != nil {
		return nil, fmt.Errorf("recommendations: %w", err)
	}

	return &Stores{
		Catalog:         catalog,
		Details:         details,
		Orders:          orderStore,
		Recommendations: recs,
	}, nil
}

// NewSQLiteStores seeds the seed tables into db and returns stores reading
// from it. The caller keeps ownership of db.
func NewSQLiteStores(ctx context.Context, db *gorm.DB) (*Stores, error) {
	orders := Orders()
	if err := validateOrders(orders); err != nil {
		return nil, err
	}

	catalog, err := NewSQLiteStore[models.Product](db, "products")
	if err != nil {
		return nil, err
	}
	if err := catalog.Seed(ctx, productKey, Catalog()); err != nil {
		return nil, err
	}

	details, err := NewSQLiteStore[models.ProductDetail](db, "product_details")
	if err != nil {
		return nil, err
	}
	if err := details.Seed(ctx, detailKey, ProductDetails()); err != nil {
		return nil, err
	}

	orderStore, err := NewSQLiteStore[models.Order](db, "orders")
	if err != nil {
		return nil, err
	}
	if err := orderStore.Seed(ctx, orderKey, orders); err != nil {
		return nil, err
	}

	recs, err := NewSQLiteStore[models.PreferenceList](db, "recommendations")
	if err != nil {
		return nil, err
	}
	if err := recs.Seed(ctx, preferenceKey, Recommendations()); err != nil {
		return nil, err
	}

	return &Stores{
		Catalog:         catalog,
		Details:         details,
		Orders:          orderStore,
		Recommendations: recs,
	}, nil
}

// Open builds the stores for the named backend. For sqlite, dsn is the
// database path and the returned Stores owns the connection.
func Open(ctx context.Context, backend, dsn string) (*Stores, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendMemory:
		return NewMemoryStores()
	case BackendSQLite:
		db, err := OpenSQLite(dsn)
		if err != nil {
			return nil, err
		}
		stores, err := NewSQLiteStores(ctx, db)
		if err != nil {
			_ = CloseDB(db)
			return nil, err
		}
		stores.closer = func() error { return CloseDB(db) }
		return stores, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
