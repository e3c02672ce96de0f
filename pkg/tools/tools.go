// Package tools exposes the catalog and order engines as named tools with a
// description and a JSON input schema. Every tool takes a flat argument map
// and returns display text, so the same definitions serve the agent, the MCP
// server, the request router and the CLI.
package tools

import (
	"context"
	"sort"

	"github.com/worldofchami/shopassist/pkg/catalog"
	"github.com/worldofchami/shopassist/pkg/format"
	"github.com/worldofchami/shopassist/pkg/models"
	"github.com/worldofchami/shopassist/pkg/orders"
	"github.com/worldofchami/shopassist/pkg/store"
)

const (
	SearchProducts     = "search_products"
	GetProductDetails  = "get_product_details"
	GetRecommendations = "get_recommendations"
	CheckOrderStatus   = "check_order_status"
	GetOrderHistory    = "get_order_history"
	CancelOrder        = "cancel_order"
	CreateOrder        = "create_order"
)

// Tool is one callable operation.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Call        func(ctx context.Context, args map[string]any) (string, error)
}

// Service owns the engines behind the tools.
type Service struct {
	catalog *catalog.Engine
	orders  *orders.Engine
	tools   []Tool
	byName  map[string]Tool
}

func NewService(cat *catalog.Engine, ord *orders.Engine) *Service {
	s := &Service{catalog: cat, orders: ord}
	s.tools = []Tool{
		s.searchProductsTool(),
		s.productDetailsTool(),
		s.recommendationsTool(),
		s.orderStatusTool(),
		s.orderHistoryTool(),
		s.cancelOrderTool(),
		s.createOrderTool(),
	}
	s.byName = make(map[string]Tool, len(s.tools))
	for _, t := range s.tools {
		s.byName[t.Name] = t
	}
	return s
}

// NewServiceFromStores builds both engines over stores.
func NewServiceFromStores(stores *store.Stores, opts ...orders.Option) *Service {
	return NewService(catalog.NewEngineFromStores(stores), orders.NewEngine(stores.Orders, opts...))
}

// Tools returns every tool in registration order.
func (s *Service) Tools() []Tool {
	out := make([]Tool, len(s.tools))
	copy(out, s.tools)
	return out
}

// Lookup finds a tool by exact name.
func (s *Service) Lookup(name string) (Tool, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// Names returns the tool names, sorted.
func (s *Service) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func (s *Service) searchProductsTool() Tool {
	return Tool{
		Name:        SearchProducts,
		Description: "Search for products in the catalog by keywords, category, or features. Returns a list of matching products with price, rating and stock status.",
		InputSchema: objectSchema(map[string]any{
			"query":    stringProp("Search keywords (e.g. 'wireless headphones', 'gaming laptop')"),
			"category": stringProp("Product category filter (e.g. 'electronics', 'clothing', 'books', 'all'). Defaults to 'all'."),
			"max_results": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"description": "Maximum number of results to return (default 5)",
			},
		}, "query"),
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			var p SearchParams
			if err := decodeParams(args, &p); err != nil {
				return "", err
			}
			category := catalog.DefaultCategory
			if p.Category != nil {
				category = *p.Category
			}
			maxResults := catalog.DefaultMaxResults
			if p.MaxResults != nil {
				maxResults = *p.MaxResults
			}

			products, err := s.catalog.Search(ctx, p.Query, category, maxResults)
			if err != nil {
				return "", err
			}
			return format.SearchResults(p.Query, category, products), nil
		},
	}
}

func (s *Service) productDetailsTool() Tool {
	return Tool{
		Name:        GetProductDetails,
		Description: "Get detailed information about a specific product including specifications, pricing, availability, shipping and warranty.",
		InputSchema: objectSchema(map[string]any{
			"product_id": stringProp("Unique product identifier (e.g. 'PROD001')"),
		}, "product_id"),
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			var p ProductDetailsParams
			if err := decodeParams(args, &p); err != nil {
				return "", err
			}
			detail, err := s.catalog.Details(ctx, p.ProductID)
			if err != nil {
				return "", err
			}
			return format.ProductDetail(p.ProductID, detail), nil
		},
	}
}

func (s *Service) recommendationsTool() Tool {
	budgets := make([]string, 0, len(catalog.Budgets))
	for _, b := range catalog.Budgets {
		budgets = append(budgets, string(b))
	}

	return Tool{
		Name:        GetRecommendations,
		Description: "Get personalized product recommendations based on customer interests and budget, with a reason for each pick.",
		InputSchema: objectSchema(map[string]any{
			"customer_preference": stringProp("Customer interests or needs (e.g. 'gaming', 'fitness', 'productivity')"),
			"budget_range": map[string]any{
				"type":        "string",
				"enum":        budgets,
				"description": "Budget preference. Defaults to 'any'.",
			},
		}, "customer_preference"),
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			var p RecommendationParams
			if err := decodeParams(args, &p); err != nil {
				return "", err
			}
			budget := catalog.DefaultBudget
			if p.BudgetRange != nil {
				budget = catalog.Budget(*p.BudgetRange)
			}

			recs, err := s.catalog.Recommend(ctx, p.CustomerPreference, budget)
			if err != nil {
				return "", err
			}
			return format.Recommendations(p.CustomerPreference, string(budget), recs), nil
		},
	}
}

func (s *Service) orderStatusTool() Tool {
	return Tool{
		Name:        CheckOrderStatus,
		Description: "Check the status and tracking information for a customer order. Supply the customer email to verify ownership.",
		InputSchema: objectSchema(map[string]any{
			"order_id":       stringProp("Order number (e.g. 'ORD12345')"),
			"customer_email": stringProp("Customer email for verification (optional)"),
		}, "order_id"),
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			var p OrderStatusParams
			if err := decodeParams(args, &p); err != nil {
				return "", err
			}
			order, err := s.orders.LookupOrder(ctx, p.OrderID, p.CustomerEmail)
			if err != nil {
				return "", err
			}
			return format.OrderStatus(p.OrderID, order), nil
		},
	}
}

func (s *Service) orderHistoryTool() Tool {
	return Tool{
		Name:        GetOrderHistory,
		Description: "List a customer's past orders with status, total and date.",
		InputSchema: objectSchema(map[string]any{
			"customer_email": stringProp("Customer email address"),
			"limit": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"description": "Maximum number of orders to return (default 10)",
			},
		}, "customer_email"),
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			var p OrderHistoryParams
			if err := decodeParams(args, &p); err != nil {
				return "", err
			}
			limit := orders.DefaultHistoryLimit
			if p.Limit != nil {
				limit = *p.Limit
			}

			summaries, err := s.orders.OrderHistory(ctx, p.CustomerEmail, limit)
			if err != nil {
				return "", err
			}
			return format.OrderHistory(p.CustomerEmail, summaries), nil
		},
	}
}

func (s *Service) cancelOrderTool() Tool {
	return Tool{
		Name:        CancelOrder,
		Description: "Cancel an order that has not shipped yet. Requires the email the order was placed with.",
		InputSchema: objectSchema(map[string]any{
			"order_id":       stringProp("Order number (e.g. 'ORD12346')"),
			"customer_email": stringProp("Email the order was placed with"),
			"reason":         stringProp("Why the order is being cancelled (optional)"),
		}, "order_id", "customer_email"),
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			var p CancelOrderParams
			if err := decodeParams(args, &p); err != nil {
				return "", err
			}
			res, err := s.orders.CancelOrder(ctx, p.OrderID, p.CustomerEmail, p.Reason)
			if err != nil {
				return "", err
			}
			return format.Cancellation(res), nil
		},
	}
}

func (s *Service) createOrderTool() Tool {
	return Tool{
		Name:        CreateOrder,
		Description: "Place a new order for a customer. Each item needs a name, a quantity and a unit price.",
		InputSchema: objectSchema(map[string]any{
			"customer_email":   stringProp("Customer email address"),
			"shipping_address": stringProp("Full shipping address"),
			"items": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": objectSchema(map[string]any{
					"name":     stringProp("Product name"),
					"quantity": map[string]any{"type": "integer", "minimum": 1},
					"price":    map[string]any{"type": "number", "minimum": 0},
				}, "name", "quantity", "price"),
			},
		}, "customer_email", "items", "shipping_address"),
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			var p CreateOrderParams
			if err := decodeParams(args, &p); err != nil {
				return "", err
			}

			req := orders.NewOrder{
				CustomerEmail:   p.CustomerEmail,
				ShippingAddress: p.ShippingAddress,
				Items:           make([]models.OrderItem, 0, len(p.Items)),
			}
			for _, item := range p.Items {
				qty := 1
				if item.Quantity != nil {
					qty = *item.Quantity
				}
				req.Items = append(req.Items, models.OrderItem{Name: item.Name, Quantity: qty, UnitPrice: item.Price})
			}

			order, err := s.orders.CreateOrder(ctx, req)
			if err != nil {
				return "", err
			}
			return format.CreatedOrder(order), nil
		},
	}
}
