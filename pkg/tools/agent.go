package tools

import (
	"context"

	"github.com/nlpodyssey/openai-agents-go/agents"
	"github.com/worldofchami/shopassist/pkg/apperr"
	"github.com/worldofchami/shopassist/pkg/format"
)

// The agent runtime derives each tool's schema from these structs, so every
// field is a plain value. Zero values stand for "use the default".

type searchArgs struct {
	Query      string `json:"query"`
	Category   string `json:"category"`
	MaxResults int    `json:"max_results"`
}

type productDetailsArgs struct {
	ProductID string `json:"product_id"`
}

type recommendationArgs struct {
	CustomerPreference string `json:"customer_preference"`
	BudgetRange        string `json:"budget_range"`
}

type orderStatusArgs struct {
	OrderID       string `json:"order_id"`
	CustomerEmail string `json:"customer_email"`
}

type orderHistoryArgs struct {
	CustomerEmail string `json:"customer_email"`
	Limit         int    `json:"limit"`
}

type cancelOrderArgs struct {
	OrderID       string `json:"order_id"`
	CustomerEmail string `json:"customer_email"`
	Reason        string `json:"reason"`
}

type createOrderArgs struct {
	CustomerEmail   string          `json:"customer_email"`
	Items           []orderItemArgs `json:"items"`
	ShippingAddress string          `json:"shipping_address"`
}

type orderItemArgs struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// AgentTools adapts every tool to the agent runtime. Classified failures are
// handed back to the model as text so it can explain them to the customer.
func (s *Service) AgentTools() []agents.Tool {
	t := s.byName
	return []agents.Tool{
		agentTool(t[SearchProducts], func(a searchArgs) map[string]any {
			args := map[string]any{"query": a.Query, "category": a.Category}
			if a.MaxResults > 0 {
				args["max_results"] = a.MaxResults
			}
			return args
		}),
		agentTool(t[GetProductDetails], func(a productDetailsArgs) map[string]any {
			return map[string]any{"product_id": a.ProductID}
		}),
		agentTool(t[GetRecommendations], func(a recommendationArgs) map[string]any {
			return map[string]any{"customer_preference": a.CustomerPreference, "budget_range": a.BudgetRange}
		}),
		agentTool(t[CheckOrderStatus], func(a orderStatusArgs) map[string]any {
			return map[string]any{"order_id": a.OrderID, "customer_email": a.CustomerEmail}
		}),
		agentTool(t[GetOrderHistory], func(a orderHistoryArgs) map[string]any {
			args := map[string]any{"customer_email": a.CustomerEmail}
			if a.Limit > 0 {
				args["limit"] = a.Limit
			}
			return args
		}),
		agentTool(t[CancelOrder], func(a cancelOrderArgs) map[string]any {
			return map[string]any{"order_id": a.OrderID, "customer_email": a.CustomerEmail, "reason": a.Reason}
		}),
		agentTool(t[CreateOrder], func(a createOrderArgs) map[string]any {
			items := make([]any, 0, len(a.Items))
			for _, item := range a.Items {
				entry := map[string]any{"name": item.Name, "price": item.Price}
				if item.Quantity > 0 {
					entry["quantity"] = item.Quantity
				}
				items = append(items, entry)
			}
			return map[string]any{
				"customer_email":   a.CustomerEmail,
				"items":            items,
				"shipping_address": a.ShippingAddress,
			}
		}),
	}
}

func agentTool[T any](tool Tool, toArgs func(T) map[string]any) agents.FunctionTool {
	return agents.NewFunctionTool(
		tool.Name,
		tool.Description,
		func(ctx context.Context, params T) (string, error) {
			out, err := tool.Call(ctx, toArgs(params))
			if err != nil {
				if apperr.KindOf(err) == apperr.KindInternal {
					return "", err
				}
				return format.Error(err), nil
			}
			return out, nil
		},
	)
}
