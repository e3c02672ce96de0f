package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/worldofchami/shopassist/pkg/client"
	"github.com/worldofchami/shopassist/pkg/config"
	"github.com/worldofchami/shopassist/pkg/logging"
	"github.com/worldofchami/shopassist/pkg/mcp"
	"github.com/worldofchami/shopassist/pkg/store"
	"github.com/worldofchami/shopassist/pkg/tools"
	"go.uber.org/zap"
)

// errToolFailed is returned after a tool failure has been printed.
var errToolFailed = errors.New("tool failed")

const (
	protocolMCP  = "mcp"
	protocolREST = "rest"
)

type app struct {
	jsonOut  bool
	verbose  bool
	remote   string
	protocol string
	token    string
	timeout  time.Duration

	logger *zap.Logger
	caller caller
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "shop-cli",
		Short:         "Query the shop catalog and orders",
		Long:          "shop-cli runs the shop tools in-process, or against a running MCP or chat server with --remote.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&a.jsonOut, "json", false, "print MCP-shaped JSON instead of text")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging to stderr")
	flags.StringVar(&a.remote, "remote", "", "base URL of a running server (empty runs the tools in-process)")
	flags.StringVar(&a.protocol, "protocol", protocolMCP, "remote protocol: mcp (POST /rpc) or rest (POST /tools/{tool})")
	flags.StringVar(&a.token, "token", os.Getenv("SHOP_TOKEN"), "bearer token for the remote server")
	flags.DurationVar(&a.timeout, "timeout", 20*time.Second, "per-call timeout")

	root.AddCommand(
		a.searchCmd(),
		a.detailsCmd(),
		a.recommendCmd(),
		a.orderCmd(),
		a.historyCmd(),
		a.cancelCmd(),
		a.createCmd(),
		a.toolsCmd(),
	)
	return root
}

func (a *app) setup() error {
	level := "warn"
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(config.Log{Level: level, Format: "console", Outputs: []string{"stderr"}})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	if a.caller != nil {
		return nil
	}

	if a.remote == "" {
		stores, err := store.NewMemoryStores()
		if err != nil {
			return err
		}
		a.caller = localCaller{svc: tools.NewServiceFromStores(stores)}
		return nil
	}

	c := client.NewClient(a.remote,
		client.WithUserAgent("shop-cli/0.1.0"),
		client.WithBearerToken(a.token),
	)
	switch a.protocol {
	case protocolMCP:
		a.caller = mcpCaller{client: c}
	case protocolREST:
		a.caller = restCaller{client: c}
	default:
		return fmt.Errorf("unknown protocol %q (must be %s or %s)", a.protocol, protocolMCP, protocolREST)
	}
	logger.Debug("using remote server", zap.String("url", a.remote), zap.String("protocol", a.protocol))
	return nil
}

// run calls one tool and prints the outcome. Failures are printed in full
// and reported to cobra as errToolFailed.
func (a *app) run(cmd *cobra.Command, name string, args map[string]any) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
	defer cancel()

	a.logger.Debug("calling tool", zap.String("tool", name), zap.Any("arguments", args))
	start := time.Now()
	out, err := a.caller.Call(ctx, name, args)
	a.logger.Debug("tool returned", zap.String("tool", name), zap.Duration("duration", time.Since(start)), zap.Error(err))

	if a.jsonOut {
		result := mcp.Text(out)
		if err != nil {
			result = mcp.Text(render(err))
			result.IsError = true
		}
		if encErr := a.printJSON(cmd, result); encErr != nil {
			return encErr
		}
		if err != nil {
			return errToolFailed
		}
		return nil
	}

	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), render(err))
		return errToolFailed
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func (a *app) printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) searchCmd() *cobra.Command {
	var category string
	var maxResults int
	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search products by keywords",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]any{"query": strings.Join(args, " ")}
			if cmd.Flags().Changed("category") {
				params["category"] = category
			}
			if cmd.Flags().Changed("max") {
				params["max_results"] = maxResults
			}
			return a.run(cmd, tools.SearchProducts, params)
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "all", "category filter (electronics, clothing, books, all)")
	cmd.Flags().IntVarP(&maxResults, "max", "n", 5, "maximum number of results")
	return cmd
}

func (a *app) detailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details [product-id]",
		Short: "Show full details for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, tools.GetProductDetails, map[string]any{"product_id": args[0]})
		},
	}
}

func (a *app) recommendCmd() *cobra.Command {
	var budget string
	cmd := &cobra.Command{
		Use:   "recommend [preference...]",
		Short: "Recommend products for a preference and budget",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]any{"customer_preference": strings.Join(args, " ")}
			if cmd.Flags().Changed("budget") {
				params["budget_range"] = budget
			}
			return a.run(cmd, tools.GetRecommendations, params)
		},
	}
	cmd.Flags().StringVarP(&budget, "budget", "b", "any", "budget range (under_50, 50_200, 200_500, over_500, any)")
	return cmd
}

func (a *app) orderCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "order [order-id]",
		Short: "Check the status of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]any{"order_id": args[0]}
			if email != "" {
				params["customer_email"] = email
			}
			return a.run(cmd, tools.CheckOrderStatus, params)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "customer email to verify ownership")
	return cmd
}

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [email]",
		Short: "List a customer's orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]any{"customer_email": args[0]}
			if cmd.Flags().Changed("limit") {
				params["limit"] = limit
			}
			return a.run(cmd, tools.GetOrderHistory, params)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "maximum number of orders")
	return cmd
}

func (a *app) cancelCmd() *cobra.Command {
	var email, reason string
	cmd := &cobra.Command{
		Use:   "cancel [order-id]",
		Short: "Cancel an order that has not shipped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]any{"order_id": args[0], "customer_email": email}
			if reason != "" {
				params["reason"] = reason
			}
			return a.run(cmd, tools.CancelOrder, params)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "customer email (required)")
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "cancellation reason")
	return cmd
}

func (a *app) createCmd() *cobra.Command {
	var email, address string
	var items []string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Place an order",
		Example: `  shop-cli create --email jane@example.com --address "1 Main St" \
    --item "Running Shoes:1:129.99" --item "Smartphone Case:2:24.99"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed := make([]any, 0, len(items))
			for _, raw := range items {
				item, err := parseItem(raw)
				if err != nil {
					return err
				}
				parsed = append(parsed, item)
			}
			return a.run(cmd, tools.CreateOrder, map[string]any{
				"customer_email":   email,
				"shipping_address": address,
				"items":            parsed,
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "customer email")
	cmd.Flags().StringVarP(&address, "address", "a", "", "shipping address")
	cmd.Flags().StringArrayVarP(&items, "item", "i", nil, `order line as "name:quantity:price" (repeatable)`)
	return cmd
}

// parseItem reads "name:quantity:price". The name may itself contain colons.
func parseItem(raw string) (map[string]any, error) {
	rest, priceText, ok := cutLast(raw, ":")
	if !ok {
		return nil, fmt.Errorf("invalid item %q: want name:quantity:price", raw)
	}
	name, qtyText, ok := cutLast(rest, ":")
	if !ok {
		return nil, fmt.Errorf("invalid item %q: want name:quantity:price", raw)
	}

	qty, err := strconv.Atoi(strings.TrimSpace(qtyText))
	if err != nil {
		return nil, fmt.Errorf("invalid quantity in item %q: %w", raw, err)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(priceText), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price in item %q: %w", raw, err)
	}

	return map[string]any{
		"name":     strings.TrimSpace(name),
		"quantity": qty,
		"price":    price,
	}, nil
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}

func (a *app) toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
			defer cancel()

			list, err := a.caller.List(ctx)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(cmd, mcp.ToolsListResult{Tools: list})
			}
			for _, t := range list {
				if t.Description == "" {
					fmt.Fprintln(cmd.OutOrStdout(), t.Name)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", t.Name, t.Description)
			}
			return nil
		},
	}
}
