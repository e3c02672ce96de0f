// Package router dispatches a routed tool invocation to the matching tool and
// turns the outcome into a status code and a text body.
package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/worldofchami/shopassist/pkg/apperr"
	"github.com/worldofchami/shopassist/pkg/format"
	"github.com/worldofchami/shopassist/pkg/tools"
	"go.uber.org/zap"
)

// ToolNameDelimiter separates the gateway target prefix from the tool name,
// as in "shop-target___search_products".
const ToolNameDelimiter = "___"

// Request is one routed invocation.
type Request struct {
	ToolName string         `json:"toolName"`
	Params   map[string]any `json:"params"`
}

// Response mirrors the serverless function result shape.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Router serves the routable subset of tools.
type Router struct {
	tools  map[string]tools.Tool
	logger *zap.Logger
}

// Routed lists the tools reachable through the router. Order creation is left
// out because its item list cannot travel as flat parameters.
var Routed = []string{
	tools.SearchProducts,
	tools.GetProductDetails,
	tools.GetRecommendations,
	tools.CheckOrderStatus,
	tools.GetOrderHistory,
	tools.CancelOrder,
}

func New(svc *tools.Service, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		tools:  make(map[string]tools.Tool, len(Routed)),
		logger: logger,
	}
	for _, name := range Routed {
		if t, ok := svc.Lookup(name); ok {
			r.tools[name] = t
		}
	}
	return r
}

// ResolveToolName strips the target prefix: the tool name is whatever
// follows the first delimiter. Names without a delimiter are used as given.
func ResolveToolName(extended string) string {
	if _, name, found := strings.Cut(extended, ToolNameDelimiter); found {
		return name
	}
	return extended
}

// Handle runs the invocation. It never returns an error; failures become
// 400 or 404 responses with a rendered body.
func (r *Router) Handle(ctx context.Context, req Request) Response {
	name := ResolveToolName(req.ToolName)
	logger := r.logger.With(
		zap.String("invocation_id", uuid.NewString()),
		zap.String("tool", name),
	)
	start := time.Now()

	resp := r.dispatch(ctx, name, req.Params)

	fields := []zap.Field{
		zap.Any("arguments", req.Params),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	}
	if resp.StatusCode == http.StatusOK {
		logger.Info("tool invoked", fields...)
	} else {
		logger.Warn("tool failed", append(fields, zap.String("body", resp.Body))...)
	}
	return resp
}

func (r *Router) dispatch(ctx context.Context, name string, params map[string]any) (resp Response) {
	tool, ok := r.tools[name]
	if !ok {
		return Response{
			StatusCode: http.StatusBadRequest,
			Body:       "❌ Unknown toolname: " + name,
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool panicked", zap.String("tool", name), zap.Any("panic", rec))
			resp = Response{StatusCode: http.StatusBadRequest, Body: "❌ internal error"}
		}
	}()

	out, err := tool.Call(ctx, params)
	if err != nil {
		return Response{StatusCode: statusCode(err), Body: format.Error(err)}
	}
	return Response{StatusCode: http.StatusOK, Body: out}
}

// statusCode maps a tool failure onto the router's three status codes.
// Anything that is not a missing record is reported as a bad request.
func statusCode(err error) int {
	if apperr.Is(err, apperr.KindNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
