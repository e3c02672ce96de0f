package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/worldofchami/shopassist/pkg/apperr"
	"github.com/worldofchami/shopassist/pkg/format"
	"github.com/worldofchami/shopassist/pkg/router"
	"github.com/worldofchami/shopassist/pkg/tools"
	"go.uber.org/zap"
)

const (
	ServerName    = "shopassist-mcp"
	ServerVersion = "0.1.0"

	maxBodyBytes = 1 << 20
)

// Server answers JSON-RPC requests against every tool in a tools.Service,
// including create_order.
type Server struct {
	tools  *tools.Service
	logger *zap.Logger
	token  string
}

type Option func(*Server)

// WithToken requires a bearer token on /rpc.
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

func NewServer(svc *tools.Service, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{tools: svc, logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Routes mounts POST /rpc and GET /healthz.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.With(router.BearerAuth(s.token)).Post("/rpc", s.handleRPC)
	return r
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, replyError(nil, CodeParseError, "Parse error", err.Error()))
		return
	}

	if req.IsNotification() {
		s.logger.Debug("notification", zap.String("method", req.Method))
		w.WriteHeader(http.StatusAccepted)
		return
	}

	writeJSON(w, http.StatusOK, s.Handle(r.Context(), req))
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(resp)
}

// Handle dispatches one request by method.
func (s *Server) Handle(ctx context.Context, req Request) Response {
	if req.JSONRPC != JSONRPCVersion {
		return replyError(req.ID, CodeInvalidRequest, "Invalid Request", map[string]any{
			"reason": "jsonrpc must be \"2.0\"",
		})
	}

	switch req.Method {
	case MethodInitialize:
		return s.handleInitialize(req)
	case MethodPing:
		return replyResult(req.ID, map[string]any{})
	case MethodToolsList:
		return s.handleToolsList(req)
	case MethodToolsCall:
		return s.handleToolsCall(ctx, req)
	default:
		return replyError(req.ID, CodeMethodNotFound, "Method not found", map[string]any{
			"method": req.Method,
		})
	}
}

func (s *Server) handleInitialize(req Request) Response {
	return replyResult(req.ID, map[string]any{
		"protocolVersion": ProtocolVersion,
		"serverInfo": map[string]any{
			"name":    ServerName,
			"version": ServerVersion,
		},
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
	})
}

func (s *Server) handleToolsList(req Request) Response {
	all := s.tools.Tools()
	list := make([]ToolInfo, 0, len(all))
	for _, t := range all {
		list = append(list, ToolInfo{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	return replyResult(req.ID, ToolsListResult{Tools: list})
}

func (s *Server) handleToolsCall(ctx context.Context, req Request) Response {
	var p ToolsCallParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return replyError(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}

	t, ok := s.tools.Lookup(p.Name)
	if !ok {
		return replyError(req.ID, CodeInvalidParams, "Invalid params", map[string]any{
			"reason": "unknown tool",
			"name":   p.Name,
		})
	}

	logger := s.logger.With(
		zap.String("call_id", uuid.NewString()),
		zap.ByteString("request_id", req.ID),
		zap.String("tool", p.Name),
	)
	logger.Info("tool call", zap.Any("arguments", p.Arguments))

	args := p.Arguments
	if args == nil {
		args = map[string]any{}
	}

	start := time.Now()
	text, err := t.Call(ctx, args)
	if err != nil {
		logger.Warn("tool error", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return toolError(req.ID, err)
	}

	logger.Info("tool output", zap.Duration("duration", time.Since(start)), zap.Int("length", len(text)))
	return replyResult(req.ID, Text(text))
}

// toolError reports a failed call. Bad arguments are invalid params; every
// other kind is a tool execution error.
func toolError(id json.RawMessage, err error) Response {
	kind := apperr.KindOf(err)
	data := ToolErrorData{
		Kind:    string(kind),
		Message: err.Error(),
		Text:    format.Error(err),
	}
	if kind == apperr.KindInvalidArgument {
		return replyError(id, CodeInvalidParams, "Invalid params", data)
	}
	return replyError(id, CodeToolError, "Tool execution error", data)
}

func replyResult(id json.RawMessage, result any) Response {
	return Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  mustMarshalRaw(result),
	}
}

func replyError(id json.RawMessage, code int, message string, data any) Response {
	return Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error: &Error{
			Code:    code,
			Message: message,
			Data:    mustMarshalRaw(data),
		},
	}
}
