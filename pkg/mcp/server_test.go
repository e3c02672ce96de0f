package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worldofchami/shopassist/pkg/apperr"
	"github.com/worldofchami/shopassist/pkg/orders"
	"github.com/worldofchami/shopassist/pkg/store"
	"github.com/worldofchami/shopassist/pkg/tools"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestServer(t *testing.T, opts ...Option) (*Server, *observer.ObservedLogs) {
	t.Helper()
	stores, err := store.NewMemoryStores()
	require.NoError(t, err)
	svc := tools.NewServiceFromStores(stores,
		orders.WithClock(func() time.Time { return time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC) }),
		orders.WithIDGenerator(func() string { return "ORD77777" }),
	)
	core, logs := observer.New(zapcore.DebugLevel)
	return NewServer(svc, zap.New(core), opts...), logs
}

func request(t *testing.T, id int, method string, params any) Request {
	t.Helper()
	req := Request{JSONRPC: JSONRPCVersion, ID: mustMarshalRaw(id), Method: method}
	if params != nil {
		req.Params = mustMarshalRaw(params)
	}
	return req
}

func callParams(name string, args map[string]any) ToolsCallParams {
	return ToolsCallParams{Name: name, Arguments: args}
}

func TestHandle_Initialize(t *testing.T) {
	s, _ := newTestServer(t)

	resp := s.Handle(context.Background(), request(t, 1, MethodInitialize, nil))
	require.Nil(t, resp.Error)
	assert.JSONEq(t, "1", string(resp.ID))

	var result map[string]any
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, ProtocolVersion, result["protocolVersion"])
	assert.Equal(t, ServerName, result["serverInfo"].(map[string]any)["name"])
}

func TestHandle_ToolsList(t *testing.T) {
	s, _ := newTestServer(t)

	resp := s.Handle(context.Background(), request(t, 2, MethodToolsList, nil))
	require.Nil(t, resp.Error)

	var result ToolsListResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Tools, 7)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
		assert.Equal(t, "object", tool.InputSchema["type"])
	}
	assert.Contains(t, names, tools.CreateOrder)
	assert.Equal(t, tools.SearchProducts, names[0])
}

func TestHandle_ToolsCall(t *testing.T) {
	s, logs := newTestServer(t)
	ctx := context.Background()

	resp := s.Handle(ctx, request(t, 3, MethodToolsCall, callParams(tools.SearchProducts, map[string]any{
		"query":    "laptop",
		"category": "electronics",
	})))
	require.Nil(t, resp.Error)

	var result ToolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	assert.Contains(t, result.String(), "(ID: PROD002)")
	assert.False(t, result.IsError)

	assert.Equal(t, 2, logs.FilterMessage("tool call").Len()+logs.FilterMessage("tool output").Len())
}

func TestHandle_CreateOrder(t *testing.T) {
	s, _ := newTestServer(t)

	resp := s.Handle(context.Background(), request(t, 4, MethodToolsCall, callParams(tools.CreateOrder, map[string]any{
		"customer_email":   "jane@example.com",
		"shipping_address": "1 Main St, Springfield",
		"items": []any{
			map[string]any{"name": "Wireless Bluetooth Headphones", "quantity": 2, "price": 89.99},
		},
	})))
	require.Nil(t, resp.Error)

	var result ToolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Contains(t, result.String(), "ORD77777")
}

func TestHandle_ToolErrors(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		params   any
		wantCode int
		wantKind apperr.Kind
		wantText string
	}{
		{
			name:     "missing product",
			params:   callParams(tools.GetProductDetails, map[string]any{"product_id": "PROD999"}),
			wantCode: CodeToolError,
			wantKind: apperr.KindNotFound,
			wantText: "❌ Product 'PROD999' not found",
		},
		{
			name:     "missing argument",
			params:   callParams(tools.SearchProducts, nil),
			wantCode: CodeInvalidParams,
			wantKind: apperr.KindInvalidArgument,
			wantText: "query",
		},
		{
			name:     "email mismatch",
			params:   callParams(tools.CheckOrderStatus, map[string]any{"order_id": "ORD12345", "customer_email": "someone@else.com"}),
			wantCode: CodeToolError,
			wantKind: apperr.KindUnauthorized,
			wantText: "doesn't match",
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.Handle(ctx, request(t, 10+i, MethodToolsCall, tt.params))
			require.NotNil(t, resp.Error)
			assert.Empty(t, resp.Result)
			assert.Equal(t, tt.wantCode, resp.Error.Code)

			var data ToolErrorData
			require.NoError(t, json.Unmarshal(resp.Error.Data, &data))
			assert.Equal(t, string(tt.wantKind), data.Kind)
			assert.Contains(t, data.Text, tt.wantText)
		})
	}
}

func TestHandle_ProtocolErrors(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	resp := s.Handle(ctx, request(t, 1, "resources/list", nil))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)

	resp = s.Handle(ctx, request(t, 2, MethodToolsCall, callParams("delete_everything", nil)))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)
	assert.Contains(t, string(resp.Error.Data), "unknown tool")

	resp = s.Handle(ctx, Request{JSONRPC: JSONRPCVersion, ID: mustMarshalRaw(3), Method: MethodToolsCall, Params: json.RawMessage(`[1,2]`)})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)

	resp = s.Handle(ctx, Request{JSONRPC: "1.0", ID: mustMarshalRaw(4), Method: MethodPing})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidRequest, resp.Error.Code)

	resp = s.Handle(ctx, request(t, 5, MethodPing, nil))
	assert.Nil(t, resp.Error)
	assert.JSONEq(t, `{}`, string(resp.Result))
}

func postRPC(handler http.Handler, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	s, _ := newTestServer(t)
	handler := s.Routes()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = postRPC(handler, `{"jsonrpc":"2.0","id":"a","method":"tools/call","params":{"name":"get_recommendations","arguments":{"customer_preference":"fitness","budget_range":"50_200"}}}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.JSONEq(t, `"a"`, string(resp.ID))
	require.Nil(t, resp.Error)

	var result ToolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Contains(t, result.String(), "Would you like more details")

	rec = postRPC(handler, `{"jsonrpc":"2.0","method":"`+MethodInitialized+`"}`, "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = postRPC(handler, `{"jsonrpc":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeParseError, resp.Error.Code)
}

func TestRoutes_Token(t *testing.T) {
	s, _ := newTestServer(t, WithToken("s3cret"))
	handler := s.Routes()
	body := `{"jsonrpc":"2.0","id":1,"method":"ping"}`

	assert.Equal(t, http.StatusUnauthorized, postRPC(handler, body, "").Code)
	assert.Equal(t, http.StatusUnauthorized, postRPC(handler, body, "wrong").Code)
	assert.Equal(t, http.StatusOK, postRPC(handler, body, "s3cret").Code)
}

func TestToolResult_String(t *testing.T) {
	r := ToolResult{Content: []ContentItem{
		{Type: "text", Text: "one"},
		{Type: "image"},
		{Type: "text", Text: "two"},
	}}
	assert.Equal(t, "one\ntwo", r.String())
	assert.Equal(t, "", ToolResult{}.String())
	assert.Equal(t, "hi", Text("hi").String())
}
