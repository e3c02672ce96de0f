package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worldofchami/shopassist/pkg/router"
	"github.com/worldofchami/shopassist/pkg/store"
	"github.com/worldofchami/shopassist/pkg/tools"
)

func newTestHandler(t *testing.T) *handler {
	t.Helper()
	stores, err := store.NewMemoryStores()
	require.NoError(t, err)
	return &handler{router: router.New(tools.NewServiceFromStores(stores), nil)}
}

func withToolName(name string) context.Context {
	return lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{
		AwsRequestID: "req-1",
		ClientContext: lambdacontext.ClientContext{
			Custom: map[string]string{toolNameKey: name},
		},
	})
}

func TestHandle(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name       string
		ctx        context.Context
		event      map[string]any
		wantStatus int
		wantBody   string
	}{
		{
			name:       "tool from client context",
			ctx:        withToolName("shop-target___search_products"),
			event:      map[string]any{"query": "wireless"},
			wantStatus: http.StatusOK,
			wantBody:   "(ID: PROD001)",
		},
		{
			name:       "tool from event",
			ctx:        context.Background(),
			event:      map[string]any{toolNameKey: "check_order_status", "order_id": "ord12345"},
			wantStatus: http.StatusOK,
			wantBody:   "1Z999AA1234567890",
		},
		{
			name:       "client context wins",
			ctx:        withToolName("get_product_details"),
			event:      map[string]any{toolNameKey: "search_products", "product_id": "PROD999"},
			wantStatus: http.StatusNotFound,
			wantBody:   "Product 'PROD999' not found",
		},
		{
			name:       "missing parameter",
			ctx:        withToolName("search_products"),
			event:      map[string]any{},
			wantStatus: http.StatusBadRequest,
			wantBody:   "query",
		},
		{
			name:       "no tool name",
			ctx:        context.Background(),
			event:      map[string]any{"query": "laptop"},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Unknown toolname",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := h.Handle(tt.ctx, tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, resp.Body, tt.wantBody)
		})
	}
}
