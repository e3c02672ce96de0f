package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worldofchami/shopassist/pkg/mcp"
	"github.com/worldofchami/shopassist/pkg/store"
	"github.com/worldofchami/shopassist/pkg/tools"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&app{})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestSearch(t *testing.T) {
	out, _, err := execute(t, "search", "wireless", "headphones")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 products matching 'wireless headphones'")

	out, _, err = execute(t, "search", "laptop", "--category", "clothing")
	require.NoError(t, err)
	assert.Contains(t, out, "No products found matching 'laptop' in category 'clothing'")

	out, _, err = execute(t, "search", "case", "wireless", "laptop", "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 products")
}

func TestDetailsNotFound(t *testing.T) {
	out, errOut, err := execute(t, "details", "PROD004")
	require.ErrorIs(t, err, errToolFailed)
	assert.Empty(t, out)
	assert.Equal(t, "❌ Product 'PROD004' not found\n", errOut)
}

func TestRecommend(t *testing.T) {
	out, _, err := execute(t, "recommend", "gam", "--budget", "50_200")
	require.NoError(t, err)
	assert.Contains(t, out, "Gaming Mouse RGB")
	assert.Contains(t, out, "Mechanical Keyboard")
	assert.NotContains(t, out, "Gaming Laptop Pro")
}

func TestOrderCommands(t *testing.T) {
	_, errOut, err := execute(t, "order", "ORD12345", "--email", "wrong@example.com")
	require.ErrorIs(t, err, errToolFailed)
	assert.Contains(t, errOut, "doesn't match")

	out, _, err := execute(t, "order", "ord12345", "-e", "customer@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "1Z999AA1234567890")

	out, _, err = execute(t, "history", "customer@example.com", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "ORD12345")

	out, _, err = execute(t, "cancel", "ORD12346", "--email", "shopper@example.com", "--reason", "Changed my mind")
	require.NoError(t, err)
	assert.Contains(t, out, "ORD12346")
	assert.Contains(t, out, "$1299.99")

	_, errOut, err = execute(t, "cancel", "ORD12345", "--email", "customer@example.com")
	require.ErrorIs(t, err, errToolFailed)
	assert.Contains(t, errOut, "Cannot cancel order with status: Shipped")
}

func TestCreate(t *testing.T) {
	out, _, err := execute(t, "create",
		"--email", "jane@example.com",
		"--address", "1 Main St",
		"--item", "Programming Book: Python Mastery:2:39.99",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "placed for jane@example.com")
	assert.Contains(t, out, "$79.98")

	_, errOut, err := execute(t, "create", "--email", "jane@example.com", "--address", "1 Main St")
	require.ErrorIs(t, err, errToolFailed)
	assert.Contains(t, errOut, "items")

	_, _, err = execute(t, "create", "--email", "jane@example.com", "--address", "x", "--item", "Shoes")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errToolFailed)
}

func TestJSONOutput(t *testing.T) {
	out, _, err := execute(t, "--json", "details", "prod001")
	require.NoError(t, err)

	var result mcp.ToolResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.IsError)
	assert.Contains(t, result.String(), "Wireless Bluetooth Headphones")

	out, _, err = execute(t, "--json", "details", "PROD999")
	require.ErrorIs(t, err, errToolFailed)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.IsError)
	assert.Equal(t, "❌ Product 'PROD999' not found", result.String())
}

func TestTools(t *testing.T) {
	out, _, err := execute(t, "tools")
	require.NoError(t, err)
	for _, name := range []string{tools.SearchProducts, tools.CreateOrder, tools.CancelOrder} {
		assert.Contains(t, out, name)
	}
}

func TestRemoteMCP(t *testing.T) {
	stores, err := store.NewMemoryStores()
	require.NoError(t, err)
	srv := httptest.NewServer(mcp.NewServer(tools.NewServiceFromStores(stores), nil, mcp.WithToken("s3cret")).Routes())
	defer srv.Close()

	out, _, err := execute(t, "--remote", srv.URL, "--token", "s3cret", "search", "python")
	require.NoError(t, err)
	assert.Contains(t, out, "(ID: PROD005)")

	_, errOut, err := execute(t, "--remote", srv.URL, "--token", "s3cret", "details", "PROD999")
	require.ErrorIs(t, err, errToolFailed)
	assert.Equal(t, "❌ Product 'PROD999' not found\n", errOut)

	out, _, err = execute(t, "--remote", srv.URL, "--token", "s3cret", "--json", "tools")
	require.NoError(t, err)
	var list mcp.ToolsListResult
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Len(t, list.Tools, 7)

	_, _, err = execute(t, "--remote", srv.URL, "--token", "wrong", "tools")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestUnknownProtocol(t *testing.T) {
	_, _, err := execute(t, "--remote", "localhost:1", "--protocol", "grpc", "tools")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown protocol")
}

func TestParseItem(t *testing.T) {
	item, err := parseItem("Programming Book: Python Mastery:2:39.99")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Programming Book: Python Mastery", "quantity": 2, "price": 39.99}, item)

	for _, bad := range []string{"Shoes", "Shoes:1", "Shoes:one:9.99", "Shoes:1:free"} {
		_, err := parseItem(bad)
		assert.Error(t, err, bad)
	}
}
