package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/worldofchami/shopassist/pkg/apperr"
	"github.com/worldofchami/shopassist/pkg/client"
	"github.com/worldofchami/shopassist/pkg/format"
	"github.com/worldofchami/shopassist/pkg/mcp"
	"github.com/worldofchami/shopassist/pkg/router"
	"github.com/worldofchami/shopassist/pkg/tools"
)

// caller runs a tool by name and returns its rendered text.
type caller interface {
	Call(ctx context.Context, name string, args map[string]any) (string, error)
	List(ctx context.Context) ([]mcp.ToolInfo, error)
}

// remoteError is a tool failure already rendered by the server.
type remoteError struct {
	text string
}

func (e *remoteError) Error() string { return e.text }

// render turns a tool failure into the text shown to the user.
func render(err error) string {
	var re *remoteError
	if errors.As(err, &re) {
		return re.text
	}
	return format.Error(err)
}

type localCaller struct {
	svc *tools.Service
}

func (l localCaller) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	t, ok := l.svc.Lookup(name)
	if !ok {
		return "", apperr.InvalidArgument("tool", "Unknown tool: %s", name)
	}
	return t.Call(ctx, args)
}

func (l localCaller) List(context.Context) ([]mcp.ToolInfo, error) {
	all := l.svc.Tools()
	out := make([]mcp.ToolInfo, 0, len(all))
	for _, t := range all {
		out = append(out, mcp.ToolInfo{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema})
	}
	return out, nil
}

// mcpCaller talks to cmd/mcp over JSON-RPC.
type mcpCaller struct {
	client *client.Client
}

func (m mcpCaller) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	result, err := m.client.CallMCPTool(ctx, name, args)
	if err != nil {
		var rpcErr *mcp.Error
		if errors.As(err, &rpcErr) {
			var data mcp.ToolErrorData
			if json.Unmarshal(rpcErr.Data, &data) == nil && data.Text != "" {
				return "", &remoteError{text: data.Text}
			}
		}
		return "", err
	}
	return result.String(), nil
}

func (m mcpCaller) List(ctx context.Context) ([]mcp.ToolInfo, error) {
	return m.client.ListTools(ctx)
}

// restCaller talks to the /tools endpoint of cmd/server, which serves the
// routed tools only.
type restCaller struct {
	client *client.Client
}

func (r restCaller) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	out, err := r.client.CallTool(ctx, name, args)
	if err != nil {
		var toolErr *client.ToolError
		if errors.As(err, &toolErr) {
			return "", &remoteError{text: toolErr.Body}
		}
		return "", err
	}
	return out, nil
}

func (r restCaller) List(context.Context) ([]mcp.ToolInfo, error) {
	out := make([]mcp.ToolInfo, 0, len(router.Routed))
	for _, name := range router.Routed {
		out = append(out, mcp.ToolInfo{Name: name})
	}
	return out, nil
}
