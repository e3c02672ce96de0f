package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/worldofchami/shopassist/pkg/router"
)

// toolNameKey names the tool in the client context set by the agent gateway.
const toolNameKey = "bedrockAgentCoreToolName"

type handler struct {
	router *router.Router
}

// Handle takes the event as the flat tool parameters. The tool name comes
// from the client context, or from the event itself when invoked directly.
func (h *handler) Handle(ctx context.Context, event map[string]any) (router.Response, error) {
	name := ""
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.ClientContext.Custom != nil {
		name = lc.ClientContext.Custom[toolNameKey]
	}

	params := make(map[string]any, len(event))
	for k, v := range event {
		if k == toolNameKey {
			if s, ok := v.(string); ok && name == "" {
				name = s
			}
			continue
		}
		params[k] = v
	}

	return h.router.Handle(ctx, router.Request{ToolName: name, Params: params}), nil
}
