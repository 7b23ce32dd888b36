package jobserver

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cyno-agent/cyno/internal/engine"
)

func registerRoute(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "route_request",
		Description: "Classify a natural-language request into the right assistant action (job_search, job_match, resume_parse, lead_search, draft, tracker) with extracted parameters. Requests missing required parameters come back with a clarification question.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.RouteInput) (*mcp.CallToolResult, engine.RouteDecision, error) {
		if strings.TrimSpace(input.Message) == "" {
			return nil, engine.RouteDecision{}, errors.New("message is required")
		}
		return nil, Route(ctx, input.Message), nil
	})
}
