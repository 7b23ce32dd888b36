package jobserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cyno-agent/cyno/internal/engine"
	"github.com/cyno-agent/cyno/internal/engine/jobs"
)

func registerDraft(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "draft",
		Description: "Generate an application document: a cover letter tailored to a job description (with ATS keywords worked in), a cold outreach email for a freelance lead, or a deterministic ATS keyword overlap report.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.DraftInput) (*mcp.CallToolResult, engine.DraftOutput, error) {
		result, err := jobs.DraftDocument(ctx, input.Kind, input.Resume, input.JobDescription, input.LeadContext, input.Tone)
		if err != nil {
			return nil, engine.DraftOutput{}, err
		}

		out := engine.DraftOutput{
			Kind:    input.Kind,
			Text:    result.Text,
			Backend: result.BackendUsed,
		}
		return nil, out, nil
	})
}
