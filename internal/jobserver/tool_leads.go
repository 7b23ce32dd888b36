package jobserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cyno-agent/cyno/internal/engine"
	"github.com/cyno-agent/cyno/internal/engine/jobs"
	"github.com/cyno-agent/cyno/internal/toolutil"
)

func registerLeadSearch(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "lead_search",
		Description: "Hunt for freelance leads by crossing the given skills with buying-intent search queries. Each lead carries a confidence score, any extracted contact email, and detected pain points for outreach.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.LeadSearchInput) (*mcp.CallToolResult, engine.LeadSearchOutput, error) {
		skills := splitSkills(input.Skills)
		if len(skills) == 0 {
			return nil, engine.LeadSearchOutput{}, errors.New("skills is required (comma-separated)")
		}

		limit := input.Limit
		if limit <= 0 {
			limit = 15
		}

		cacheKey := engine.CacheKey("lead_search", input.Skills, fmt.Sprintf("limit_%d", limit))
		if out, ok := engine.CacheLoadJSON[engine.LeadSearchOutput](ctx, cacheKey); ok {
			return nil, out, nil
		}

		leads, err := jobs.SearchLeads(ctx, skills, limit)
		if err != nil {
			return nil, engine.LeadSearchOutput{}, fmt.Errorf("lead_search: %w", err)
		}

		// Snippets rarely carry an address; fetch the pages of leads still
		// missing one and re-extract from the full content.
		var contactless []string
		for _, l := range leads {
			if l.Email == "" {
				contactless = append(contactless, l.URL)
			}
		}
		if len(contactless) > 0 {
			pages := toolutil.FetchURLsParallel(ctx, toolutil.Dedup(contactless), nil)
			leads = jobs.EnrichLeadsFromPages(leads, pages)
		}

		withEmail := 0
		for _, l := range leads {
			if l.Email != "" {
				withEmail++
			}
		}

		out := engine.LeadSearchOutput{
			Leads:   leads,
			Summary: fmt.Sprintf("Found %d leads for %s (%d with contact email)", len(leads), strings.Join(skills, ", "), withEmail),
		}
		engine.CacheStoreJSON(ctx, cacheKey, out)
		return nil, out, nil
	})
}

func splitSkills(s string) []string {
	var skills []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			skills = append(skills, part)
		}
	}
	return skills
}
