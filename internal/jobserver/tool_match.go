package jobserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cyno-agent/cyno/internal/engine"
	"github.com/cyno-agent/cyno/internal/engine/jobs"
)

func registerJobMatch(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_match",
		Description: "Search for jobs and rank them against a resume. Each match carries a composite score (semantic similarity, title overlap with past roles, location fit) and a human-readable rationale.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.JobMatchInput) (*mcp.CallToolResult, engine.JobMatchOutput, error) {
		if strings.TrimSpace(input.Query) == "" {
			return nil, engine.JobMatchOutput{}, errors.New("query is required")
		}

		profile, err := resolveProfile(ctx, input.Resume)
		if err != nil {
			return nil, engine.JobMatchOutput{}, err
		}

		limit := input.Limit
		if limit <= 0 {
			limit = 10
		}

		report, err := jobs.RunAll(ctx, jobs.DefaultScrapers(), jobs.Query{
			Keywords: input.Query,
			Location: input.Location,
			Limit:    limit * 3, // rank from a wider pool than we return
		}, jobs.RunOptions{Limit: limit * 3, SkipSave: true})
		if err != nil {
			return nil, engine.JobMatchOutput{}, fmt.Errorf("job_match: %w", err)
		}

		matcher := jobs.NewMatcher(jobs.NewOllamaEmbedder())
		matches := matcher.Rank(ctx, profile, report.Postings)
		if len(matches) > limit {
			matches = matches[:limit]
		}

		out := engine.JobMatchOutput{
			Query:   input.Query,
			Matches: matches,
			Summary: fmt.Sprintf("Ranked %d of %d postings for %q", len(matches), len(report.Postings), input.Query),
		}
		return nil, out, nil
	})
}

// resolveProfile parses the provided resume, or falls back to the latest
// stored profile when the resume text is absent.
func resolveProfile(ctx context.Context, resume string) (engine.CandidateProfile, error) {
	if strings.TrimSpace(resume) != "" {
		profile, err := jobs.ParseResume(resume)
		if err != nil {
			return engine.CandidateProfile{}, fmt.Errorf("parse resume: %w", err)
		}
		return profile, nil
	}
	if db := jobs.GetProfileDB(); db != nil {
		profile, _, err := db.LoadLatest(ctx)
		if err == nil {
			return profile, nil
		}
	}
	return engine.CandidateProfile{}, errors.New("resume is required (no stored profile found)")
}
