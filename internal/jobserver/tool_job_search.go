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

func registerJobSearch(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_search",
		Description: "Search for job listings across HN Who is Hiring, RemoteOK, WeWorkRemotely, Remotive, YC workatastartup.com, Twitter, and dorked boards (LinkedIn, Indeed, Glassdoor, Wellfound and more). Results are deduplicated, filtered, and saved to a timestamped CSV audit file. Returns structured JSON with per-source counts and failures.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.JobSearchInput) (*mcp.CallToolResult, engine.JobSearchOutput, error) {
		if strings.TrimSpace(input.Query) == "" {
			return nil, engine.JobSearchOutput{}, errors.New("query is required")
		}

		cacheKey := engine.CacheKey("job_search", input.Query, input.Location, input.Sources, fmt.Sprintf("limit_%d", input.Limit))
		if out, ok := engine.CacheLoadJSON[engine.JobSearchOutput](ctx, cacheKey); ok {
			return nil, out, nil
		}

		scrapers := jobs.FilterScrapers(jobs.DefaultScrapers(), input.Sources)
		if len(scrapers) == 0 {
			return nil, engine.JobSearchOutput{}, fmt.Errorf("no scrapers match sources filter %q", input.Sources)
		}

		var report *jobs.SearchReport
		err := engine.TrackOperation(ctx, "job_search", func(ctx context.Context) error {
			var err error
			report, err = jobs.RunAll(ctx, scrapers, jobs.Query{
				Keywords: input.Query,
				Location: input.Location,
				Limit:    input.Limit,
			}, jobs.RunOptions{
				Limit:    input.Limit,
				SkipSave: input.NoSave,
			})
			return err
		})
		if err != nil {
			return nil, engine.JobSearchOutput{}, fmt.Errorf("job_search: %w", err)
		}

		out := engine.JobSearchOutput{
			Query:    input.Query,
			Jobs:     report.Postings,
			Sources:  report.Sources,
			Failures: report.Failures,
			SavedTo:  report.SavedTo,
			Summary:  searchSummary(report),
		}
		engine.CacheStoreJSON(ctx, cacheKey, out)
		return nil, out, nil
	})
}

func searchSummary(r *jobs.SearchReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d postings for %q across %d sources", len(r.Postings), r.Query, len(r.Sources))
	if len(r.Failures) > 0 {
		fmt.Fprintf(&b, " (%d sources failed)", len(r.Failures))
	}
	if r.SavedTo != "" {
		fmt.Fprintf(&b, "; saved to %s", r.SavedTo)
	}
	return b.String()
}
