package jobserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cyno-agent/cyno/internal/engine"
	"github.com/cyno-agent/cyno/internal/engine/jobs"
)

func registerResumeParse(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resume_parse",
		Description: "Parse raw resume text into a structured candidate profile: skills, years of experience, education level, location, past roles, and top keywords. Optionally runs an LLM enrichment pass. The profile is stored for later job_match calls.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.ResumeParseInput) (*mcp.CallToolResult, engine.ResumeParseOutput, error) {
		profile, err := jobs.ParseResume(input.Resume)
		if err != nil {
			return nil, engine.ResumeParseOutput{}, err
		}

		if input.Enrich {
			profile = jobs.EnrichProfile(ctx, input.Resume, profile)
		}

		if db := jobs.GetProfileDB(); db != nil {
			if _, err := db.SaveProfile(ctx, profile); err != nil {
				slog.Warn("profile save failed", slog.Any("error", err))
			}
		}

		out := engine.ResumeParseOutput{
			Profile: profile,
			Summary: profileSummary(profile),
		}
		return nil, out, nil
	})
}

func profileSummary(p engine.CandidateProfile) string {
	return fmt.Sprintf("%d years, %s, %s; skills: %s",
		p.YearsExperience, p.Education, p.Location, strings.Join(p.Skills, ", "))
}
