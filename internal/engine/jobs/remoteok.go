package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cyno-agent/cyno/internal/engine"
)

const remoteOKAPIURL = "https://remoteok.com/api"

// remoteOKJob is one entry in the RemoteOK API feed. The feed's first element
// is a legal notice object without these fields; it decodes to a zero value
// and is skipped by the empty-title check.
type remoteOKJob struct {
	ID          string   `json:"id"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	Location    string   `json:"location"`
	Salary      string   `json:"salary"`
	Date        string   `json:"date"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// SearchRemoteOK pulls the RemoteOK public feed and filters it by the query.
// The feed has no server-side search, so matching happens client-side over
// position, tags, company, and description.
func SearchRemoteOK(ctx context.Context, q Query) ([]engine.JobPosting, error) {
	body, err := engine.Fetch(ctx, remoteOKAPIURL, false)
	if err != nil {
		return nil, fmt.Errorf("remoteok: %w", err)
	}

	var feed []remoteOKJob
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("remoteok: decode feed: %w", err)
	}

	keywords := strings.Fields(strings.ToLower(q.Keywords))
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	var postings []engine.JobPosting
	for _, job := range feed {
		if job.Position == "" {
			continue
		}
		if !remoteOKMatches(job, keywords) {
			continue
		}
		postings = append(postings, engine.JobPosting{
			Title:       job.Position,
			Company:     job.Company,
			Location:    orDefault(job.Location, "Remote"),
			Salary:      job.Salary,
			Posted:      job.Date,
			Description: engine.TruncateAtWord(engine.CleanHTML(job.Description), 1200),
			URL:         job.URL,
			Source:      "remoteok",
		})
		if len(postings) >= limit {
			break
		}
	}

	slog.Debug("remoteok: search complete", slog.Int("feed", len(feed)), slog.Int("results", len(postings)))
	return postings, nil
}

// remoteOKMatches requires every query keyword to appear somewhere in the job.
func remoteOKMatches(job remoteOKJob, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	haystack := strings.ToLower(job.Position + " " + job.Company + " " +
		strings.Join(job.Tags, " ") + " " + job.Description)
	for _, kw := range keywords {
		if !strings.Contains(haystack, kw) {
			return false
		}
	}
	return true
}
