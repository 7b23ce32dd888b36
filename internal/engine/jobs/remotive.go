package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/cyno-agent/cyno/internal/engine"
)

const remotiveAPIURL = "https://remotive.com/api/remote-jobs"

// remotiveResponse is the Remotive public API response.
type remotiveResponse struct {
	Jobs []struct {
		URL         string `json:"url"`
		Title       string `json:"title"`
		CompanyName string `json:"company_name"`
		Location    string `json:"candidate_required_location"`
		Salary      string `json:"salary"`
		PublishDate string `json:"publication_date"`
		Description string `json:"description"`
	} `json:"jobs"`
}

// SearchRemotive queries the Remotive API, which supports server-side search.
func SearchRemotive(ctx context.Context, q Query) ([]engine.JobPosting, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	u, err := url.Parse(remotiveAPIURL)
	if err != nil {
		return nil, err
	}
	params := u.Query()
	if q.Keywords != "" {
		params.Set("search", q.Keywords)
	}
	params.Set("limit", strconv.Itoa(limit))
	u.RawQuery = params.Encode()

	body, err := engine.Fetch(ctx, u.String(), false)
	if err != nil {
		return nil, fmt.Errorf("remotive: %w", err)
	}

	var data remotiveResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("remotive: decode: %w", err)
	}

	var postings []engine.JobPosting
	for _, job := range data.Jobs {
		if job.Title == "" {
			continue
		}
		postings = append(postings, engine.JobPosting{
			Title:       job.Title,
			Company:     job.CompanyName,
			Location:    orDefault(job.Location, "Remote"),
			Salary:      job.Salary,
			Posted:      job.PublishDate,
			Description: engine.TruncateAtWord(engine.CleanHTML(job.Description), 1200),
			URL:         job.URL,
			Source:      "remotive",
		})
		if len(postings) >= limit {
			break
		}
	}

	slog.Debug("remotive: search complete", slog.Int("results", len(postings)))
	return postings, nil
}
