package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cyno-agent/cyno/internal/engine"
)

// jobSearchTerms are appended to queries that don't already look job-related.
const jobSearchTerms = `hiring OR job OR career OR vacancy`

// isJobQuery returns true if the query already contains job-related terms.
func isJobQuery(q string) bool {
	lower := strings.ToLower(q)
	for _, term := range []string{"hiring", "job", "career", "vacancy", "recruit", "looking for"} {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// buildTwitterJobQuery enhances a query with job-related terms if needed.
func buildTwitterJobQuery(query string) string {
	if isJobQuery(query) {
		return query
	}
	return query + " " + jobSearchTerms
}

// SearchTwitterJobs searches the Twitter timeline for hiring posts. Tweets
// rarely carry structured fields, so the first line becomes the title and
// the full text the description.
func SearchTwitterJobs(ctx context.Context, q Query) ([]engine.JobPosting, error) {
	tw := engine.Cfg.TwitterClient
	if tw == nil {
		return nil, errors.New("twitter client not configured")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	twitterQuery := buildTwitterJobQuery(q.Keywords)

	tweets, err := tw.SearchTimeline(ctx, twitterQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("twitter search: %w", err)
	}

	slog.Debug("twitter job search", slog.Int("tweets", len(tweets)), slog.String("query", twitterQuery))

	postings := make([]engine.JobPosting, 0, len(tweets))
	for _, t := range tweets {
		text := strings.TrimSpace(t.Text)
		lines := strings.SplitN(text, "\n", 2)
		title := engine.TruncateRunes(lines[0], 120, "...")

		postings = append(postings, engine.JobPosting{
			Title:       title,
			Company:     "@" + t.AuthorID,
			Posted:      t.CreatedAt.Format("2006-01-02T15:04:05Z"),
			Description: text,
			URL:         "https://x.com/i/status/" + t.ID,
			Source:      "twitter",
		})
	}
	return postings, nil
}
