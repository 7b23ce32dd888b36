package jobs

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cyno-agent/cyno/internal/engine"
)

const wwrFeedURL = "https://weworkremotely.com/remote-jobs.rss"

// wwrFeed is the We Work Remotely RSS document.
type wwrFeed struct {
	Channel struct {
		Items []wwrItem `xml:"item"`
	} `xml:"channel"`
}

type wwrItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Region      string `xml:"region"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// SearchWeWorkRemotely reads the WWR RSS feed and filters it by the query.
// Item titles follow "Company: Role".
func SearchWeWorkRemotely(ctx context.Context, q Query) ([]engine.JobPosting, error) {
	body, err := engine.Fetch(ctx, wwrFeedURL, false)
	if err != nil {
		return nil, fmt.Errorf("wwr: %w", err)
	}

	var feed wwrFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("wwr: decode feed: %w", err)
	}

	keywords := strings.Fields(strings.ToLower(q.Keywords))
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	var postings []engine.JobPosting
	for _, item := range feed.Channel.Items {
		if item.Title == "" {
			continue
		}
		desc := engine.CleanHTML(item.Description)
		if !containsAllKeywords(item.Title+" "+desc, keywords) {
			continue
		}
		company, role := splitWWRTitle(item.Title)
		postings = append(postings, engine.JobPosting{
			Title:       role,
			Company:     company,
			Location:    orDefault(item.Region, "Remote"),
			Posted:      item.PubDate,
			Description: engine.TruncateAtWord(desc, 1200),
			URL:         item.Link,
			Source:      "wwr",
		})
		if len(postings) >= limit {
			break
		}
	}

	slog.Debug("wwr: search complete", slog.Int("feed", len(feed.Channel.Items)), slog.Int("results", len(postings)))
	return postings, nil
}

// splitWWRTitle splits "Company: Role" into its halves. Titles without a
// colon are treated as a bare role.
func splitWWRTitle(title string) (company, role string) {
	if idx := strings.Index(title, ": "); idx > 0 {
		return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+2:])
	}
	return "", strings.TrimSpace(title)
}

// containsAllKeywords requires every keyword to appear in the text.
func containsAllKeywords(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if !strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}
