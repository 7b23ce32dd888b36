package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/cyno-agent/cyno/internal/engine"
)

const ycJobsSearchURL = "https://www.workatastartup.com/jobs"
const ycSiteSearch = "site:workatastartup.com"

// SearchYCJobs searches workatastartup.com for YC startup listings.
// Strategy: site: web search for coverage, plus a direct page scrape through
// the browser client for richer cards when one is configured.
func SearchYCJobs(ctx context.Context, q Query) ([]engine.JobPosting, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	searchQuery := strings.TrimSpace(q.Keywords + " " + q.Location + " " + ycSiteSearch)
	webResults, err := engine.SearchDDGDirect(ctx, engine.Cfg.BrowserClient, searchQuery, "")
	if err != nil {
		slog.Warn("yc: web search error", slog.Any("error", err))
	}

	var postings []engine.JobPosting
	for _, r := range webResults {
		if !strings.Contains(r.URL, "workatastartup.com") {
			continue
		}
		postings = append(postings, engine.JobPosting{
			Title:       r.Title,
			Description: r.Snippet,
			URL:         r.URL,
			Source:      "yc",
		})
	}

	// Secondary: direct scrape of the search page for company/location fields.
	if len(postings) < limit {
		direct, err := scrapeYCJobsPage(ctx, q.Keywords, q.Location)
		if err != nil {
			slog.Debug("yc: direct scrape failed", slog.Any("error", err))
		} else {
			seen := make(map[string]bool)
			for _, p := range postings {
				seen[p.URL] = true
			}
			for _, p := range direct {
				if !seen[p.URL] {
					seen[p.URL] = true
					postings = append(postings, p)
				}
			}
		}
	}

	if len(postings) == 0 && err != nil {
		return nil, fmt.Errorf("yc: %w", err)
	}
	if len(postings) > limit {
		postings = postings[:limit]
	}

	slog.Debug("yc: search complete", slog.Int("results", len(postings)))
	return postings, nil
}

// scrapeYCJobsPage fetches workatastartup.com/jobs and parses job cards.
func scrapeYCJobsPage(ctx context.Context, query, location string) ([]engine.JobPosting, error) {
	if engine.Cfg.BrowserClient == nil {
		return nil, errors.New("browser client not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u, err := url.Parse(ycJobsSearchURL)
	if err != nil {
		return nil, err
	}
	params := u.Query()
	if query != "" {
		params.Set("q", query)
	}
	if location != "" {
		params.Set("l", location)
	}
	u.RawQuery = params.Encode()
	targetURL := u.String()

	headers := engine.ChromeHeaders()
	headers["referer"] = "https://www.workatastartup.com/"
	data, _, status, err := engine.Cfg.BrowserClient.Do("GET", targetURL, headers, nil)
	if err != nil {
		return nil, fmt.Errorf("yc browser fetch: %w", err)
	}
	if status != 200 {
		return nil, fmt.Errorf("yc status %d", status)
	}

	return parseYCJobsHTML(string(data)), nil
}

// parseYCJobsHTML extracts listings from the workatastartup search page.
func parseYCJobsHTML(body string) []engine.JobPosting {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var postings []engine.JobPosting
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			cls := getAttr(n, "class")
			// Job cards carry "job-name" / "directory-list-job" class patterns.
			if strings.Contains(cls, "job-name") || strings.Contains(cls, "directory-list-job") || strings.Contains(cls, "jobs-list-item") {
				// Cards without their own job link would all share one URL
				// and collapse in dedup; skip them.
				p := extractYCJobCard(n)
				if p.Title != "" && p.URL != "" {
					postings = append(postings, p)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return postings
}

// extractYCJobCard pulls posting fields out of a single card node.
func extractYCJobCard(n *html.Node) engine.JobPosting {
	var title, company, location, jobURL string

	for _, a := range findElements(n, "a") {
		href := getAttr(a, "href")
		if strings.Contains(href, "/jobs/") || strings.Contains(href, "workatastartup.com") {
			if strings.HasPrefix(href, "/") {
				href = "https://www.workatastartup.com" + href
			}
			jobURL = href
			text := strings.TrimSpace(textContent(a))
			if text != "" && title == "" {
				title = text
			}
		}
	}

	// Remaining text lines are company then location.
	for _, line := range strings.Split(textContent(n), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == title {
			continue
		}
		switch {
		case company == "":
			company = line
		case location == "":
			location = line
		}
	}

	if title == "" && company != "" {
		title = company
		company = ""
	}

	return engine.JobPosting{
		Title:    title,
		Company:  company,
		Location: location,
		URL:      jobURL,
		Source:   "yc",
	}
}
