package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/cyno-agent/cyno/internal/engine"
)

// dorkSite is one job board covered through search-engine dorking rather
// than a native API.
type dorkSite struct {
	Label  string // scraper name suffix
	Domain string // site: restriction
}

// dorkSites covers the boards that expose no usable API or feed. Each entry
// becomes its own scraper so per-board failures and counts stay visible in
// the aggregation report.
var dorkSites = []dorkSite{
	{Label: "linkedin", Domain: "linkedin.com/jobs"},
	{Label: "indeed", Domain: "indeed.com"},
	{Label: "glassdoor", Domain: "glassdoor.com"},
	{Label: "wellfound", Domain: "wellfound.com"},
	{Label: "remoteco", Domain: "remote.co"},
	{Label: "jobspresso", Domain: "jobspresso.co"},
	{Label: "dailyremote", Domain: "dailyremote.com"},
	{Label: "himalayas", Domain: "himalayas.app"},
	{Label: "startupjobs", Domain: "startup.jobs"},
}

// DorkScraper searches one board through the DDG dork path.
type DorkScraper struct {
	Site dorkSite
}

func (d DorkScraper) Name() string { return "dork:" + d.Site.Label }

func (d DorkScraper) Search(ctx context.Context, q Query) ([]engine.JobPosting, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	dork := buildDork(q, d.Site.Domain)
	results, err := engine.SearchDDGDirect(ctx, engine.Cfg.BrowserClient, dork, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Name(), err)
	}

	var postings []engine.JobPosting
	for _, r := range results {
		if !strings.Contains(r.URL, baseDomain(d.Site.Domain)) {
			continue
		}
		title, company := splitDorkTitle(r.Title)
		postings = append(postings, engine.JobPosting{
			Title:       title,
			Company:     company,
			Description: r.Snippet,
			URL:         r.URL,
			Source:      d.Name(),
		})
		if len(postings) >= limit {
			break
		}
	}
	return postings, nil
}

// buildDork assembles the site-restricted search query.
func buildDork(q Query, domain string) string {
	parts := []string{fmt.Sprintf("%q", q.Keywords), "site:" + domain}
	if q.Location != "" {
		parts = append(parts, q.Location)
	}
	return strings.Join(parts, " ")
}

// baseDomain strips any path suffix from a site: restriction, so result URLs
// from the bare domain still count.
func baseDomain(domain string) string {
	if idx := strings.IndexByte(domain, '/'); idx > 0 {
		return domain[:idx]
	}
	return domain
}

// splitDorkTitle pries "Role - Company" / "Role | Company" / "Role at Company"
// patterns apart; board suffixes like "| LinkedIn" are dropped.
func splitDorkTitle(title string) (role, company string) {
	title = strings.TrimSpace(title)
	for _, sep := range []string{" - ", " | ", " at ", " @ "} {
		if idx := strings.Index(title, sep); idx > 0 {
			role = strings.TrimSpace(title[:idx])
			company = strings.TrimSpace(title[idx+len(sep):])
			// Strip a trailing board name segment.
			for _, sep2 := range []string{" - ", " | "} {
				if j := strings.Index(company, sep2); j > 0 {
					company = strings.TrimSpace(company[:j])
				}
			}
			return role, company
		}
	}
	return title, ""
}
