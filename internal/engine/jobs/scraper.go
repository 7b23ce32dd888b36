package jobs

import (
	"context"
	"strings"

	"github.com/cyno-agent/cyno/internal/engine"
)

// Query is the normalized search request handed to every scraper.
type Query struct {
	Keywords string
	Location string
	Limit    int
}

// Scraper is a single stateless job source. Implementations must tag each
// posting with their Name() as Source, and must treat failure as an error
// return — the aggregator converts errors to empty contributions.
type Scraper interface {
	Name() string
	Search(ctx context.Context, q Query) ([]engine.JobPosting, error)
}

// ScraperFunc adapts a function to the Scraper interface.
type ScraperFunc struct {
	ID string
	Fn func(ctx context.Context, q Query) ([]engine.JobPosting, error)
}

func (s ScraperFunc) Name() string { return s.ID }

func (s ScraperFunc) Search(ctx context.Context, q Query) ([]engine.JobPosting, error) {
	return s.Fn(ctx, q)
}

// DefaultScrapers returns the full scraper set: native API/RSS sources,
// the browser-backed sources, and one dork scraper per covered board.
// Browser-backed sources register even when the browser client is absent;
// they fail soft at search time.
func DefaultScrapers() []Scraper {
	scrapers := []Scraper{
		ScraperFunc{ID: "hn", Fn: SearchHNJobs},
		ScraperFunc{ID: "remoteok", Fn: SearchRemoteOK},
		ScraperFunc{ID: "wwr", Fn: SearchWeWorkRemotely},
		ScraperFunc{ID: "remotive", Fn: SearchRemotive},
		ScraperFunc{ID: "yc", Fn: SearchYCJobs},
		ScraperFunc{ID: "twitter", Fn: SearchTwitterJobs},
	}
	for _, site := range dorkSites {
		scrapers = append(scrapers, DorkScraper{Site: site})
	}
	return scrapers
}

// FilterScrapers returns the subset of scrapers whose names appear in the
// comma-separated filter. An empty filter keeps everything.
func FilterScrapers(scrapers []Scraper, filter string) []Scraper {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return scrapers
	}
	want := make(map[string]bool)
	for _, name := range strings.Split(filter, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			want[name] = true
		}
	}
	var out []Scraper
	for _, s := range scrapers {
		if want[s.Name()] {
			out = append(out, s)
		}
	}
	return out
}
