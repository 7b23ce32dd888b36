package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/cyno-agent/cyno/internal/engine"
)

// RunOptions controls a full aggregation run.
type RunOptions struct {
	Limit          int           // max postings in the final cut (default 25)
	ScraperTimeout time.Duration // per-scraper deadline (default 25s)
	Rules          *FilterRules  // nil = DefaultFilterRules
	OutputDir      string        // empty = engine.Cfg.OutputDir
	SkipSave       bool          // skip the audit file
}

// SearchReport is the result of one aggregation run: the filtered postings
// plus per-source accounting so a thin result is explainable.
type SearchReport struct {
	Query    string
	Postings []engine.JobPosting
	Sources  map[string]int    // scraper name → postings contributed
	Failures map[string]string // scraper name → error text
	SavedTo  string
}

// RunAll fans the query out to every scraper concurrently, merges the
// results, deduplicates by canonical URL, applies the filter rules, writes
// the audit file, and returns the top postings. A scraper that errors or
// outlives its deadline contributes nothing; the run as a whole only fails
// when the parent context does.
func RunAll(ctx context.Context, scrapers []Scraper, q Query, opts RunOptions) (*SearchReport, error) {
	engine.IncrSearchRequests()

	if opts.Limit <= 0 {
		opts.Limit = 25
	}
	if opts.ScraperTimeout <= 0 {
		opts.ScraperTimeout = 25 * time.Second
	}
	rules := opts.Rules
	if rules == nil {
		d := DefaultFilterRules()
		rules = &d
	}

	type contribution struct {
		name     string
		postings []engine.JobPosting
		err      error
	}
	ch := make(chan contribution, len(scrapers))

	for _, s := range scrapers {
		go func(s Scraper) {
			engine.IncrScraperRuns()
			sctx, cancel := context.WithTimeout(ctx, opts.ScraperTimeout)
			defer cancel()

			postings, err := s.Search(sctx, q)
			if err != nil {
				engine.IncrScraperErrors()
				slog.Warn("scraper failed", slog.String("source", s.Name()), slog.Any("error", err))
				ch <- contribution{name: s.Name(), err: err}
				return
			}
			ch <- contribution{name: s.Name(), postings: postings}
		}(s)
	}

	report := &SearchReport{
		Query:    q.Keywords,
		Sources:  make(map[string]int),
		Failures: make(map[string]string),
	}

	var merged []engine.JobPosting
	for range scrapers {
		select {
		case c := <-ch:
			if c.err != nil {
				report.Failures[c.name] = c.err.Error()
				continue
			}
			report.Sources[c.name] = len(c.postings)
			merged = append(merged, c.postings...)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	deduped := DedupByURL(merged)
	filtered := ApplyFilters(deduped, q.Keywords, *rules)

	if !opts.SkipSave && len(filtered) > 0 {
		dir := opts.OutputDir
		if dir == "" {
			dir = engine.Cfg.OutputDir
		}
		if dir != "" {
			path, err := SaveCSV(dir, q.Keywords, filtered)
			if err != nil {
				slog.Warn("audit file write failed", slog.Any("error", err))
			} else {
				report.SavedTo = path
			}
		}
	}

	if len(filtered) > opts.Limit {
		filtered = filtered[:opts.Limit]
	}
	report.Postings = filtered

	slog.Info("aggregation complete",
		slog.String("query", q.Keywords),
		slog.Int("merged", len(merged)),
		slog.Int("deduped", len(deduped)),
		slog.Int("returned", len(filtered)),
		slog.Int("failed_sources", len(report.Failures)),
	)
	return report, nil
}

// DedupByURL collapses postings that share a canonical URL. The later
// posting wins so richer re-scrapes replace earlier thin ones, but the
// slot keeps its first-seen position. Postings without a URL are kept as-is.
func DedupByURL(postings []engine.JobPosting) []engine.JobPosting {
	var out []engine.JobPosting
	index := make(map[string]int)
	for _, p := range postings {
		if p.URL == "" {
			out = append(out, p)
			continue
		}
		key := engine.CanonicalURL(p.URL)
		if i, seen := index[key]; seen {
			out[i] = p
			continue
		}
		index[key] = len(out)
		out = append(out, p)
	}
	return out
}
