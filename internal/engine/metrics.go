package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	SearchRequests atomic.Int64
	ScraperRuns    atomic.Int64
	ScraperErrors  atomic.Int64
	FetchRequests  atomic.Int64
	FetchErrors    atomic.Int64
	LLMCalls       atomic.Int64
	LLMErrors      atomic.Int64
	LLMFallbacks   atomic.Int64
	RouteRequests  atomic.Int64
	MatchRequests  atomic.Int64
	ResumeParses   atomic.Int64
	LeadRequests   atomic.Int64
	DorkRequests   atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"search_requests": metrics.SearchRequests.Load(),
		"scraper_runs":    metrics.ScraperRuns.Load(),
		"scraper_errors":  metrics.ScraperErrors.Load(),
		"fetch_requests":  metrics.FetchRequests.Load(),
		"fetch_errors":    metrics.FetchErrors.Load(),
		"llm_calls":       metrics.LLMCalls.Load(),
		"llm_errors":      metrics.LLMErrors.Load(),
		"llm_fallbacks":   metrics.LLMFallbacks.Load(),
		"route_requests":  metrics.RouteRequests.Load(),
		"match_requests":  metrics.MatchRequests.Load(),
		"resume_parses":   metrics.ResumeParses.Load(),
		"lead_requests":   metrics.LeadRequests.Load(),
		"dork_requests":   metrics.DorkRequests.Load(),
		"cache_hits":      hits,
		"cache_misses":    misses,
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	keys := []string{
		"search_requests", "scraper_runs", "scraper_errors",
		"fetch_requests", "fetch_errors",
		"llm_calls", "llm_errors", "llm_fallbacks",
		"route_requests", "match_requests", "resume_parses",
		"lead_requests", "dork_requests",
		"cache_hits", "cache_misses",
	}
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the engine and the jobs/ sub-package.
func IncrSearchRequests() { metrics.SearchRequests.Add(1) }
func IncrScraperRuns()    { metrics.ScraperRuns.Add(1) }
func IncrScraperErrors()  { metrics.ScraperErrors.Add(1) }
func IncrFetchRequests()  { metrics.FetchRequests.Add(1) }
func IncrFetchErrors()    { metrics.FetchErrors.Add(1) }
func IncrLLMCalls()       { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()      { metrics.LLMErrors.Add(1) }
func IncrLLMFallbacks()   { metrics.LLMFallbacks.Add(1) }
func IncrRouteRequests()  { metrics.RouteRequests.Add(1) }
func IncrMatchRequests()  { metrics.MatchRequests.Add(1) }
func IncrResumeParses()   { metrics.ResumeParses.Add(1) }
func IncrLeadRequests()   { metrics.LeadRequests.Add(1) }
func IncrDorkRequests()   { metrics.DorkRequests.Add(1) }

// TrackOperation logs a warning if an operation takes longer than 5s.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
