// Package toolutil provides shared helpers for Cyno MCP tools.
package toolutil

import (
	"context"
	"sync"

	"github.com/cyno-agent/cyno/internal/engine"
)

// FetchURLsParallel fetches readable page content for each URL not in
// skipURLs. Failed fetches are simply absent from the result map.
func FetchURLsParallel(ctx context.Context, urls []string, skipURLs map[string]bool) map[string]string {
	contents := make(map[string]string, len(urls))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, u := range urls {
		if u == "" || skipURLs[u] {
			continue
		}
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			_, text, err := engine.FetchURLContent(ctx, u)
			if err == nil && text != "" {
				mu.Lock()
				contents[u] = text
				mu.Unlock()
			}
		}(u)
	}
	wg.Wait()
	return contents
}

// Dedup returns urls with duplicates removed, preserving order.
func Dedup(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	var out []string
	for _, u := range urls {
		key := engine.CanonicalURL(u)
		if u == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, u)
	}
	return out
}
