package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cyno-agent/cyno/internal/engine"
)

func fakeScraper(name string, postings []engine.JobPosting, err error) Scraper {
	return ScraperFunc{ID: name, Fn: func(ctx context.Context, q Query) ([]engine.JobPosting, error) {
		return postings, err
	}}
}

func makePostings(source string, n int) []engine.JobPosting {
	out := make([]engine.JobPosting, n)
	for i := range out {
		out[i] = engine.JobPosting{
			Title:  fmt.Sprintf("%s role %d", source, i),
			URL:    fmt.Sprintf("https://%s.example.com/job/%d", source, i),
			Source: source,
		}
	}
	return out
}

func TestRunAllMergesAndIsolatesFailures(t *testing.T) {
	scrapers := []Scraper{
		fakeScraper("alpha", makePostings("alpha", 5), nil),
		fakeScraper("broken", nil, errors.New("status 500")),
		ScraperFunc{ID: "slow", Fn: func(ctx context.Context, q Query) ([]engine.JobPosting, error) {
			select {
			case <-time.After(5 * time.Second):
				return makePostings("slow", 2), nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}},
	}

	report, err := RunAll(context.Background(), scrapers, Query{Keywords: "golang"}, RunOptions{
		ScraperTimeout: 50 * time.Millisecond,
		SkipSave:       true,
	})
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}

	if len(report.Postings) != 5 {
		t.Errorf("got %d postings, want 5 from the healthy scraper", len(report.Postings))
	}
	if report.Sources["alpha"] != 5 {
		t.Errorf("alpha contribution = %d, want 5", report.Sources["alpha"])
	}
	if _, ok := report.Failures["broken"]; !ok {
		t.Error("broken scraper missing from failures")
	}
	if _, ok := report.Failures["slow"]; !ok {
		t.Error("deadline-exceeding scraper missing from failures")
	}
}

func TestRunAllLimit(t *testing.T) {
	scrapers := []Scraper{fakeScraper("big", makePostings("big", 40), nil)}

	report, err := RunAll(context.Background(), scrapers, Query{Keywords: "x"}, RunOptions{
		Limit:    10,
		SkipSave: true,
	})
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if len(report.Postings) != 10 {
		t.Errorf("got %d postings, want 10", len(report.Postings))
	}
}

func TestRunAllParentCancellation(t *testing.T) {
	blocker := ScraperFunc{ID: "block", Fn: func(ctx context.Context, q Query) ([]engine.JobPosting, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := RunAll(ctx, []Scraper{blocker}, Query{Keywords: "x"}, RunOptions{
		ScraperTimeout: time.Minute,
		SkipSave:       true,
	})
	if err == nil {
		t.Fatal("expected error when parent context ends")
	}
}

func TestDedupByURLLastWins(t *testing.T) {
	postings := []engine.JobPosting{
		{Title: "thin", URL: "https://example.com/job/1", Source: "a"},
		{Title: "other", URL: "https://example.com/job/2", Source: "a"},
		{Title: "rich", URL: "https://Example.com/job/1/", Source: "b", Description: "full text"},
	}

	out := DedupByURL(postings)
	if len(out) != 2 {
		t.Fatalf("got %d postings, want 2", len(out))
	}
	// Later duplicate replaces the first but keeps its slot position.
	if out[0].Title != "rich" || out[0].Source != "b" {
		t.Errorf("slot 0 = %+v, want the later rich posting", out[0])
	}
	if out[1].Title != "other" {
		t.Errorf("slot 1 = %+v", out[1])
	}
}

func TestDedupByURLKeepsURLless(t *testing.T) {
	postings := []engine.JobPosting{
		{Title: "a"},
		{Title: "b"},
	}
	if out := DedupByURL(postings); len(out) != 2 {
		t.Errorf("got %d postings, want 2 (no URL, no dedup)", len(out))
	}
}

func TestDedupByURLIdempotent(t *testing.T) {
	postings := []engine.JobPosting{
		{Title: "x", URL: "https://example.com/1"},
		{Title: "y", URL: "https://example.com/1"},
		{Title: "z", URL: "https://example.com/2"},
	}
	once := DedupByURL(postings)
	twice := DedupByURL(once)
	if len(once) != len(twice) {
		t.Fatalf("dedup not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("entry %d changed on second pass", i)
		}
	}
}
