package jobs

import (
	"testing"

	"github.com/cyno-agent/cyno/internal/engine"
)

func TestParseHNComment(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantCompany  string
		wantTitle    string
		wantLocation string
	}{
		{
			name:         "full pipe header",
			text:         "Stripe | Backend Engineer | Remote | Full-time\n\nWe use Go and Postgres.",
			wantCompany:  "Stripe",
			wantTitle:    "Backend Engineer",
			wantLocation: "Remote",
		},
		{
			name:        "two segments",
			text:        "Acme | Platform Engineer\nDetails below",
			wantCompany: "Acme",
			wantTitle:   "Platform Engineer",
		},
		{
			name:      "no pipes",
			text:      "We are hiring a backend engineer in Berlin\nmore text",
			wantTitle: "We are hiring a backend engineer in Berlin",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseHNComment(tt.text)
			if p.Company != tt.wantCompany {
				t.Errorf("company = %q, want %q", p.Company, tt.wantCompany)
			}
			if p.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", p.Title, tt.wantTitle)
			}
			if p.Location != tt.wantLocation {
				t.Errorf("location = %q, want %q", p.Location, tt.wantLocation)
			}
			if p.Description != tt.text {
				t.Error("description should keep the full comment")
			}
		})
	}
}

func TestParseHNCommentSalary(t *testing.T) {
	p := parseHNComment("Acme | Engineer | Remote | $150k-$200k | Full-time")
	if p.Salary != "$150k-$200k" {
		t.Errorf("salary = %q", p.Salary)
	}
}

func TestFilterHNComments(t *testing.T) {
	comments := []hnComment{
		{id: 101, text: "Stripe | Backend Engineer | Remote\nGo, Kubernetes, PostgreSQL"},
		{id: 102, text: "Figma | Designer | NYC\nFigma plugins"},
	}
	got := filterHNComments(comments, "golang go")
	if len(got) != 1 {
		t.Fatalf("got %d comments, want 1", len(got))
	}
	if got[0].id != 101 {
		t.Errorf("kept comment id = %d, want 101", got[0].id)
	}

	// Empty query keeps everything.
	if got := filterHNComments(comments, ""); len(got) != 2 {
		t.Errorf("empty query filtered to %d", len(got))
	}
}

func TestHNCommentPostingPermalinks(t *testing.T) {
	comments := []hnComment{
		{id: 100, text: "Stripe | Backend Engineer | Remote"},
		{id: 200, text: "Acme | Platform Engineer | Berlin"},
	}

	postings := make([]engine.JobPosting, 0, len(comments))
	for _, c := range comments {
		postings = append(postings, hnCommentPosting(c))
	}

	if postings[0].URL != "https://news.ycombinator.com/item?id=100" {
		t.Errorf("url = %q", postings[0].URL)
	}
	if postings[0].URL == postings[1].URL {
		t.Fatal("distinct comments must get distinct permalinks")
	}

	// Postings from one thread must survive URL dedup individually.
	if got := DedupByURL(postings); len(got) != 2 {
		t.Errorf("dedup collapsed %d postings to %d", len(postings), len(got))
	}
}
