package jobs

import (
	"testing"
)

func TestSplitWWRTitle(t *testing.T) {
	tests := []struct {
		title       string
		wantCompany string
		wantRole    string
	}{
		{"Acme Corp: Senior Go Engineer", "Acme Corp", "Senior Go Engineer"},
		{"Just A Role", "", "Just A Role"},
		{"A: B: C", "A", "B: C"},
	}
	for _, tt := range tests {
		company, role := splitWWRTitle(tt.title)
		if company != tt.wantCompany || role != tt.wantRole {
			t.Errorf("splitWWRTitle(%q) = (%q, %q), want (%q, %q)",
				tt.title, company, role, tt.wantCompany, tt.wantRole)
		}
	}
}

func TestRemoteOKMatches(t *testing.T) {
	job := remoteOKJob{
		Position:    "Senior Backend Engineer",
		Company:     "Acme",
		Tags:        []string{"golang", "aws"},
		Description: "Build APIs",
	}

	if !remoteOKMatches(job, []string{"golang", "backend"}) {
		t.Error("expected match when all keywords present across fields")
	}
	if remoteOKMatches(job, []string{"golang", "rust"}) {
		t.Error("expected no match when one keyword is absent")
	}
	if !remoteOKMatches(job, nil) {
		t.Error("empty keywords must match everything")
	}
}

func TestSplitDorkTitle(t *testing.T) {
	tests := []struct {
		title    string
		wantRole string
		wantCo   string
	}{
		{"Backend Engineer - Acme | LinkedIn", "Backend Engineer", "Acme"},
		{"Go Developer at Initech", "Go Developer", "Initech"},
		{"Plain Title", "Plain Title", ""},
	}
	for _, tt := range tests {
		role, co := splitDorkTitle(tt.title)
		if role != tt.wantRole || co != tt.wantCo {
			t.Errorf("splitDorkTitle(%q) = (%q, %q), want (%q, %q)", tt.title, role, co, tt.wantRole, tt.wantCo)
		}
	}
}

func TestBuildDork(t *testing.T) {
	got := buildDork(Query{Keywords: "golang developer", Location: "Berlin"}, "linkedin.com/jobs")
	want := `"golang developer" site:linkedin.com/jobs Berlin`
	if got != want {
		t.Errorf("buildDork() = %q, want %q", got, want)
	}
}

func TestBuildTwitterJobQuery(t *testing.T) {
	if q := buildTwitterJobQuery("golang developer"); q == "golang developer" {
		t.Error("non-job query should get job terms appended")
	}
	if q := buildTwitterJobQuery("hiring golang developer"); q != "hiring golang developer" {
		t.Errorf("job query modified: %q", q)
	}
}

func TestDefaultScrapersCoverage(t *testing.T) {
	scrapers := DefaultScrapers()
	if len(scrapers) != 15 {
		t.Errorf("got %d scrapers, want 15", len(scrapers))
	}

	names := make(map[string]bool)
	for _, s := range scrapers {
		if names[s.Name()] {
			t.Errorf("duplicate scraper name %q", s.Name())
		}
		names[s.Name()] = true
	}
	for _, want := range []string{"hn", "remoteok", "wwr", "remotive", "yc", "twitter", "dork:linkedin", "dork:indeed"} {
		if !names[want] {
			t.Errorf("missing scraper %q", want)
		}
	}
}

func TestFilterScrapers(t *testing.T) {
	all := DefaultScrapers()

	subset := FilterScrapers(all, "hn, remoteok")
	if len(subset) != 2 {
		t.Fatalf("got %d scrapers, want 2", len(subset))
	}

	if got := FilterScrapers(all, ""); len(got) != len(all) {
		t.Error("empty filter should keep everything")
	}
	if got := FilterScrapers(all, "nonexistent"); len(got) != 0 {
		t.Error("unknown name should match nothing")
	}
}
