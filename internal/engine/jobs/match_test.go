package jobs

import (
	"context"
	"strings"
	"testing"

	"github.com/cyno-agent/cyno/internal/engine"
)

// stubEmbedder returns a fixed vector per keyword bucket so semantic scores
// are controllable without a model.
type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if strings.Contains(strings.ToLower(text), "golang") {
		return []float64{1, 0}, nil
	}
	return []float64{0, 1}, nil
}

func sampleProfile() engine.CandidateProfile {
	return engine.CandidateProfile{
		Skills:          []string{"Go", "Kubernetes"},
		YearsExperience: 5,
		Education:       engine.EduBachelors,
		Location:        "Remote",
		PastRoles:       []string{"Backend Engineer", "Site Reliability Engineer"},
		Summary:         "golang backend engineer",
	}
}

func TestRankWithUnconfiguredEmbedder(t *testing.T) {
	// With no Ollama endpoint configured the constructor yields nil, and
	// ranking must fall back to the neutral semantic score, not panic.
	m := NewMatcher(NewOllamaEmbedder())
	results := m.Rank(context.Background(), sampleProfile(), []engine.JobPosting{
		{Title: "Backend Engineer", Description: "golang services", Location: "Remote"},
	})
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].SemanticScore != 0.5 {
		t.Errorf("semantic = %f, want neutral 0.5", results[0].SemanticScore)
	}
}

func TestMatcherScoresBounded(t *testing.T) {
	m := NewMatcher(stubEmbedder{})
	postings := []engine.JobPosting{
		{Title: "Backend Engineer", Description: "golang services", Location: "Remote"},
		{Title: "Chef", Description: "cooking", Location: "Paris"},
		{Title: "", Description: "", Location: ""},
	}

	for _, r := range m.Rank(context.Background(), sampleProfile(), postings) {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("score %f out of [0,1] for %q", r.Score, r.Job.Title)
		}
		if r.SemanticScore < 0 || r.SemanticScore > 1 {
			t.Errorf("semantic %f out of [0,1]", r.SemanticScore)
		}
		if r.Rationale == "" {
			t.Errorf("empty rationale for %q", r.Job.Title)
		}
	}
}

func TestMatcherDeterministic(t *testing.T) {
	m := NewMatcher(stubEmbedder{})
	postings := []engine.JobPosting{
		{Title: "Backend Engineer", Description: "golang", URL: "u1"},
		{Title: "Platform Engineer", Description: "golang", URL: "u2"},
		{Title: "Chef", Description: "food", URL: "u3"},
	}
	profile := sampleProfile()

	first := m.Rank(context.Background(), profile, postings)
	second := m.Rank(context.Background(), profile, postings)
	if len(first) != len(second) {
		t.Fatal("rank length changed between runs")
	}
	for i := range first {
		if first[i].Job.URL != second[i].Job.URL || first[i].Score != second[i].Score {
			t.Errorf("rank %d differs between identical runs", i)
		}
	}
}

func TestMatcherNilEmbedderNeutral(t *testing.T) {
	m := NewMatcher(nil)
	r := m.Score(context.Background(), sampleProfile(), engine.JobPosting{
		Title: "Backend Engineer", Description: "golang", Location: "Remote",
	})
	if r.SemanticScore != 0.5 {
		t.Errorf("semantic = %f, want neutral 0.5 without embedder", r.SemanticScore)
	}
}

func TestMatcherNoPastRolesNeutralTitle(t *testing.T) {
	profile := sampleProfile()
	profile.PastRoles = nil

	m := NewMatcher(nil)
	r := m.Score(context.Background(), profile, engine.JobPosting{Title: "Backend Engineer"})
	if r.TitleScore != 0.5 {
		t.Errorf("title = %f, want neutral 0.5 without past roles", r.TitleScore)
	}
}

func TestMatcherRemotePenalty(t *testing.T) {
	m := NewMatcher(nil)
	profile := sampleProfile() // wants remote

	remote := m.Score(context.Background(), profile, engine.JobPosting{Title: "Backend Engineer", Location: "Remote"})
	onsite := m.Score(context.Background(), profile, engine.JobPosting{Title: "Backend Engineer", Location: "New York, NY"})

	if remote.LocationScore != 1.0 {
		t.Errorf("remote location = %f, want 1.0", remote.LocationScore)
	}
	if onsite.LocationScore != 0.5 {
		t.Errorf("onsite location = %f, want 0.5 penalty", onsite.LocationScore)
	}
	if onsite.Score >= remote.Score {
		t.Error("onsite posting should rank below identical remote posting")
	}

	// No remote preference: no penalty.
	profile.Location = "Berlin"
	anywhere := m.Score(context.Background(), profile, engine.JobPosting{Title: "Backend Engineer", Location: "New York, NY"})
	if anywhere.LocationScore != 1.0 {
		t.Errorf("location = %f, want 1.0 without remote preference", anywhere.LocationScore)
	}
}

func TestMatcherOrdering(t *testing.T) {
	m := NewMatcher(stubEmbedder{})
	postings := []engine.JobPosting{
		{Title: "Pastry Chef", Description: "baking", Location: "Paris", URL: "low"},
		{Title: "Backend Engineer", Description: "golang microservices", Location: "Remote", URL: "high"},
	}

	ranked := m.Rank(context.Background(), sampleProfile(), postings)
	if ranked[0].Job.URL != "high" {
		t.Errorf("best match = %q, want the golang backend role", ranked[0].Job.URL)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Error("results not sorted by score descending")
		}
	}
}

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"Backend Engineer", "Backend Engineer", 1.0},
		{"Backend Engineer", "Senior Backend Engineer", 1.0}, // subset
		{"Backend Engineer", "Frontend Designer", 0.0},
		{"", "Backend", 0.0},
	}
	for _, tt := range tests {
		if got := tokenSetRatio(tt.a, tt.b); got != tt.want {
			t.Errorf("tokenSetRatio(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCosine(t *testing.T) {
	if got := cosine([]float64{1, 0}, []float64{1, 0}); got != 1.0 {
		t.Errorf("identical vectors = %f, want 1.0", got)
	}
	if got := cosine([]float64{1, 0}, []float64{0, 1}); got != 0.0 {
		t.Errorf("orthogonal vectors = %f, want 0.0", got)
	}
	if got := cosine([]float64{1, 0}, []float64{1}); got != 0.0 {
		t.Errorf("length mismatch = %f, want 0.0", got)
	}
}
