package jobs

import (
	"testing"

	"github.com/cyno-agent/cyno/internal/engine"
)

func TestApplyEnrichment(t *testing.T) {
	base := engine.CandidateProfile{
		Skills:          []string{"Go"},
		YearsExperience: 5,
		Education:       engine.EduBachelors,
		Location:        "Berlin",
		PastRoles:       []string{"Backend Engineer"},
	}
	enriched := enrichedProfile{
		Skills:         []string{"go", "Kubernetes"},
		Education:      "MASTERS",
		PastRoles:      []string{"SRE"},
		Summary:        "Seasoned backend engineer.",
		Projects:       []string{"Payment gateway rewrite"},
		Certifications: []string{"CKA"},
		SoftSkills:     []string{"mentoring"},
		Domains:        []string{"fintech"},
		WorkExperience: []string{"Backend Engineer at Acme, 2020-2025"},
		ProfileType:    "Technical",
	}

	out := applyEnrichment(base, enriched)

	// "go" is a case-duplicate of "Go"; only Kubernetes is new.
	if len(out.Skills) != 2 {
		t.Errorf("skills = %v, want [Go Kubernetes]", out.Skills)
	}
	if out.Education != engine.EduMasters {
		t.Errorf("education = %q", out.Education)
	}
	if out.YearsExperience != 5 {
		t.Errorf("zero years in response must not clear the extracted value")
	}
	if len(out.PastRoles) != 2 {
		t.Errorf("past roles = %v", out.PastRoles)
	}
	if len(out.Projects) != 1 || len(out.Certifications) != 1 ||
		len(out.SoftSkills) != 1 || len(out.Domains) != 1 || len(out.WorkExperience) != 1 {
		t.Error("enrichment-only fields not carried over")
	}
	if out.ProfileType != "technical" {
		t.Errorf("profile type = %q, want normalized technical", out.ProfileType)
	}
}

func TestApplyEnrichmentRejectsImplausible(t *testing.T) {
	base := engine.CandidateProfile{
		Skills:          []string{"Python"},
		YearsExperience: 3,
		Education:       engine.EduBachelors,
		Location:        "Remote",
	}
	enriched := enrichedProfile{
		Skills:          []string{"Django"},
		YearsExperience: 120,
		Education:       "UNKNOWN",
		ProfileType:     "wizard",
		Summary:         "x",
	}

	out := applyEnrichment(base, enriched)
	if out.YearsExperience != 3 {
		t.Errorf("implausible years accepted: %d", out.YearsExperience)
	}
	if out.Education != engine.EduBachelors {
		t.Errorf("UNKNOWN must not downgrade education: %q", out.Education)
	}
	if out.ProfileType != "" {
		t.Errorf("unrecognized profile type accepted: %q", out.ProfileType)
	}
}

func TestMergeUniqueDropsSentinel(t *testing.T) {
	out := mergeUnique([]string{"General"}, []string{"Go", "go", "Rust"})
	if len(out) != 2 || out[0] != "Go" || out[1] != "Rust" {
		t.Errorf("got %v, want [Go Rust]", out)
	}

	// Nothing real on either side keeps the sentinel.
	if out := mergeUnique([]string{"General"}, nil); len(out) != 1 || out[0] != "General" {
		t.Errorf("got %v, want [General]", out)
	}
}
