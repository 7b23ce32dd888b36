package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cyno-agent/cyno/internal/engine"
)

const enrichPrompt = `You are a resume analyst. Improve this machine-extracted candidate profile using the raw resume text.

RAW RESUME:
%s

EXTRACTED PROFILE:
%s

Correct obvious extraction mistakes, add skills the extractor missed, and write a 2-3 sentence professional summary. Keep years_experience and education unless the resume clearly contradicts them. Also extract projects, certifications, soft skills, industry domains, work experience entries ("Role at Company, dates"), and classify the profile_type.

Return ONLY a JSON object:
{
  "skills": ["skill", ...],
  "years_experience": 0,
  "education": "PHD|MASTERS|BACHELORS|HIGH_SCHOOL|UNKNOWN",
  "location": "city or Remote or Unknown",
  "past_roles": ["role", ...],
  "keywords": ["keyword", ...],
  "summary": "...",
  "projects": ["project", ...],
  "certifications": ["certification", ...],
  "soft_skills": ["soft skill", ...],
  "domains": ["domain", ...],
  "work_experience": ["Role at Company, dates", ...],
  "profile_type": "technical|non_technical|mixed"
}`

const enrichSchema = `{
  "type": "object",
  "properties": {
    "skills": {"type": "array", "items": {"type": "string"}},
    "years_experience": {"type": "integer", "minimum": 0},
    "education": {"type": "string"},
    "location": {"type": "string"},
    "past_roles": {"type": "array", "items": {"type": "string"}},
    "keywords": {"type": "array", "items": {"type": "string"}},
    "summary": {"type": "string"},
    "projects": {"type": "array", "items": {"type": "string"}},
    "certifications": {"type": "array", "items": {"type": "string"}},
    "soft_skills": {"type": "array", "items": {"type": "string"}},
    "domains": {"type": "array", "items": {"type": "string"}},
    "work_experience": {"type": "array", "items": {"type": "string"}},
    "profile_type": {"type": "string"}
  },
  "required": ["skills", "summary"]
}`

// EnrichProfile runs an LLM pass over the rule-extracted profile to correct
// and extend it. Any failure (no backend, bad JSON, schema violation) returns
// the original profile untouched; enrichment is strictly best-effort.
func EnrichProfile(ctx context.Context, resumeText string, profile engine.CandidateProfile) engine.CandidateProfile {
	extracted, err := json.Marshal(profile)
	if err != nil {
		return profile
	}

	prompt := fmt.Sprintf(enrichPrompt,
		engine.TruncateAtWord(resumeText, 6000), string(extracted))

	raw, err := engine.CallLLM(ctx, prompt)
	if err != nil {
		slog.Debug("resume enrich skipped", slog.Any("error", err))
		return profile
	}

	var enriched enrichedProfile
	if err := engine.UnmarshalLLMJSON(raw, enrichSchema, &enriched); err != nil {
		slog.Debug("resume enrich response rejected", slog.Any("error", err))
		return profile
	}

	out := applyEnrichment(profile, enriched)
	slog.Debug("resume enriched",
		slog.Int("skills", len(out.Skills)),
		slog.Int("roles", len(out.PastRoles)))
	return out
}

// enrichedProfile is the LLM response shape for the enrichment pass.
type enrichedProfile struct {
	Skills          []string `json:"skills"`
	YearsExperience int      `json:"years_experience"`
	Education       string   `json:"education"`
	Location        string   `json:"location"`
	PastRoles       []string `json:"past_roles"`
	Keywords        []string `json:"keywords"`
	Summary         string   `json:"summary"`
	Projects        []string `json:"projects"`
	Certifications  []string `json:"certifications"`
	SoftSkills      []string `json:"soft_skills"`
	Domains         []string `json:"domains"`
	WorkExperience  []string `json:"work_experience"`
	ProfileType     string   `json:"profile_type"`
}

// applyEnrichment merges the LLM's additions into the rule-extracted profile.
// Base fields only change when the response carries a plausible value; the
// enrichment-only fields take whatever the response provides.
func applyEnrichment(profile engine.CandidateProfile, enriched enrichedProfile) engine.CandidateProfile {
	out := profile
	if len(enriched.Skills) > 0 {
		out.Skills = mergeUnique(profile.Skills, enriched.Skills)
	}
	if enriched.YearsExperience > 0 && enriched.YearsExperience < 60 {
		out.YearsExperience = enriched.YearsExperience
	}
	if isValidEducation(enriched.Education) {
		out.Education = enriched.Education
	}
	if enriched.Location != "" {
		out.Location = enriched.Location
	}
	if len(enriched.PastRoles) > 0 {
		out.PastRoles = mergeUnique(profile.PastRoles, enriched.PastRoles)
	}
	if len(enriched.Keywords) > 0 {
		out.Keywords = mergeUnique(profile.Keywords, enriched.Keywords)
	}
	if enriched.Summary != "" {
		out.Summary = enriched.Summary
	}
	out.Projects = enriched.Projects
	out.Certifications = enriched.Certifications
	out.SoftSkills = enriched.SoftSkills
	out.Domains = enriched.Domains
	out.WorkExperience = enriched.WorkExperience
	if t := strings.ToLower(strings.TrimSpace(enriched.ProfileType)); t == "technical" || t == "non_technical" || t == "mixed" {
		out.ProfileType = t
	}
	return out
}

func isValidEducation(e string) bool {
	switch e {
	case engine.EduPHD, engine.EduMasters, engine.EduBachelors, engine.EduHighSchool, engine.EduUnknown:
		return e != "" && e != engine.EduUnknown
	}
	return false
}

// mergeUnique appends additions not already present (case-insensitive),
// preserving order. The "General" sentinel is dropped once real entries exist.
func mergeUnique(base, additions []string) []string {
	seen := make(map[string]bool, len(base))
	var out []string
	for _, s := range base {
		if s == "General" {
			continue
		}
		key := strings.ToLower(s)
		if !seen[key] {
			seen[key] = true
			out = append(out, s)
		}
	}
	for _, s := range additions {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s != "" && !seen[key] {
			seen[key] = true
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = []string{"General"}
	}
	return out
}
