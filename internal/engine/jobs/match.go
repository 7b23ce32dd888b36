package jobs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/cyno-agent/cyno/internal/engine"
)

// Matcher ranks postings against a candidate profile. Weights must sum to 1
// so every composite score stays inside [0, 1].
type Matcher struct {
	Embedder    Embedder // nil degrades semantic scoring to neutral 0.5
	SemWeight   float64
	TitleWeight float64
	LocWeight   float64
}

// NewMatcher returns a matcher with the stock 0.5/0.3/0.2 weighting.
func NewMatcher(e Embedder) *Matcher {
	return &Matcher{
		Embedder:    e,
		SemWeight:   0.5,
		TitleWeight: 0.3,
		LocWeight:   0.2,
	}
}

// Rank scores every posting and returns results sorted by score descending.
// Ties keep input order, so ranking is deterministic for a fixed input.
func (m *Matcher) Rank(ctx context.Context, profile engine.CandidateProfile, postings []engine.JobPosting) []engine.MatchResult {
	engine.IncrMatchRequests()

	profileVec := m.embedProfile(ctx, profile)

	results := make([]engine.MatchResult, 0, len(postings))
	for _, p := range postings {
		results = append(results, m.score(ctx, profile, profileVec, p))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Score rates one posting against the profile.
func (m *Matcher) Score(ctx context.Context, profile engine.CandidateProfile, p engine.JobPosting) engine.MatchResult {
	return m.score(ctx, profile, m.embedProfile(ctx, profile), p)
}

func (m *Matcher) score(ctx context.Context, profile engine.CandidateProfile, profileVec []float64, p engine.JobPosting) engine.MatchResult {
	sem := m.semanticScore(ctx, profileVec, p)
	title, titleReason := titleScore(profile.PastRoles, p.Title)
	loc, locReason := locationScore(profile, p)

	score := m.SemWeight*sem + m.TitleWeight*title + m.LocWeight*loc
	score = clamp01(score)

	rationale := fmt.Sprintf("Sem: %.2f, Title: %.2f", sem, title)
	if titleReason != "" {
		rationale += "; " + titleReason
	}
	if locReason != "" {
		rationale += "; " + locReason
	}

	return engine.MatchResult{
		Job:           p,
		Score:         score,
		SemanticScore: sem,
		TitleScore:    title,
		LocationScore: loc,
		Rationale:     rationale,
	}
}

// embedProfile embeds the profile's textual identity once per Rank call.
// Nil on any failure; semanticScore treats nil as the neutral 0.5.
func (m *Matcher) embedProfile(ctx context.Context, profile engine.CandidateProfile) []float64 {
	if m.Embedder == nil {
		return nil
	}
	text := profileText(profile)
	if text == "" {
		return nil
	}
	vec, err := m.Embedder.Embed(ctx, text)
	if err != nil {
		return nil
	}
	return vec
}

func profileText(p engine.CandidateProfile) string {
	parts := []string{p.Summary, strings.Join(p.Skills, " "), strings.Join(p.PastRoles, " ")}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// semanticScore is cosine similarity of profile and posting embeddings,
// remapped from [-1, 1] to [0, 1]. Missing embedder or vector → 0.5.
func (m *Matcher) semanticScore(ctx context.Context, profileVec []float64, p engine.JobPosting) float64 {
	if m.Embedder == nil || profileVec == nil {
		return 0.5
	}
	jobText := strings.TrimSpace(p.Title + " " + engine.TruncateAtWord(p.Description, 2000))
	if jobText == "" {
		return 0.5
	}
	jobVec, err := m.Embedder.Embed(ctx, jobText)
	if err != nil {
		return 0.5
	}
	return clamp01((cosine(profileVec, jobVec) + 1) / 2)
}

// titleScore is the best token-set similarity between the posting title and
// any past role. A profile with no roles scores a neutral 0.5.
func titleScore(pastRoles []string, title string) (float64, string) {
	if len(pastRoles) == 0 {
		return 0.5, "no past roles to compare"
	}
	best := 0.0
	bestRole := ""
	for _, role := range pastRoles {
		if s := tokenSetRatio(role, title); s > best {
			best = s
			bestRole = role
		}
	}
	if bestRole != "" && best >= 0.6 {
		return best, fmt.Sprintf("title close to past role %q", bestRole)
	}
	return best, ""
}

// tokenSetRatio compares two strings as token sets: the overlap ratio against
// the smaller set, so a full subset scores 1.0 regardless of extra tokens.
func tokenSetRatio(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	overlap := 0
	for t := range ta {
		if tb[t] {
			overlap++
		}
	}
	smaller := len(ta)
	if len(tb) < smaller {
		smaller = len(tb)
	}
	return float64(overlap) / float64(smaller)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(strings.ToLower(s)) {
		t = strings.Trim(t, ".,;:()[]")
		if t != "" {
			set[t] = true
		}
	}
	return set
}

// locationScore defaults to full credit; the only penalty is a candidate who
// wants remote facing a posting that is explicitly somewhere else.
func locationScore(profile engine.CandidateProfile, p engine.JobPosting) (float64, string) {
	if !profile.WantsRemote() {
		return 1.0, ""
	}
	loc := strings.ToLower(p.Location)
	if loc == "" || strings.Contains(loc, "remote") || strings.Contains(loc, "anywhere") {
		return 1.0, ""
	}
	return 0.5, "not remote (" + p.Location + ")"
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// matchStopWords filters common English words that add noise to keyword matching.
var matchStopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "their": true, "they": true,
	"work": true, "team": true, "role": true, "job": true, "join": true,
	"about": true, "which": true, "what": true, "who": true, "how": true,
	"can": true, "not": true, "but": true, "all": true, "also": true,
	"more": true, "than": true, "into": true, "has": true, "its": true,
	"was": true, "were": true, "been": true, "each": true, "new": true,
	"use": true, "using": true, "used": true, "well": true, "high": true,
	"good": true, "able": true, "get": true, "set": true, "such": true,
}

// extractMatchKW tokenizes text into lowercase keywords, skipping stop words.
// Preserves tech tokens like "c++", "c#", "node.js" by treating + # . as
// word characters.
func extractMatchKW(text string) map[string]bool {
	kw := make(map[string]bool)
	var word strings.Builder
	flush := func() {
		w := word.String()
		word.Reset()
		w = strings.TrimRight(w, ".")
		if len([]rune(w)) >= 3 && !matchStopWords[w] {
			kw[w] = true
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return kw
}
