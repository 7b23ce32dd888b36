package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/cyno-agent/cyno/internal/engine"
)

// dorkIntents are the buying-signal phrasings crossed with skills to form
// lead-hunting queries.
var dorkIntents = []string{
	`"looking for" freelance`,
	`"need help with"`,
	`"hiring" contract`,
	`"seeking" consultant`,
}

var emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// junkEmailMarkers drop placeholder and template-builder addresses.
var junkEmailMarkers = []string{"example.com", "domain.com", "wix"}

// painPointMarkers signal an unmet need worth mentioning in outreach.
var painPointMarkers = []string{
	"struggling", "can't find", "cannot find", "need help", "looking for",
	"overwhelmed", "deadline", "urgent", "asap", "falling behind", "no time",
}

const (
	dorkLeadConfidence      = 75
	secondaryLeadConfidence = 60
)

// GenerateDorks crosses the candidate's skills with intent phrasings to
// produce lead-hunting search queries.
func GenerateDorks(skills []string) []string {
	var dorks []string
	for _, skill := range skills {
		if strings.TrimSpace(skill) == "" {
			continue
		}
		dorks = append(dorks, skillDorks(skill)...)
	}
	return dorks
}

// skillDorks builds the intent queries for one skill.
func skillDorks(skill string) []string {
	dorks := make([]string, 0, len(dorkIntents))
	for _, intent := range dorkIntents {
		dorks = append(dorks, fmt.Sprintf(`%q %s`, skill, intent))
	}
	return dorks
}

// ExtractEmails pulls syntactically valid, non-placeholder addresses from text.
func ExtractEmails(text string) []string {
	seen := make(map[string]bool)
	var emails []string
	for _, e := range emailRe.FindAllString(text, -1) {
		lower := strings.ToLower(e)
		if seen[lower] || isJunkEmail(lower) {
			continue
		}
		seen[lower] = true
		emails = append(emails, e)
	}
	return emails
}

func isJunkEmail(email string) bool {
	for _, marker := range junkEmailMarkers {
		if strings.Contains(email, marker) {
			return true
		}
	}
	return false
}

// DetectPainPoints returns the need signals present in the text.
func DetectPainPoints(text string) []string {
	lower := strings.ToLower(text)
	var points []string
	for _, marker := range painPointMarkers {
		if strings.Contains(lower, marker) {
			points = append(points, marker)
		}
	}
	return points
}

// SearchLeads runs the dork set through web search and turns hits into
// scored leads. Dork hits score 75, hits from the broader secondary pass 60;
// leads deduplicate by email when present, URL otherwise.
func SearchLeads(ctx context.Context, skills []string, limit int) ([]engine.Lead, error) {
	engine.IncrLeadRequests()

	if limit <= 0 {
		limit = 10
	}

	var leads []engine.Lead
dorks:
	for _, skill := range skills {
		if strings.TrimSpace(skill) == "" {
			continue
		}
		for _, dork := range skillDorks(skill) {
			if len(leads) >= limit*2 {
				break dorks
			}
			results, err := engine.SearchDDGDirect(ctx, engine.Cfg.BrowserClient, dork, "")
			if err != nil {
				slog.Debug("lead dork failed", slog.String("dork", dork), slog.Any("error", err))
				continue
			}
			for _, r := range results {
				leads = append(leads, leadFromResult(r, dorkLeadConfidence, skill))
			}
		}
	}

	// Secondary pass: a plain skills query when the dorks came up thin.
	if len(leads) < limit && len(skills) > 0 {
		query := strings.Join(skills, " ") + " freelance opportunity contact"
		results, err := engine.SearchDDGDirect(ctx, engine.Cfg.BrowserClient, query, "")
		if err == nil {
			role := strings.Join(skills, ", ")
			for _, r := range results {
				leads = append(leads, leadFromResult(r, secondaryLeadConfidence, role))
			}
		}
	}

	leads = DedupLeads(leads)
	if len(leads) > limit {
		leads = leads[:limit]
	}

	slog.Info("lead search complete", slog.Int("leads", len(leads)))
	return leads, nil
}

// leadFromResult converts one search hit into a lead, scoring up for contact
// details and detected pain points. The hit title stands in for the company
// name; role is the skill (or skill set) the query hunted for.
func leadFromResult(r engine.WebResult, baseConfidence int, role string) engine.Lead {
	text := r.Title + " " + r.Snippet
	emails := ExtractEmails(text)
	pains := DetectPainPoints(text)

	confidence := baseConfidence
	if len(emails) > 0 {
		confidence += 10
	}
	if len(pains) > 0 {
		confidence += 5
	}

	lead := engine.Lead{
		Company:    engine.TruncateAtWord(r.Title, 80),
		RoleNeeded: role,
		Source:     "web",
		URL:        r.URL,
		Context:    engine.TruncateAtWord(r.Snippet, 300),
		PainPoints: pains,
		Confidence: clampConfidence(confidence),
	}
	if len(emails) > 0 {
		lead.Email = emails[0]
		lead.Contact = emails[0]
	}
	return lead
}

// EnrichLeadsFromPages folds fetched page content into leads whose search
// snippet carried no contact details. Confidence bumps mirror leadFromResult.
func EnrichLeadsFromPages(leads []engine.Lead, pages map[string]string) []engine.Lead {
	for i := range leads {
		page := pages[leads[i].URL]
		if page == "" {
			continue
		}
		if leads[i].Email == "" {
			if emails := ExtractEmails(page); len(emails) > 0 {
				leads[i].Email = emails[0]
				leads[i].Contact = emails[0]
				leads[i].Confidence = clampConfidence(leads[i].Confidence + 10)
			}
		}
		if len(leads[i].PainPoints) == 0 {
			if pains := DetectPainPoints(page); len(pains) > 0 {
				leads[i].PainPoints = pains
				leads[i].Confidence = clampConfidence(leads[i].Confidence + 5)
			}
		}
	}
	return leads
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// DedupLeads collapses duplicates by email when present, URL otherwise.
// First occurrence wins.
func DedupLeads(leads []engine.Lead) []engine.Lead {
	seen := make(map[string]bool)
	var out []engine.Lead
	for _, l := range leads {
		key := strings.ToLower(l.Email)
		if key == "" {
			key = engine.CanonicalURL(l.URL)
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}
