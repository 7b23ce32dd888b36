package jobs

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cyno-agent/cyno/internal/engine"
)

// FilterRules is the post-aggregation filter configuration. Rules are plain
// data so callers can substitute their own set without touching the filter
// logic; every rule only ever removes postings, never adds or mutates them.
type FilterRules struct {
	// RegionTrigger activates RegionMarkers when present in the query.
	RegionTrigger string
	// RegionMarkers exclude a posting when any appears in its
	// location or description.
	RegionMarkers []string
	// InternTrigger requires the posting title to contain it when the
	// query does.
	InternTrigger string
}

// DefaultFilterRules mirrors the assistant's stock rule set.
func DefaultFilterRules() FilterRules {
	return FilterRules{
		RegionTrigger: "india",
		RegionMarkers: []string{
			"uk only", "us only", "usa only", "canada only", "europe only",
		},
		InternTrigger: "intern",
	}
}

// lpaRe captures annual salary figures expressed in lakhs per annum.
var lpaRe = regexp.MustCompile(`(\d+)\s*lpa`)

// ApplyFilters runs the rule set against postings, using the query to decide
// which rules are active. The result is always a subset of the input.
func ApplyFilters(postings []engine.JobPosting, query string, rules FilterRules) []engine.JobPosting {
	q := strings.ToLower(query)

	regionActive := rules.RegionTrigger != "" && strings.Contains(q, rules.RegionTrigger)
	internActive := rules.InternTrigger != "" && strings.Contains(q, rules.InternTrigger)
	minLPA := parseLPA(q)

	var out []engine.JobPosting
	for _, p := range postings {
		if regionActive && matchesAnyMarker(p, rules.RegionMarkers) {
			continue
		}
		if internActive && !strings.Contains(strings.ToLower(p.Title), rules.InternTrigger) {
			continue
		}
		// Salary floor: drop only when the posting's salary parses AND is
		// below the floor. Unparseable salaries get the benefit of the doubt.
		if minLPA > 0 {
			if lpa, ok := parsePostingLPA(p.Salary); ok && lpa < minLPA {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// matchesAnyMarker checks location and description for region markers.
func matchesAnyMarker(p engine.JobPosting, markers []string) bool {
	haystack := strings.ToLower(p.Location + " " + p.Description)
	for _, m := range markers {
		if strings.Contains(haystack, m) {
			return true
		}
	}
	return false
}

// parseLPA extracts a salary floor (in LPA) from the query, 0 if absent.
func parseLPA(q string) int {
	m := lpaRe.FindStringSubmatch(q)
	if len(m) < 2 {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// parsePostingLPA tries to read an LPA figure out of a posting's salary text.
func parsePostingLPA(salary string) (int, bool) {
	m := lpaRe.FindStringSubmatch(strings.ToLower(salary))
	if len(m) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
