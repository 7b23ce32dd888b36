package jobs

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cyno-agent/cyno/internal/engine"
)

// ErrResumeTooShort rejects input too thin to profile.
var ErrResumeTooShort = errors.New("resume too short to parse (need at least 100 characters)")

const minResumeChars = 100

// skillVocab maps canonical skill names to the patterns that detect them.
// Symbol-bearing names get word-boundary-safe patterns of their own; plain
// names match as whole words.
var skillVocab = []struct {
	Name    string
	Pattern *regexp.Regexp
}{
	{"Python", regexp.MustCompile(`(?i)\bpython\b`)},
	{"Go", regexp.MustCompile(`(?i)\b(golang|go)\b`)},
	{"Java", regexp.MustCompile(`(?i)\bjava\b`)},
	{"JavaScript", regexp.MustCompile(`(?i)\b(javascript|js)\b`)},
	{"TypeScript", regexp.MustCompile(`(?i)\btypescript\b`)},
	{"C++", regexp.MustCompile(`(?i)c\+\+`)},
	{"C#", regexp.MustCompile(`(?i)c#`)},
	{".NET", regexp.MustCompile(`(?i)\.net\b`)},
	{"Rust", regexp.MustCompile(`(?i)\brust\b`)},
	{"Ruby", regexp.MustCompile(`(?i)\bruby\b`)},
	{"PHP", regexp.MustCompile(`(?i)\bphp\b`)},
	{"Swift", regexp.MustCompile(`(?i)\bswift\b`)},
	{"Kotlin", regexp.MustCompile(`(?i)\bkotlin\b`)},
	{"SQL", regexp.MustCompile(`(?i)\b(sql|postgres|postgresql|mysql)\b`)},
	{"React", regexp.MustCompile(`(?i)\breact\b`)},
	{"Node.js", regexp.MustCompile(`(?i)\bnode(\.js)?\b`)},
	{"Django", regexp.MustCompile(`(?i)\bdjango\b`)},
	{"Kubernetes", regexp.MustCompile(`(?i)\b(kubernetes|k8s)\b`)},
	{"Docker", regexp.MustCompile(`(?i)\bdocker\b`)},
	{"AWS", regexp.MustCompile(`(?i)\baws\b`)},
	{"GCP", regexp.MustCompile(`(?i)\b(gcp|google cloud)\b`)},
	{"Azure", regexp.MustCompile(`(?i)\bazure\b`)},
	{"Terraform", regexp.MustCompile(`(?i)\bterraform\b`)},
	{"Machine Learning", regexp.MustCompile(`(?i)\b(machine learning|deep learning|pytorch|tensorflow)\b`)},
	{"NLP", regexp.MustCompile(`(?i)\b(nlp|natural language)\b`)},
	{"DevOps", regexp.MustCompile(`(?i)\bdevops\b`)},
	{"Redis", regexp.MustCompile(`(?i)\bredis\b`)},
	{"GraphQL", regexp.MustCompile(`(?i)\bgraphql\b`)},
	{"Kafka", regexp.MustCompile(`(?i)\bkafka\b`)},
	{"Linux", regexp.MustCompile(`(?i)\blinux\b`)},
}

var (
	yearsRe = regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)`)
	roleRe  = regexp.MustCompile(`(?im)^\s*(?:[-•*]\s*)?((?:senior|junior|lead|staff|principal|chief)?\s*[A-Za-z/ ]{2,40}?(?:engineer|developer|manager|architect|analyst|scientist|designer|consultant|intern))\b`)
	wordRe  = regexp.MustCompile(`[A-Za-z][A-Za-z+#.]{4,}`)
)

// locationPatterns pull an explicit labeled location out of the text.
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)location\s*[:\-]\s*([A-Za-z ,]{2,40})`),
	regexp.MustCompile(`(?i)based\s+in\s+([A-Za-z ,]{2,40})`),
	regexp.MustCompile(`(?i)living\s+in\s+([A-Za-z ,]{2,40})`),
}

// majorCities is the fallback when no labeled location appears.
var majorCities = []string{
	"New York", "London", "San Francisco", "Bangalore", "Mumbai",
	"Delhi", "Berlin", "Toronto", "Remote",
}

// keywordStopWords excludes filler from extracted resume keywords.
var keywordStopWords = map[string]bool{
	"about": true, "above": true, "after": true, "again": true, "their": true,
	"there": true, "these": true, "those": true, "through": true, "under": true,
	"where": true, "which": true, "while": true, "would": true, "could": true,
	"should": true, "years": true, "using": true, "worked": true, "working": true,
	"experience": true, "skills": true, "education": true, "email": true,
	"phone": true, "resume": true, "summary": true, "other": true, "being": true,
}

// ParseResume extracts a structured candidate profile from raw resume text
// using deterministic rules only. Optional LLM enrichment lives in
// EnrichProfile; this function never touches the network.
func ParseResume(text string) (engine.CandidateProfile, error) {
	engine.IncrResumeParses()

	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minResumeChars {
		return engine.CandidateProfile{}, ErrResumeTooShort
	}

	profile := engine.CandidateProfile{
		Skills:          extractSkills(trimmed),
		YearsExperience: extractYears(trimmed),
		Education:       extractEducation(trimmed),
		Location:        extractLocation(trimmed),
		PastRoles:       extractRoles(trimmed),
		Keywords:        extractKeywords(trimmed),
	}
	profile.Summary = engine.TruncateAtWord(trimmed, 300)
	return profile, nil
}

// extractSkills matches the vocabulary against the text. No match at all
// yields the "General" sentinel so downstream dork generation has something
// to work with.
func extractSkills(text string) []string {
	var skills []string
	for _, sv := range skillVocab {
		if sv.Pattern.MatchString(text) {
			skills = append(skills, sv.Name)
		}
	}
	if len(skills) == 0 {
		skills = []string{"General"}
	}
	return skills
}

// extractYears takes the maximum plausible "N years" figure; claims of 60+
// years are treated as noise.
func extractYears(text string) int {
	max := 0
	for _, m := range yearsRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n >= 60 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}

// extractEducation reports the highest degree mentioned.
func extractEducation(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "phd") || strings.Contains(lower, "ph.d") || strings.Contains(lower, "doctorate"):
		return engine.EduPHD
	case strings.Contains(lower, "master") || strings.Contains(lower, "m.s.") || strings.Contains(lower, "msc") || strings.Contains(lower, "mba") || strings.Contains(lower, "m.tech"):
		return engine.EduMasters
	case strings.Contains(lower, "bachelor") || strings.Contains(lower, "b.s.") || strings.Contains(lower, "bsc") || strings.Contains(lower, "b.tech") || strings.Contains(lower, "b.e."):
		return engine.EduBachelors
	case strings.Contains(lower, "high school") || strings.Contains(lower, "secondary school"):
		return engine.EduHighSchool
	default:
		return engine.EduUnknown
	}
}

// extractLocation prefers an explicitly labeled location, then falls back to
// the first major city named anywhere in the text.
func extractLocation(text string) string {
	for _, re := range locationPatterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			loc := strings.TrimSpace(m[1])
			if loc != "" {
				return loc
			}
		}
	}
	lower := strings.ToLower(text)
	for _, city := range majorCities {
		if strings.Contains(lower, strings.ToLower(city)) {
			return city
		}
	}
	return "Unknown"
}

// extractRoles finds job-title-looking lines, deduplicated in order.
func extractRoles(text string) []string {
	seen := make(map[string]bool)
	var roles []string
	for _, m := range roleRe.FindAllStringSubmatch(text, -1) {
		role := strings.Join(strings.Fields(m[1]), " ")
		key := strings.ToLower(role)
		if role == "" || seen[key] {
			continue
		}
		seen[key] = true
		roles = append(roles, role)
		if len(roles) >= 10 {
			break
		}
	}
	return roles
}

// extractKeywords returns the 10 most frequent substantive words (5+ chars,
// stop words removed). Frequency ties break alphabetically for determinism.
func extractKeywords(text string) []string {
	counts := make(map[string]int)
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if !keywordStopWords[w] {
			counts[w]++
		}
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > 10 {
		words = words[:10]
	}
	return words
}
