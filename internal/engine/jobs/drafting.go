package jobs

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cyno-agent/cyno/internal/engine"
)

// Draft kinds accepted by the drafting tool.
const (
	DraftCoverLetter   = "cover_letter"
	DraftOutreachEmail = "outreach_email"
	DraftATSReport     = "ats_report"
)

const coverLetterPrompt = `Write a concise, specific cover letter (under 300 words).

CANDIDATE RESUME:
%s

JOB DESCRIPTION:
%s

ATS KEYWORDS TO WORK IN NATURALLY: %s

TONE: %s

Rules: open with a concrete hook tied to the role, cite 2-3 achievements from the resume that map to the job's needs, no generic filler ("I am writing to express..."), close with a clear next step. Return only the letter text.`

const outreachPrompt = `Write a short cold outreach email (under 150 words) from a freelancer to a potential client.

FREELANCER BACKGROUND:
%s

LEAD CONTEXT:
%s

TONE: %s

Rules: reference the lead's actual situation in the first sentence, offer one specific way to help, end with a low-friction question. No subject line fluff; include a "Subject:" line first. Return only the email.`

// DraftDocument generates a cover letter or outreach email. ATS keywords
// are extracted from the job description so the letter can echo them; the
// result reports which LLM backend produced the text.
func DraftDocument(ctx context.Context, kind, resume, jobDescription, leadContext, tone string) (engine.GenerateResult, error) {
	if tone == "" {
		tone = "professional, warm"
	}

	var prompt string
	switch kind {
	case DraftCoverLetter:
		if strings.TrimSpace(resume) == "" || strings.TrimSpace(jobDescription) == "" {
			return engine.GenerateResult{}, fmt.Errorf("cover letter needs both resume and job_description")
		}
		keywords := TopJobKeywords(jobDescription, 8)
		prompt = fmt.Sprintf(coverLetterPrompt,
			engine.TruncateAtWord(resume, 4000),
			engine.TruncateAtWord(jobDescription, 3000),
			strings.Join(keywords, ", "),
			tone)
	case DraftOutreachEmail:
		if strings.TrimSpace(resume) == "" || strings.TrimSpace(leadContext) == "" {
			return engine.GenerateResult{}, fmt.Errorf("outreach email needs both resume and lead_context")
		}
		prompt = fmt.Sprintf(outreachPrompt,
			engine.TruncateAtWord(resume, 3000),
			engine.TruncateAtWord(leadContext, 1500),
			tone)
	case DraftATSReport:
		if strings.TrimSpace(resume) == "" || strings.TrimSpace(jobDescription) == "" {
			return engine.GenerateResult{}, fmt.Errorf("ats report needs both resume and job_description")
		}
		// Deterministic; no LLM involved.
		return engine.GenerateResult{
			Success: true,
			Text:    ATSReport(resume, jobDescription),
		}, nil
	default:
		return engine.GenerateResult{}, fmt.Errorf("unknown draft kind %q (want %s, %s, or %s)", kind, DraftCoverLetter, DraftOutreachEmail, DraftATSReport)
	}

	result := engine.Generate(ctx, prompt, engine.Cfg.LLMMaxTokens, engine.Cfg.LLMTemperature)
	if !result.Success {
		return result, fmt.Errorf("draft generation failed: %s", result.Error)
	}
	return result, nil
}

// ATSReport compares resume and job-description keyword sets and renders a
// plain-text overlap report: Jaccard score, shared keywords, and the gaps
// worth addressing before applying.
func ATSReport(resume, jobDescription string) string {
	resumeKW := extractMatchKW(resume)
	jobKW := extractMatchKW(jobDescription)

	var matching, missing []string
	union := len(resumeKW)
	for w := range jobKW {
		if resumeKW[w] {
			matching = append(matching, w)
		} else {
			missing = append(missing, w)
			union++
		}
	}
	sort.Strings(matching)
	sort.Strings(missing)
	if len(missing) > 20 {
		missing = missing[:20]
	}

	score := 0.0
	if union > 0 {
		score = float64(len(matching)) / float64(union) * 100
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ATS keyword overlap: %.1f%%\n", score)
	fmt.Fprintf(&b, "Matching (%d): %s\n", len(matching), strings.Join(matching, ", "))
	fmt.Fprintf(&b, "Missing (top %d): %s\n", len(missing), strings.Join(missing, ", "))
	return b.String()
}

// TopJobKeywords extracts the most frequent substantive keywords from a job
// description, suitable for ATS echoing. Ties break alphabetically.
func TopJobKeywords(jobText string, n int) []string {
	lower := strings.ToLower(jobText)
	counts := make(map[string]int)
	for w := range extractMatchKW(jobText) {
		counts[w] = strings.Count(lower, w)
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
	if len(words) > n {
		words = words[:n]
	}
	return words
}
