package jobserver

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/cyno-agent/cyno/internal/engine"
)

// Tool actions the router can dispatch to.
const (
	ActionJobSearch   = "job_search"
	ActionJobMatch    = "job_match"
	ActionResumeParse = "resume_parse"
	ActionLeadSearch  = "lead_search"
	ActionDraft       = "draft"
	ActionTrackerAdd  = "tracker_add"
	ActionTrackerList = "tracker_list"
	ActionChat        = "chat"
)

// intentPatterns map keyword phrases to actions for the deterministic
// fallback path. Multi-word phrases outscore single words, so "find jobs"
// beats a stray "find".
var intentPatterns = map[string][]string{
	ActionJobSearch:   {"find jobs", "search jobs", "job search", "job openings", "hiring", "vacancies", "look for jobs", "find work", "openings"},
	ActionJobMatch:    {"match jobs", "rank jobs", "best fit", "score jobs", "which jobs", "match my resume", "fit my profile"},
	ActionResumeParse: {"parse resume", "read my resume", "analyze resume", "my resume", "extract profile", "parse my cv", "my cv"},
	ActionLeadSearch:  {"find leads", "find clients", "freelance leads", "lead generation", "potential clients", "gigs", "prospects"},
	ActionDraft:       {"cover letter", "write a letter", "draft email", "outreach email", "cold email", "write to"},
	ActionTrackerAdd:  {"track this job", "save this job", "add to tracker", "applied to", "mark applied"},
	ActionTrackerList: {"show tracker", "list applications", "my applications", "application status", "tracked jobs"},
}

// requiredParams names the parameter each action cannot run without.
var requiredParams = map[string]string{
	ActionJobSearch:  "query",
	ActionLeadSearch: "skills",
	ActionDraft:      "kind",
}

// clarifyQuestions asks for the missing required parameter.
var clarifyQuestions = map[string]string{
	ActionJobSearch:  "What role or keywords should I search for?",
	ActionLeadSearch: "Which skills should I hunt leads for?",
	ActionDraft:      "Should I draft a cover letter or an outreach email?",
}

const routePrompt = `You are an intent router for a job-search assistant. Classify the user message into exactly one action and extract parameters.

ACTIONS:
- job_search: find job postings (params: query, location, limit)
- job_match: rank postings against the candidate profile (params: query)
- resume_parse: parse a resume into a profile (params: none; the resume text follows separately)
- lead_search: find freelance leads (params: skills as comma-separated list, limit)
- draft: write a cover_letter or outreach_email (params: kind, tone)
- tracker_add: save a job application (params: title, company, status)
- tracker_list: list tracked applications (params: status)
- chat: anything else

USER MESSAGE:
%s

Return ONLY a JSON object:
{"action": "...", "parameters": {"key": "value"}}`

const routeSchema = `{
  "type": "object",
  "properties": {
    "action": {"type": "string"},
    "parameters": {"type": "object", "additionalProperties": {"type": "string"}}
  },
  "required": ["action"]
}`

// Route classifies a natural-language message into a tool action. The LLM
// path runs first; when it fails or names an unknown action, the keyword
// scorer decides. Actions missing a required parameter come back flagged
// with a clarification question instead of guessing.
func Route(ctx context.Context, message string) engine.RouteDecision {
	engine.IncrRouteRequests()

	message = strings.TrimSpace(message)
	if message == "" {
		return engine.RouteDecision{
			PrimaryAction:      ActionChat,
			NeedsClarification: true,
			Question:           "What would you like me to do?",
		}
	}

	decision, ok := routeViaLLM(ctx, message)
	if !ok {
		decision = routeViaKeywords(message)
	}
	decision.ToolsNeeded = toolsFor(decision.PrimaryAction)

	// Backfill obvious parameters the classifier missed.
	if decision.Parameters == nil {
		decision.Parameters = map[string]string{}
	}
	backfillParams(message, &decision)

	if param, need := requiredParams[decision.PrimaryAction]; need {
		if decision.Parameters[param] == "" {
			decision.NeedsClarification = true
			decision.Question = clarifyQuestions[decision.PrimaryAction]
		}
	}
	return decision
}

// routeViaLLM asks the LLM to classify; ok is false on any failure so the
// caller falls back to keywords.
func routeViaLLM(ctx context.Context, message string) (engine.RouteDecision, bool) {
	raw, err := engine.CallLLM(ctx, fmt.Sprintf(routePrompt, engine.TruncateAtWord(message, 2000)))
	if err != nil {
		slog.Debug("route: llm unavailable, using keyword fallback", slog.Any("error", err))
		return engine.RouteDecision{}, false
	}

	var parsed struct {
		Action     string            `json:"action"`
		Parameters map[string]string `json:"parameters"`
	}
	if err := engine.UnmarshalLLMJSON(raw, routeSchema, &parsed); err != nil {
		slog.Debug("route: llm response rejected", slog.Any("error", err))
		return engine.RouteDecision{}, false
	}
	if !isKnownAction(parsed.Action) {
		slog.Debug("route: llm named unknown action", slog.String("action", parsed.Action))
		return engine.RouteDecision{}, false
	}

	return engine.RouteDecision{
		PrimaryAction: parsed.Action,
		Parameters:    parsed.Parameters,
	}, true
}

// routeViaKeywords scores each action by total matched phrase length in
// words; longer phrases dominate. No match at all routes to chat.
func routeViaKeywords(message string) engine.RouteDecision {
	lower := strings.ToLower(message)

	best := ActionChat
	bestScore := 0
	for _, action := range orderedActions() {
		score := 0
		for _, phrase := range intentPatterns[action] {
			if strings.Contains(lower, phrase) {
				score += len(strings.Fields(phrase))
			}
		}
		if score > bestScore {
			bestScore = score
			best = action
		}
	}
	return engine.RouteDecision{PrimaryAction: best}
}

// orderedActions fixes iteration order so keyword ties are deterministic.
func orderedActions() []string {
	return []string{
		ActionJobSearch, ActionJobMatch, ActionResumeParse,
		ActionLeadSearch, ActionDraft, ActionTrackerAdd, ActionTrackerList,
	}
}

func isKnownAction(a string) bool {
	if a == ActionChat {
		return true
	}
	for _, known := range orderedActions() {
		if a == known {
			return true
		}
	}
	return false
}

// toolsFor maps an action to the MCP tools it will invoke.
func toolsFor(action string) []string {
	switch action {
	case ActionChat:
		return nil
	case ActionJobMatch:
		return []string{ActionJobSearch, ActionJobMatch}
	default:
		return []string{action}
	}
}

var (
	searchForRe = regexp.MustCompile(`(?i)(?:find(?:\s+me)?\s+jobs?\s+for|jobs?\s+for|search\s+for|find(?:\s+me)?|looking\s+for|hiring)\s+(?:an?\s+)?([a-z0-9+#./ ]{3,60}?)(?:\s+(?:jobs?|roles?|positions?|in\s+[a-z ]+))?\s*$`)
	inLocRe     = regexp.MustCompile(`(?i)\bin\s+([A-Za-z][A-Za-z ]{1,30})$`)
	draftKindRe = regexp.MustCompile(`(?i)(cover\s*letter|outreach|cold\s*email)`)
)

// backfillParams extracts parameters deterministically from the message when
// the classifier left them out.
func backfillParams(message string, d *engine.RouteDecision) {
	switch d.PrimaryAction {
	case ActionJobSearch, ActionJobMatch:
		if d.Parameters["query"] == "" {
			if m := searchForRe.FindStringSubmatch(message); len(m) > 1 {
				d.Parameters["query"] = strings.TrimSpace(m[1])
			}
		}
		if d.Parameters["location"] == "" {
			if m := inLocRe.FindStringSubmatch(message); len(m) > 1 {
				d.Parameters["location"] = strings.TrimSpace(m[1])
			}
		}
	case ActionDraft:
		if d.Parameters["kind"] == "" {
			if m := draftKindRe.FindStringSubmatch(strings.ToLower(message)); len(m) > 1 {
				if strings.Contains(m[1], "cover") {
					d.Parameters["kind"] = "cover_letter"
				} else {
					d.Parameters["kind"] = "outreach_email"
				}
			}
		}
	case ActionLeadSearch:
		if d.Parameters["skills"] == "" {
			if m := searchForRe.FindStringSubmatch(message); len(m) > 1 {
				d.Parameters["skills"] = strings.TrimSpace(m[1])
			}
		}
	}
}
