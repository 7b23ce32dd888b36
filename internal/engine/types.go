package engine

import "strings"

// --- Core data model ---

// JobPosting is a single job listing from any source. Scrapers must fill
// Source so every posting stays traceable to where it came from.
type JobPosting struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	Posted      string `json:"posted"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
}

// Education levels extracted from resumes, highest first.
const (
	EduPHD        = "PHD"
	EduMasters    = "MASTERS"
	EduBachelors  = "BACHELORS"
	EduHighSchool = "HIGH_SCHOOL"
	EduUnknown    = "UNKNOWN"
)

// CandidateProfile is the structured result of parsing a resume.
type CandidateProfile struct {
	Skills          []string `json:"skills"`
	YearsExperience int      `json:"years_experience"`
	Education       string   `json:"education"`
	Location        string   `json:"location"`
	PastRoles       []string `json:"past_roles,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	Summary         string   `json:"summary,omitempty"`

	// Filled by the LLM enrichment pass; empty when it is unavailable.
	Projects       []string `json:"projects,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	SoftSkills     []string `json:"soft_skills,omitempty"`
	Domains        []string `json:"domains,omitempty"`
	WorkExperience []string `json:"work_experience,omitempty"`
	ProfileType    string   `json:"profile_type,omitempty"`
}

// WantsRemote reports whether the candidate's preferred location is remote.
func (p CandidateProfile) WantsRemote() bool {
	return strings.EqualFold(strings.TrimSpace(p.Location), "remote")
}

// MatchResult is a job posting scored against a candidate profile.
type MatchResult struct {
	Job           JobPosting `json:"job"`
	Score         float64    `json:"score"`
	SemanticScore float64    `json:"semantic_score"`
	TitleScore    float64    `json:"title_score"`
	LocationScore float64    `json:"location_score"`
	Rationale     string     `json:"rationale"`
}

// Lead is a potential freelance client or hiring contact.
type Lead struct {
	Company    string   `json:"company,omitempty"`
	RoleNeeded string   `json:"role_needed,omitempty"`
	Source     string   `json:"source"`
	URL        string   `json:"url"`
	Contact    string   `json:"contact,omitempty"`
	Email      string   `json:"email,omitempty"`
	Context    string   `json:"context"`
	PainPoints []string `json:"pain_points,omitempty"`
	Confidence int      `json:"confidence"` // 0–100
}

// RouteDecision is the router's verdict on a natural-language request.
type RouteDecision struct {
	PrimaryAction      string            `json:"primary_action"`
	ToolsNeeded        []string          `json:"tools_needed,omitempty"`
	Parameters         map[string]string `json:"parameters,omitempty"`
	NeedsClarification bool              `json:"needs_clarification"`
	Question           string            `json:"question,omitempty"`
}

// GenerateResult is the outcome of a single LLM generation attempt,
// including which backend actually served it.
type GenerateResult struct {
	Success     bool   `json:"success"`
	Text        string `json:"text,omitempty"`
	BackendUsed string `json:"backend_used,omitempty"` // "cloud" or "local"
	Error       string `json:"error,omitempty"`
}

// --- Tool IO types ---

// JobSearchInput is the input for the job_search tool.
type JobSearchInput struct {
	Query    string `json:"query" jsonschema:"Job search keywords (e.g. golang developer, data engineer)"`
	Location string `json:"location,omitempty" jsonschema:"City, country, or Remote"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of postings to return (default 25)"`
	Sources  string `json:"sources,omitempty" jsonschema:"Comma-separated source filter (e.g. hn,remoteok,wwr); empty = all"`
	NoSave   bool   `json:"no_save,omitempty" jsonschema:"Skip writing the audit file for this search"`
}

// JobSearchOutput is the structured output for job_search.
type JobSearchOutput struct {
	Query    string            `json:"query"`
	Jobs     []JobPosting      `json:"jobs"`
	Sources  map[string]int    `json:"sources,omitempty"`
	Failures map[string]string `json:"failures,omitempty"`
	SavedTo  string            `json:"saved_to,omitempty"`
	Summary  string            `json:"summary"`
}

// JobMatchInput is the input for the job_match tool.
type JobMatchInput struct {
	Resume   string `json:"resume" jsonschema:"Full resume text to match against job listings"`
	Query    string `json:"query" jsonschema:"Job search keywords"`
	Location string `json:"location,omitempty" jsonschema:"City, country, or Remote"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of ranked matches to return (default 10)"`
}

// JobMatchOutput is the structured output for job_match.
type JobMatchOutput struct {
	Query   string        `json:"query"`
	Matches []MatchResult `json:"matches"`
	Summary string        `json:"summary"`
}

// ResumeParseInput is the input for the resume_parse tool.
type ResumeParseInput struct {
	Resume string `json:"resume" jsonschema:"Full resume text"`
	Enrich bool   `json:"enrich,omitempty" jsonschema:"Run an extra LLM pass to surface implicit skills"`
}

// ResumeParseOutput is the structured output for resume_parse.
type ResumeParseOutput struct {
	Profile CandidateProfile `json:"profile"`
	Summary string           `json:"summary"`
}

// LeadSearchInput is the input for the lead_search tool.
type LeadSearchInput struct {
	Skills string `json:"skills" jsonschema:"Comma-separated skills to find clients for (e.g. python, react)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of leads to return (default 15)"`
}

// LeadSearchOutput is the structured output for lead_search.
type LeadSearchOutput struct {
	Leads   []Lead `json:"leads"`
	Summary string `json:"summary"`
}

// DraftInput is the input for the draft_outreach tool.
type DraftInput struct {
	Kind           string `json:"kind" jsonschema:"Draft type: cover_letter, outreach_email, ats_report"`
	Resume         string `json:"resume" jsonschema:"Resume text to draft from"`
	JobDescription string `json:"job_description,omitempty" jsonschema:"Target job description (cover_letter, ats_report)"`
	LeadContext    string `json:"lead_context,omitempty" jsonschema:"Lead context to pitch against (outreach_email)"`
	Tone           string `json:"tone,omitempty" jsonschema:"Writing tone (default: professional)"`
}

// DraftOutput is the structured output for draft_outreach.
type DraftOutput struct {
	Kind    string `json:"kind"`
	Text    string `json:"text"`
	Backend string `json:"backend,omitempty"`
}

// RouteInput is the input for the route_request tool.
type RouteInput struct {
	Message string `json:"message" jsonschema:"Natural-language request to route to a tool"`
}
