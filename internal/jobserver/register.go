package jobserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers the assistant's tool surface on the MCP server:
// job_search, job_match, resume_parse, lead_search, draft, route, and the
// application tracker.
func RegisterTools(server *mcp.Server) {
	registerJobSearch(server)
	registerJobMatch(server)
	registerResumeParse(server)
	registerLeadSearch(server)
	registerDraft(server)
	registerRoute(server)
	registerTracker(server)
}
