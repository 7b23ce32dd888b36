package jobserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cyno-agent/cyno/internal/engine/jobs"
)

// trackerResult is the output for tracker add/update operations.
type trackerResult struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// trackerListResult is the output for tracker list operations.
type trackerListResult struct {
	Jobs  []jobs.TrackedJob `json:"jobs"`
	Total int               `json:"total"`
}

var errTrackerUnavailable = errors.New("tracker database is not available")

func registerTracker(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "tracker_add",
		Description: "Save a job application to the local tracker (SQLite). Status options: saved (default), applied, interview, offer, rejected. Returns the assigned ID for future updates.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input jobs.TrackerAdd) (*mcp.CallToolResult, *trackerResult, error) {
		t := jobs.GetTracker()
		if t == nil {
			return nil, nil, errTrackerUnavailable
		}
		id, err := t.Add(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, &trackerResult{
			ID:      id,
			Message: fmt.Sprintf("Tracked %q at %q (id=%d)", input.Title, input.Company, id),
		}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "tracker_list",
		Description: "List tracked job applications, newest first. Optionally filter by status: saved, applied, interview, offer, rejected.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input struct {
		Status string `json:"status,omitempty" jsonschema:"Filter by status: saved, applied, interview, offer, rejected"`
		Limit  int    `json:"limit,omitempty" jsonschema:"Maximum entries to return (default 50)"`
	}) (*mcp.CallToolResult, *trackerListResult, error) {
		t := jobs.GetTracker()
		if t == nil {
			return nil, nil, errTrackerUnavailable
		}
		entries, total, err := t.List(ctx, input.Status, input.Limit)
		if err != nil {
			return nil, nil, err
		}
		return nil, &trackerListResult{Jobs: entries, Total: total}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "tracker_update",
		Description: "Update status or notes for a tracked application by ID. Get IDs from tracker_list.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input jobs.TrackerUpdate) (*mcp.CallToolResult, *trackerResult, error) {
		t := jobs.GetTracker()
		if t == nil {
			return nil, nil, errTrackerUnavailable
		}
		if err := t.Update(ctx, input); err != nil {
			return nil, nil, err
		}
		return nil, &trackerResult{
			ID:      input.ID,
			Message: fmt.Sprintf("Updated tracked job %d", input.ID),
		}, nil
	})
}
