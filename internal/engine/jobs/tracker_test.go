package jobs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) *TrackerStore {
	t.Helper()
	store, err := OpenTracker(filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTrackerAddDefaults(t *testing.T) {
	store := newTestTracker(t)
	ctx := context.Background()

	id, err := store.Add(ctx, TrackerAdd{Title: "Backend Engineer", Company: "Acme"})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	jobs, total, err := store.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, StatusSaved, jobs[0].Status)
	assert.NotEmpty(t, jobs[0].CreatedAt)
	assert.Equal(t, jobs[0].CreatedAt, jobs[0].UpdatedAt)
}

func TestTrackerAddValidation(t *testing.T) {
	store := newTestTracker(t)
	ctx := context.Background()

	_, err := store.Add(ctx, TrackerAdd{Title: "no company"})
	assert.Error(t, err)

	_, err = store.Add(ctx, TrackerAdd{Title: "x", Company: "y", Status: "ghosted"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")

	// Status is case-insensitive.
	_, err = store.Add(ctx, TrackerAdd{Title: "x", Company: "y", Status: "APPLIED"})
	assert.NoError(t, err)
}

func TestTrackerListStatusFilter(t *testing.T) {
	store := newTestTracker(t)
	ctx := context.Background()

	for _, status := range []string{"saved", "applied", "applied", "rejected"} {
		_, err := store.Add(ctx, TrackerAdd{Title: "role", Company: "co", Status: status})
		require.NoError(t, err)
	}

	jobs, total, err := store.List(ctx, "applied", 0)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.Equal(t, 2, total)
	for _, j := range jobs {
		assert.Equal(t, StatusApplied, j.Status)
	}

	_, _, err = store.List(ctx, "bogus", 0)
	assert.Error(t, err)
}

func TestTrackerUpdate(t *testing.T) {
	store := newTestTracker(t)
	ctx := context.Background()

	id, err := store.Add(ctx, TrackerAdd{Title: "SRE", Company: "Initech"})
	require.NoError(t, err)

	require.NoError(t, store.Update(ctx, TrackerUpdate{ID: id, Status: "interview", Notes: "onsite Tuesday"}))

	jobs, _, err := store.List(ctx, "interview", 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "onsite Tuesday", jobs[0].Notes)

	// Notes-only update keeps the status.
	require.NoError(t, store.Update(ctx, TrackerUpdate{ID: id, Notes: "rescheduled"}))
	jobs, _, err = store.List(ctx, "interview", 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "rescheduled", jobs[0].Notes)
}

func TestTrackerUpdateErrors(t *testing.T) {
	store := newTestTracker(t)
	ctx := context.Background()

	err := store.Update(ctx, TrackerUpdate{ID: 999, Status: "applied"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no job with id 999")

	assert.Error(t, store.Update(ctx, TrackerUpdate{Status: "applied"}))

	id, err := store.Add(ctx, TrackerAdd{Title: "x", Company: "y"})
	require.NoError(t, err)
	assert.Error(t, store.Update(ctx, TrackerUpdate{ID: id}))
	assert.Error(t, store.Update(ctx, TrackerUpdate{ID: id, Status: "bogus"}))
}
