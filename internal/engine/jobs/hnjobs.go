package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cyno-agent/cyno/internal/engine"
)

const (
	hnAlgoliaURL       = "https://hn.algolia.com/api/v1/search"
	hnAlgoliaByDateURL = "https://hn.algolia.com/api/v1/search_by_date"
	hnFirebaseBase     = "https://hacker-news.firebaseio.com/v0"
)

// hnAlgoliaResponse is the Algolia HN search API response shape.
type hnAlgoliaResponse struct {
	Hits []struct {
		ObjectID    string `json:"objectID"`
		Title       string `json:"title"`
		CommentText string `json:"comment_text"`
	} `json:"hits"`
}

// hnItemResponse is the Firebase HN API item shape (story or comment).
type hnItemResponse struct {
	ID      int64   `json:"id"`
	Type    string  `json:"type"`
	By      string  `json:"by"`
	Text    string  `json:"text"`
	Kids    []int64 `json:"kids"`
	Time    int64   `json:"time"`
	Dead    bool    `json:"dead"`
	Deleted bool    `json:"deleted"`
}

// hnThreadCache caches the thread ID so we don't re-search every call.
// The thread is posted monthly; 6h is plenty.
var hnThreadCache struct {
	mu        sync.Mutex
	threadID  int64
	fetchedAt time.Time
}

const hnThreadCacheTTL = 6 * time.Hour

// hnComment pairs a comment's item ID with its cleaned text. The ID keys
// the per-comment permalink, so postings from one thread stay distinct
// through URL dedup.
type hnComment struct {
	id   int64
	text string
}

// SearchHNJobs scrapes the latest "Ask HN: Who is hiring?" thread for
// comments matching the query and converts them to postings.
func SearchHNJobs(ctx context.Context, q Query) ([]engine.JobPosting, error) {
	threadID, err := findWhoIsHiringThread(ctx)
	if err != nil {
		return nil, fmt.Errorf("hn: find thread: %w", err)
	}

	limit := q.Limit
	if limit <= 0 || limit > 40 {
		limit = 20
	}

	// Primary: Algolia search within the thread (one call, whole thread).
	comments, err := searchHNThreadComments(ctx, threadID, q.Keywords, limit*2)
	if err != nil {
		slog.Debug("hn: algolia search failed, falling back to firebase", slog.Any("error", err))
		comments = nil
	}

	// Fallback: sequential Firebase fetch + keyword filter.
	if len(comments) == 0 {
		raw, err := fetchHNJobComments(ctx, threadID, limit*4)
		if err != nil {
			return nil, fmt.Errorf("hn: fetch comments: %w", err)
		}
		comments = filterHNComments(raw, q.Keywords)
	}

	if len(comments) > limit {
		comments = comments[:limit]
	}

	postings := make([]engine.JobPosting, 0, len(comments))
	for _, c := range comments {
		postings = append(postings, hnCommentPosting(c))
	}

	slog.Debug("hn: search complete", slog.Int64("thread", threadID), slog.Int("results", len(postings)))
	return postings, nil
}

// hnCommentPosting converts one comment into a posting with its own
// item?id= permalink.
func hnCommentPosting(c hnComment) engine.JobPosting {
	p := parseHNComment(c.text)
	p.URL = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", c.id)
	p.Source = "hn"
	return p
}

// parseHNComment extracts posting fields from a Who-is-Hiring comment.
// The convention is a "Company | Role | Location | ..." header line.
func parseHNComment(text string) engine.JobPosting {
	p := engine.JobPosting{Description: text}

	header := text
	if idx := strings.IndexByte(text, '\n'); idx > 0 {
		header = text[:idx]
	}
	parts := strings.Split(header, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch {
	case len(parts) >= 3:
		p.Company = parts[0]
		p.Title = parts[1]
		p.Location = parts[2]
	case len(parts) == 2:
		p.Company = parts[0]
		p.Title = parts[1]
	default:
		p.Title = engine.TruncateAtWord(header, 80)
	}
	for _, part := range parts[min(len(parts), 3):] {
		if looksLikeSalary(part) {
			p.Salary = part
			break
		}
	}
	if p.Title == "" {
		p.Title = engine.TruncateAtWord(text, 80)
	}
	return p
}

// looksLikeSalary is a cheap check for pay figures in header segments.
func looksLikeSalary(s string) bool {
	lower := strings.ToLower(s)
	if strings.ContainsAny(s, "$€£") {
		return true
	}
	return strings.Contains(lower, "salary") || strings.Contains(lower, "lpa") || strings.Contains(lower, "k/yr")
}

// findWhoIsHiringThread finds the most recent "Who is hiring?" HN thread ID
// via Algolia, with a 6h cache.
func findWhoIsHiringThread(ctx context.Context) (int64, error) {
	hnThreadCache.mu.Lock()
	defer hnThreadCache.mu.Unlock()

	if hnThreadCache.threadID != 0 && time.Since(hnThreadCache.fetchedAt) < hnThreadCacheTTL {
		return hnThreadCache.threadID, nil
	}

	u, err := url.Parse(hnAlgoliaByDateURL)
	if err != nil {
		return 0, err
	}
	q := u.Query()
	q.Set("query", "Ask HN: Who is hiring?")
	q.Set("tags", "story,author_whoishiring")
	q.Set("hitsPerPage", "1")
	u.RawQuery = q.Encode()

	body, err := engine.Fetch(ctx, u.String(), false)
	if err != nil {
		return 0, err
	}

	var data hnAlgoliaResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return 0, err
	}
	if len(data.Hits) == 0 {
		return 0, fmt.Errorf("no 'Who is hiring?' thread found")
	}

	var threadID int64
	if _, err := fmt.Sscanf(data.Hits[0].ObjectID, "%d", &threadID); err != nil {
		return 0, fmt.Errorf("parse thread ID: %w", err)
	}

	hnThreadCache.threadID = threadID
	hnThreadCache.fetchedAt = time.Now()
	slog.Debug("hn: found Who is Hiring thread", slog.Int64("id", threadID))
	return threadID, nil
}

// searchHNThreadComments uses Algolia to search within a specific HN story's
// comments — the entire thread (400+ comments) by keyword in one API call.
func searchHNThreadComments(ctx context.Context, threadID int64, query string, limit int) ([]hnComment, error) {
	if query == "" {
		return nil, nil
	}

	u, err := url.Parse(hnAlgoliaURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("query", query)
	q.Set("tags", fmt.Sprintf("comment,story_%d", threadID))
	q.Set("hitsPerPage", fmt.Sprintf("%d", limit))
	u.RawQuery = q.Encode()

	body, err := engine.Fetch(ctx, u.String(), false)
	if err != nil {
		return nil, err
	}

	var data hnAlgoliaResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}

	var comments []hnComment
	for _, hit := range data.Hits {
		id, err := strconv.ParseInt(hit.ObjectID, 10, 64)
		if err != nil {
			continue
		}
		text := engine.CleanHTML(hit.CommentText)
		if text == "" {
			continue
		}
		if len(text) > 1200 {
			text = text[:1200] + "..."
		}
		comments = append(comments, hnComment{id: id, text: text})
	}
	return comments, nil
}

// fetchHNItem fetches a single item from the HN Firebase API.
func fetchHNItem(ctx context.Context, id int64) (*hnItemResponse, error) {
	body, err := engine.Fetch(ctx, fmt.Sprintf("%s/item/%d.json", hnFirebaseBase, id), false)
	if err != nil {
		return nil, err
	}
	var item hnItemResponse
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// fetchHNJobComments fetches top-level job comments from the thread.
// Returns up to limit comments (HTML stripped), each keyed by its item ID.
func fetchHNJobComments(ctx context.Context, threadID int64, limit int) ([]hnComment, error) {
	thread, err := fetchHNItem(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("fetch thread: %w", err)
	}
	if len(thread.Kids) == 0 {
		return nil, fmt.Errorf("thread has no comments")
	}

	fetch := limit
	if fetch > len(thread.Kids) {
		fetch = len(thread.Kids)
	}

	type result struct {
		idx  int
		text string
	}
	ch := make(chan result, fetch)
	sem := make(chan struct{}, 10) // max 10 concurrent requests

	for i := 0; i < fetch; i++ {
		go func(i int, id int64) {
			sem <- struct{}{}
			defer func() { <-sem }()

			item, err := fetchHNItem(ctx, id)
			if err != nil || item == nil || item.Dead || item.Deleted || item.Text == "" {
				ch <- result{i, ""}
				return
			}
			text := engine.CleanHTML(item.Text)
			if len(text) > 1200 {
				text = text[:1200] + "..."
			}
			ch <- result{i, text}
		}(i, thread.Kids[i])
	}

	raw := make([]string, fetch)
	for i := 0; i < fetch; i++ {
		r := <-ch
		raw[r.idx] = r.text
	}

	var comments []hnComment
	for i, t := range raw {
		if t != "" {
			comments = append(comments, hnComment{id: thread.Kids[i], text: t})
		}
	}
	return comments, nil
}

// filterHNComments filters comments by keyword match on their text.
func filterHNComments(comments []hnComment, query string) []hnComment {
	keywords := strings.Fields(strings.ToLower(query))
	if len(keywords) == 0 {
		return comments
	}
	var filtered []hnComment
	for _, c := range comments {
		lower := strings.ToLower(c.text)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				filtered = append(filtered, c)
				break
			}
		}
	}
	return filtered
}
