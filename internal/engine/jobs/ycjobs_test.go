package jobs

import (
	"strings"
	"testing"
)

const ycJobsFixture = `<html><body>
<div class="jobs-list-item"><a href="/jobs/123">Backend Engineer</a><div>Acme</div><div>Remote</div></div>
<div class="jobs-list-item"><div>Linkless Co</div><div>NYC</div></div>
<div class="jobs-list-item"><a href="/jobs/456">Platform Engineer</a><div>Initech</div><div>Berlin</div></div>
</body></html>`

func TestParseYCJobsHTML(t *testing.T) {
	postings := parseYCJobsHTML(ycJobsFixture)
	if len(postings) != 2 {
		t.Fatalf("got %d postings, want 2 (linkless card skipped)", len(postings))
	}

	first := postings[0]
	if first.Title != "Backend Engineer" || first.Company != "Acme" || first.Location != "Remote" {
		t.Errorf("first card = %+v", first)
	}
	if !strings.HasPrefix(first.URL, "https://www.workatastartup.com/jobs/") {
		t.Errorf("url = %q", first.URL)
	}

	// Each kept card keeps its own link, so URL dedup cannot collapse them.
	if postings[0].URL == postings[1].URL {
		t.Error("cards share a URL")
	}
	if got := DedupByURL(postings); len(got) != 2 {
		t.Errorf("dedup collapsed to %d", len(got))
	}
}
