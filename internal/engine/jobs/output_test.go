package jobs

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cyno-agent/cyno/internal/engine"
)

func TestSaveCSV(t *testing.T) {
	dir := t.TempDir()
	postings := []engine.JobPosting{
		{Title: "Backend Engineer", Company: "Acme", Location: "Remote", Salary: "120k", Posted: "2026-08-01", Source: "hn", URL: "https://a.com/1"},
		{Title: "SRE", Company: "Initech", Source: "remoteok", URL: "https://a.com/2"},
	}

	path, err := SaveCSV(dir, "golang developer", postings)
	if err != nil {
		t.Fatalf("SaveCSV() error = %v", err)
	}

	base := filepath.Base(path)
	if !strings.HasPrefix(base, "jobs_golang_developer_") || !strings.HasSuffix(base, ".csv") {
		t.Errorf("filename = %q", base)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(records))
	}
	wantHeader := []string{"Company", "Title", "Location", "Salary", "Posted", "Source", "URL"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}

	// Defaults for missing fields.
	if records[2][3] != "Not Specified" {
		t.Errorf("empty salary = %q, want Not Specified", records[2][3])
	}
	if records[2][4] != "N/A" {
		t.Errorf("empty posted = %q, want N/A", records[2][4])
	}
}

func TestSaveCSVNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	postings := []engine.JobPosting{{Title: "x", Company: "y"}}

	// Two saves in the same second must yield two distinct files.
	first, err := SaveCSV(dir, "same query", postings)
	if err != nil {
		t.Fatal(err)
	}
	second, err := SaveCSV(dir, "same query", postings)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatalf("both saves wrote %q", first)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d files, want 2", len(entries))
	}
}

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Golang Developer", "golang_developer"},
		{"C++ / remote!", "c__remote"},
		{"", "query"},
		{"  spaces  ", "spaces"},
	}
	for _, tt := range tests {
		if got := sanitizeQuery(tt.raw); got != tt.want {
			t.Errorf("sanitizeQuery(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
