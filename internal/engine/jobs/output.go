package jobs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cyno-agent/cyno/internal/engine"
)

// csvHeader is the audit file column order.
var csvHeader = []string{"Company", "Title", "Location", "Salary", "Posted", "Source", "URL"}

// SaveCSV writes the filtered postings to a timestamped audit file under dir
// and returns its path. Files are write-once: an existing file is never
// overwritten — on a name collision the file gets a random suffix instead.
func SaveCSV(dir, query string, postings []engine.JobPosting) (string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("output: mkdir %s: %w", dir, err)
	}

	base := fmt.Sprintf("jobs_%s_%s", sanitizeQuery(query), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, base+".csv")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0640)
	if errors.Is(err, fs.ErrExist) {
		// Same query in the same second: disambiguate, keep both files.
		path = filepath.Join(dir, base+"_"+uuid.NewString()[:8]+".csv")
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0640)
	}
	if err != nil {
		return "", fmt.Errorf("output: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("output: write header: %w", err)
	}
	for _, p := range postings {
		record := []string{
			p.Company,
			p.Title,
			p.Location,
			orDefault(p.Salary, "Not Specified"),
			orDefault(p.Posted, "N/A"),
			p.Source,
			p.URL,
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("output: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("output: flush: %w", err)
	}
	return path, nil
}

// sanitizeQuery turns a query into a safe filename fragment.
func sanitizeQuery(query string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(query)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" {
		s = "query"
	}
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
