package engine

import "testing"

const ddgHTMLFixture = `<html><body>
<div class="result">
  <h2 class="result__title"><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fjob1&rut=abc">Senior Go Engineer - Acme</a></h2>
  <a class="result__snippet">Build distributed systems in Go. Remote friendly.</a>
</div>
<div class="result">
  <h2 class="result__title"><a class="result__a" href="https://example.org/job2">Backend Developer</a></h2>
  <a class="result__snippet">Python and Postgres.</a>
</div>
<div class="result">
  <h2 class="result__title"><a class="result__a" href="/relative-only">Broken</a></h2>
</div>
</body></html>`

func TestParseDDGHTML(t *testing.T) {
	results, err := parseDDGHTML([]byte(ddgHTMLFixture))
	if err != nil {
		t.Fatalf("parseDDGHTML() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if results[0].URL != "https://example.com/job1" {
		t.Errorf("first URL = %q, want unwrapped redirect", results[0].URL)
	}
	if results[0].Title != "Senior Go Engineer - Acme" {
		t.Errorf("first title = %q", results[0].Title)
	}
	if results[0].Snippet == "" {
		t.Error("first snippet empty")
	}
	if results[1].URL != "https://example.org/job2" {
		t.Errorf("second URL = %q", results[1].URL)
	}
}

func TestDDGUnwrapURL(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{"redirect wrapper", "//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fx&rut=1", "https://example.com/x"},
		{"direct https", "https://example.com/x", "https://example.com/x"},
		{"relative dropped", "/l/?nothing=1", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ddgUnwrapURL(tt.href); got != tt.want {
				t.Errorf("ddgUnwrapURL(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

func TestParseDDGResponse(t *testing.T) {
	jsonp := `DDG.pageLayout.load('d',[{"t":"Go Developer","a":"Write <b>Go</b> services","u":"https://example.com/go"},{"t":"Ad","u":"https://duckduckgo.com/y.js"},{"t":"","u":"https://example.com/skip"}]);`
	results, err := parseDDGResponse([]byte(jsonp))
	if err != nil {
		t.Fatalf("parseDDGResponse() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Title != "Go Developer" || results[0].URL != "https://example.com/go" {
		t.Errorf("result = %+v", results[0])
	}
	if results[0].Snippet != "Write Go services" {
		t.Errorf("snippet = %q, want HTML stripped", results[0].Snippet)
	}
}

func TestSearchDDGDirectNilClient(t *testing.T) {
	if _, err := SearchDDGDirect(t.Context(), nil, "golang jobs", ""); err == nil {
		t.Error("expected error with nil browser client")
	}
}
