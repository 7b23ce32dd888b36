package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// WebResult is a single web search hit from the direct DDG scraper.
type WebResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

var vqdPatterns = []*regexp.Regexp{
	regexp.MustCompile(`vqd='([^']+)'`),
	regexp.MustCompile(`vqd="([^"]+)"`),
	regexp.MustCompile(`vqd=([a-zA-Z0-9_-]+)`),
}

// ddgResult represents a single DuckDuckGo search result from d.js.
type ddgResult struct {
	T string `json:"t"` // title
	A string `json:"a"` // abstract/content (HTML)
	U string `json:"u"` // URL
	C string `json:"c"` // content URL (alternative)
}

// SearchDDGDirect queries DuckDuckGo directly using a browser TLS fingerprint.
// Uses the HTML lite endpoint (html.duckduckgo.com/html) as primary,
// falls back to the d.js JSON API if HTML parsing fails.
func SearchDDGDirect(ctx context.Context, bc *BrowserClient, query, region string) ([]WebResult, error) {
	if bc == nil {
		return nil, fmt.Errorf("browser client not configured")
	}
	if region == "" {
		region = "wt-wt"
	}

	IncrDorkRequests()

	results, err := ddgSearchHTML(ctx, bc, query, region)
	if err == nil && len(results) > 0 {
		slog.Debug("ddg direct results (html)", slog.Int("count", len(results)))
		return results, nil
	}
	if err != nil {
		slog.Debug("ddg html failed, trying d.js", slog.Any("error", err))
	}

	vqd, err := ddgGetVQD(ctx, bc, query)
	if err != nil {
		return nil, fmt.Errorf("ddg vqd: %w", err)
	}
	results, err = ddgSearchDJS(ctx, bc, query, vqd, region)
	if err != nil {
		return nil, fmt.Errorf("ddg d.js: %w", err)
	}

	slog.Debug("ddg direct results (d.js)", slog.Int("count", len(results)))
	return results, nil
}

// ddgSearchHTML queries DDG via the HTML lite endpoint and parses results.
func ddgSearchHTML(ctx context.Context, bc *BrowserClient, query, region string) ([]WebResult, error) {
	formBody := fmt.Sprintf("q=%s&kl=%s&df=", url.QueryEscape(query), url.QueryEscape(region))

	headers := ChromeHeaders()
	headers["referer"] = "https://html.duckduckgo.com/"
	headers["content-type"] = "application/x-www-form-urlencoded"

	data, _, status, err := bc.Do("POST", "https://html.duckduckgo.com/html/", headers, strings.NewReader(formBody))
	if err != nil {
		return nil, err
	}
	if status != 200 {
		return nil, fmt.Errorf("ddg html status %d", status)
	}

	return parseDDGHTML(data)
}

// parseDDGHTML extracts search results from the DDG HTML lite response.
func parseDDGHTML(data []byte) ([]WebResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("goquery parse: %w", err)
	}

	var results []WebResult

	doc.Find(".result, .web-result").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a.result__a, .result__title a, a.result-link").First()
		title := strings.TrimSpace(link.Text())
		href, exists := link.Attr("href")
		if !exists || title == "" {
			return
		}

		// DDG wraps URLs in redirects — extract the actual URL
		href = ddgUnwrapURL(href)
		if href == "" {
			return
		}

		snippet := s.Find(".result__snippet, .result__body").First()
		results = append(results, WebResult{
			Title:   title,
			Snippet: strings.TrimSpace(snippet.Text()),
			URL:     href,
		})
	})

	return results, nil
}

// ddgUnwrapURL extracts the actual URL from DDG redirect wrappers.
// DDG HTML wraps links as: //duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com&rut=...
func ddgUnwrapURL(href string) string {
	if strings.Contains(href, "duckduckgo.com/l/") || strings.Contains(href, "uddg=") {
		if u, err := url.Parse(href); err == nil {
			if uddg := u.Query().Get("uddg"); uddg != "" {
				return uddg
			}
		}
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return ""
}

// ddgGetVQD fetches the VQD token required for DuckDuckGo d.js searches.
func ddgGetVQD(ctx context.Context, bc *BrowserClient, query string) (string, error) {
	u := "https://duckduckgo.com/?q=" + url.QueryEscape(query)

	headers := ChromeHeaders()
	headers["referer"] = "https://duckduckgo.com/"

	data, _, status, err := bc.Do("GET", u, headers, nil)
	if err != nil {
		return "", err
	}
	if status != 200 {
		return "", fmt.Errorf("ddg homepage status %d", status)
	}

	body := string(data)
	for _, pat := range vqdPatterns {
		if m := pat.FindStringSubmatch(body); len(m) > 1 {
			return m[1], nil
		}
	}

	return "", fmt.Errorf("vqd token not found in response (%d bytes)", len(data))
}

// ddgSearchDJS queries DDG via the d.js JSON API (fallback).
func ddgSearchDJS(ctx context.Context, bc *BrowserClient, query, vqd, region string) ([]WebResult, error) {
	params := url.Values{
		"q":   {query},
		"vqd": {vqd},
		"kl":  {region},
		"df":  {""},
		"l":   {"us-en"},
		"o":   {"json"},
	}
	u := "https://links.duckduckgo.com/d.js?" + params.Encode()

	headers := ChromeHeaders()
	headers["referer"] = "https://duckduckgo.com/"
	headers["accept"] = "application/json, text/javascript, */*; q=0.01"

	data, _, status, err := bc.Do("GET", u, headers, nil)
	if err != nil {
		return nil, err
	}
	if status != 200 && status != 202 {
		return nil, fmt.Errorf("ddg d.js status %d", status)
	}

	return parseDDGResponse(data)
}

// parseDDGResponse extracts search results from the DDG d.js response.
// The response may be JSONP or a raw JSON array.
func parseDDGResponse(data []byte) ([]WebResult, error) {
	body := strings.TrimSpace(string(data))

	// Strip JSONP wrapper if present: DDGjsonp_xxx({results:[...]})
	if idx := strings.Index(body, "["); idx >= 0 {
		end := strings.LastIndex(body, "]")
		if end > idx {
			body = body[idx : end+1]
		}
	}

	var raw []ddgResult
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("ddg json parse: %w (first 200 bytes: %s)", err, Truncate(body, 200))
	}

	var results []WebResult
	for _, r := range raw {
		resultURL := r.U
		if resultURL == "" {
			resultURL = r.C
		}
		if resultURL == "" || r.T == "" {
			continue
		}
		// Skip DDG internal/ad entries
		if strings.HasPrefix(resultURL, "https://duckduckgo.com/") {
			continue
		}
		results = append(results, WebResult{
			Title:   CleanHTML(r.T),
			Snippet: CleanHTML(r.A),
			URL:     resultURL,
		})
	}

	return results, nil
}
