package engine

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// FetchURLContent extracts the main text content from a URL using
// go-readability, converted to markdown for LLM context. Falls back to
// goquery extraction when readability cannot find an article body.
func FetchURLContent(ctx context.Context, rawURL string) (title, content string, err error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()

	body, err := Fetch(ctx, rawURL, true)
	if err != nil {
		return "", "", err
	}

	parsedURL, _ := url.Parse(rawURL)
	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return extractWithGoquery(body)
	}

	md, err := htmltomarkdown.ConvertString(article.Content)
	if err != nil {
		md = article.TextContent
	}
	text := strings.TrimSpace(md)
	if len(text) > cfg.MaxContentChars {
		text = text[:cfg.MaxContentChars] + "..."
	}
	return article.Title, text, nil
}

// extractWithGoquery pulls title and body text out of raw HTML when
// readability fails.
func extractWithGoquery(body []byte) (title, content string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
			title = strings.TrimSpace(og)
		}
	}

	doc.Find("script, style, noscript, iframe, svg, header, footer, nav, aside").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	sel := doc.Find("article, main, .content, .post-content, #content").First()
	if sel.Length() == 0 {
		sel = doc.Find("body")
	}

	var lines []string
	for _, line := range strings.Split(sel.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	content = strings.Join(lines, "\n")
	if len(content) > cfg.MaxContentChars {
		content = content[:cfg.MaxContentChars] + "..."
	}
	return title, content, nil
}
