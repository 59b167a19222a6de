package dataset

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// Ingester harvests generic filler documents from HTML pages. Paragraph text
// from encyclopedia-style pages makes serviceable distractor padding: long,
// factual-sounding prose unrelated to any QA item.
type Ingester struct {
	fetcher      *Fetcher
	minParaChars int
	maxParaChars int
}

// NewIngester creates a new ingester backed by the given fetcher.
func NewIngester(fetcher *Fetcher) *Ingester {
	return &Ingester{
		fetcher:      fetcher,
		minParaChars: 120,
		maxParaChars: 1200,
	}
}

// IngestURL fetches a page and extracts filler paragraphs from it.
func (in *Ingester) IngestURL(ctx context.Context, rawURL string) ([]string, error) {
	result, err := in.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return in.extract(result.HTML)
}

// IngestFile extracts filler paragraphs from a local HTML file.
func (in *Ingester) IngestFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return in.extract(string(data))
}

// extract walks the HTML tree collecting <p> element text within the
// configured length band, deduplicated.
func (in *Ingester) extract(htmlContent string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var paragraphs []string
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			text := collapseWhitespace(nodeText(n))
			if len(text) >= in.minParaChars && len(text) <= in.maxParaChars && !seen[text] {
				seen[text] = true
				paragraphs = append(paragraphs, text)
			}
			return // nested <p> is invalid HTML; don't descend
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return paragraphs, nil
}

// nodeText concatenates all text nodes under n.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// AppendDistractors merges new filler documents into an existing pool,
// skipping duplicates, and returns the merged pool.
func AppendDistractors(pool, additions []string) []string {
	seen := make(map[string]bool, len(pool))
	for _, doc := range pool {
		seen[doc] = true
	}
	for _, doc := range additions {
		if !seen[doc] {
			seen[doc] = true
			pool = append(pool, doc)
		}
	}
	return pool
}
