// Package feed pulls headlines from RSS/Atom feeds so they can be sent for
// verification.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Item is one feed entry reduced to plain text.
type Item struct {
	Title     string
	Link      string
	Source    string
	Published time.Time
	Summary   string
}

// Draft is the text submitted for verification: title plus summary.
func (it Item) Draft() string {
	if it.Summary == "" {
		return it.Title
	}
	return it.Title + "\n\n" + it.Summary
}

type Reader struct {
	Client *http.Client
	log    *zap.Logger
}

func NewReader(log *zap.Logger) *Reader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reader{
		Client: &http.Client{Timeout: 15 * time.Second},
		log:    log,
	}
}

// Fetch returns up to limit items from feedURL in feed order. A limit of
// zero or less means no limit. Keywords, when given, keep only items whose
// title contains at least one of them. Keywords shorter than three
// characters are ignored.
func (r *Reader) Fetch(ctx context.Context, feedURL string, limit int, keywords ...string) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed %s: status %d", feedURL, resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feed parse: %w", err)
	}

	kw := lowerAll(keywords)
	out := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if limit > 0 && len(out) >= limit {
			break
		}
		title := strings.TrimSpace(it.Title)
		if title == "" {
			continue
		}
		if len(kw) > 0 && !matchesAnyKeyword(strings.ToLower(title), kw) {
			continue
		}

		var pub time.Time
		if it.PublishedParsed != nil {
			pub = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			pub = *it.UpdatedParsed
		}

		out = append(out, Item{
			Title:     title,
			Link:      publisherURL(it),
			Source:    strings.TrimSpace(parsed.Title),
			Published: pub,
			Summary:   PlainText(it.Description),
		})
	}

	r.log.Debug("feed fetched", zap.String("url", feedURL), zap.Int("items", len(out)))
	return out, nil
}

const minKeywordLen = 3

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if len([]rune(k)) >= minKeywordLen {
			out = append(out, k)
		}
	}
	return out
}

func matchesAnyKeyword(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// PlainText strips markup from a feed description and collapses whitespace.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	var sb strings.Builder
	collectText(doc, &sb)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		sb.WriteString(" ")
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "iframe", "svg":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
