package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const maxArticleBytes = 8 << 20

// Article is the readable text of a web page.
type Article struct {
	URL       string    `json:"url"`
	FinalURL  string    `json:"final_url"`
	Site      string    `json:"site"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Draft is the text submitted for verification.
func (a Article) Draft() string {
	if a.Text == "" {
		return a.Title
	}
	if a.Title == "" {
		return a.Text
	}
	return a.Title + "\n\n" + a.Text
}

// Article downloads pageURL and keeps its title and paragraph text. When the
// page has an <article> element only its paragraphs are used.
func (r *Reader) Article(ctx context.Context, pageURL string) (Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Article{}, fmt.Errorf("article request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.1")

	resp, err := r.Client.Do(req)
	if err != nil {
		return Article{}, fmt.Errorf("article fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Article{}, fmt.Errorf("article %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxArticleBytes))
	if err != nil {
		return Article{}, fmt.Errorf("article parse: %w", err)
	}

	final := resp.Request.URL
	a := Article{
		URL:       pageURL,
		FinalURL:  final.String(),
		Site:      final.Hostname(),
		Title:     title(doc),
		FetchedAt: time.Now().UTC(),
	}

	root := doc
	if art := find(doc, atom.Article); art != nil {
		root = art
	}
	var paras []string
	walk(root, func(n *html.Node) bool {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Nav, atom.Footer, atom.Header, atom.Aside:
			return false
		case atom.P:
			if t := strings.Join(strings.Fields(text(n)), " "); t != "" {
				paras = append(paras, t)
			}
			return false
		}
		return true
	})
	a.Text = strings.Join(paras, "\n\n")

	if a.Text == "" && a.Title == "" {
		return a, fmt.Errorf("article %s: no readable text", pageURL)
	}
	r.log.Debug("article extracted",
		zap.String("url", a.FinalURL),
		zap.Int("paragraphs", len(paras)))
	return a, nil
}

func walk(n *html.Node, visit func(*html.Node) bool) {
	if n.Type == html.ElementNode && !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func find(n *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if c.DataAtom == a {
			found = c
			return false
		}
		return true
	})
	return found
}

func title(doc *html.Node) string {
	if h1 := find(doc, atom.H1); h1 != nil {
		if t := strings.Join(strings.Fields(text(h1)), " "); t != "" {
			return t
		}
	}
	if t := find(doc, atom.Title); t != nil {
		return strings.Join(strings.Fields(text(t)), " ")
	}
	return ""
}

func text(n *html.Node) string {
	var sb strings.Builder
	collectText(n, &sb)
	return sb.String()
}
