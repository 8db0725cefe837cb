package feed

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Edition selects the Google News locale.
type Edition struct {
	HL   string // e.g. "en-US"
	GL   string // e.g. "US"
	CEID string // e.g. "US:en"
}

var DefaultEdition = Edition{HL: "en-US", GL: "US", CEID: "US:en"}

// NewEdition builds the edition for a language code and a country code,
// e.g. ("en", "LK").
func NewEdition(lang, country string) Edition {
	lang = strings.ToLower(strings.TrimSpace(lang))
	country = strings.ToUpper(strings.TrimSpace(country))
	if lang == "" || country == "" {
		return DefaultEdition
	}
	return Edition{HL: lang + "-" + country, GL: country, CEID: country + ":" + lang}
}

// SearchBase is the Google News RSS search endpoint. Tests point it elsewhere.
var SearchBase = "https://news.google.com/rss/search"

func SearchURL(query string, ed Edition) string {
	return fmt.Sprintf("%s?q=%s&hl=%s&gl=%s&ceid=%s",
		SearchBase,
		url.QueryEscape(strings.TrimSpace(query)),
		url.QueryEscape(ed.HL),
		url.QueryEscape(ed.GL),
		url.QueryEscape(ed.CEID),
	)
}

// Search returns Google News headlines matching query, filtered by keywords
// the same way as Fetch.
func (r *Reader) Search(ctx context.Context, query string, ed Edition, limit int, keywords ...string) ([]Item, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	return r.Fetch(ctx, SearchURL(query, ed), limit, keywords...)
}

// Matches href="..." or href='...'
var reHrefAny = regexp.MustCompile(`(?i)\bhref\s*=\s*(?:"([^"]+)"|'([^']+)')`)

var reURLPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// publisherURL unwraps aggregator links. It prefers a link found in the
// description, then the GUID, then query parameters of the item link, and
// falls back to the item link itself.
func publisherURL(it *gofeed.Item) string {
	link := strings.TrimSpace(it.Link)
	if !isAggregatorURL(link) {
		return link
	}
	if u := fromDescription(it.Description); u != "" {
		return u
	}
	if u := firstPublisherURL(it.GUID); u != "" {
		return u
	}
	if u := fromQuery(link); u != "" {
		return u
	}
	return link
}

func fromDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ""
	}
	// Google sometimes double-encodes.
	for i := 0; i < 3; i++ {
		unescaped := html.UnescapeString(desc)
		if unescaped == desc {
			break
		}
		desc = unescaped
	}

	for _, m := range reHrefAny.FindAllStringSubmatch(desc, -1) {
		href := strings.TrimSpace(m[1])
		if href == "" {
			href = strings.TrimSpace(m[2])
		}
		if isPublisherURL(href) {
			return href
		}
	}
	return firstPublisherURL(desc)
}

func firstPublisherURL(s string) string {
	for _, u := range reURLPattern.FindAllString(s, -1) {
		u = strings.TrimRight(u, `.,;:!?)'"`)
		if isPublisherURL(u) {
			return u
		}
	}
	return ""
}

func fromQuery(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	for _, param := range []string{"url", "u", "link", "q"} {
		if v := parsed.Query().Get(param); isPublisherURL(v) {
			return v
		}
	}
	return ""
}

var googleDomains = []string{"google.com", "google.ca", "google.co.uk", "google.fr"}

func isAggregatorURL(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, gd := range googleDomains {
		if host == gd || strings.HasSuffix(host, "."+gd) {
			return true
		}
	}
	return false
}

// isPublisherURL accepts absolute http(s) links that do not point back at Google.
func isPublisherURL(u string) bool {
	u = strings.TrimSpace(u)
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return false
	}
	parsed, err := url.Parse(u)
	if err != nil || parsed.Hostname() == "" {
		return false
	}
	return !isAggregatorURL(u)
}
