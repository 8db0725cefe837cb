package render

import (
	"fmt"
	"strings"

	"newsverifier/internal/feed"
	"newsverifier/internal/present"
)

// BarCells is the width of a gauge bar in terminal cells.
const BarCells = 20

// Bar draws a gauge filled in proportion to width (0..100).
func Bar(width, cells int) string {
	if cells <= 0 {
		return ""
	}
	if width < 0 {
		width = 0
	}
	if width > 100 {
		width = 100
	}
	filled := (width*cells + 50) / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", cells-filled)
}

// Result renders a full verification: headline, breakdown, sources and timeline.
func Result(v present.View, m Mode) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %s %s (%s)\n", v.Headline.Label, v.Headline.Text(), Bar(v.Headline.Width, BarCells), v.Headline.Tier)
	mark := "✗"
	if v.Verdict.Positive {
		mark = "✓"
	}
	fmt.Fprintf(&sb, "Verdict: %s %s\n\n", mark, v.Verdict.Label)

	sb.WriteString(Breakdown(v.Breakdown, m))
	sb.WriteString("\n\n")
	sb.WriteString(Sources(v.Sources, m))
	sb.WriteString("\n\n")
	sb.WriteString(Timeline(v.Timeline, m))
	sb.WriteString("\n")
	return sb.String()
}

func Breakdown(b present.Breakdown, m Mode) string {
	tb := NewTable(m)
	tb.Header("Metric", "Score", "Tier", "")
	tb.Columns(ColumnConfig{Number: 2, Align: AlignRight})
	for _, g := range b.All() {
		tb.Row(g.Label, g.Text(), g.Tier.String(), Bar(g.Width, BarCells))
	}
	return tb.String()
}

func Sources(sources []present.SourceView, m Mode) string {
	if len(sources) == 0 {
		return "Related Sources: none"
	}
	tb := NewTable(m)
	tb.Header("#", "Source", "Match", "Reference")
	tb.Columns(
		ColumnConfig{Number: 2, MaxWidth: 60},
		ColumnConfig{Number: 3, Align: AlignRight},
	)
	for i, s := range sources {
		tb.Row(i+1, s.Title, s.Match, s.Reference)
	}
	return tb.String()
}

func Timeline(tl present.TimelineView, m Mode) string {
	if tl.Empty {
		return present.NoTimelineMessage
	}
	tb := NewTable(m)
	tb.Header("#", "Step", "Status", "Result")
	tb.Columns(ColumnConfig{Number: 4, MaxWidth: 60})
	for i, st := range tl.Steps {
		tb.Row(i+1, st.Title, st.Status, st.Result)
	}
	return tb.String()
}

// FeedRow is one feed headline with its verification outcome, if any.
type FeedRow struct {
	Item  feed.Item
	Gauge *present.Gauge
	Err   error
}

func Feed(rows []FeedRow, m Mode) string {
	tb := NewTable(m)
	tb.Header("#", "Headline", "Published", "Score", "Tier")
	tb.Columns(
		ColumnConfig{Number: 2, MaxWidth: 70},
		ColumnConfig{Number: 4, Align: AlignRight},
	)
	for i, r := range rows {
		pub := ""
		if !r.Item.Published.IsZero() {
			pub = r.Item.Published.Format("2006-01-02")
		}
		pct, tier := "", ""
		switch {
		case r.Err != nil:
			tier = "error: " + r.Err.Error()
		case r.Gauge != nil:
			pct = r.Gauge.Text()
			tier = r.Gauge.Tier.String()
		}
		tb.Row(i+1, r.Item.Title, pub, pct, tier)
	}
	return tb.String()
}
