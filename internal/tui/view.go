package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"newsverifier/internal/lifecycle"
	"newsverifier/internal/present"
	"newsverifier/internal/render"
	"newsverifier/internal/score"
	"newsverifier/internal/verify"
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch s := m.ctrl.State().(type) {
	case lifecycle.Idle:
		b.WriteString(m.inputView(s))
	case lifecycle.InFlight:
		b.WriteString(m.inFlightView(s))
	case lifecycle.Succeeded:
		b.WriteString(m.tabsView())
		b.WriteString("\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("tab switch view • ctrl+e show more/less • ctrl+n verify another • ctrl+t mode • ctrl+c quit"))
	case lifecycle.Failed:
		b.WriteString(m.failedView(s))
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Notice.Render(m.status))
	}
	return b.String()
}

func (m Model) header() string {
	title := m.styles.Title.Render("News Verifier")
	badge := m.styles.Badge.Render("LIVE")
	if m.Simulated() {
		badge = m.styles.SimBadge.Render("SIMULATION")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", badge)
}

func (m Model) inputView(s lifecycle.Idle) string {
	var b strings.Builder
	b.WriteString(m.textarea.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(fmt.Sprintf("%d characters", present.NewPreview(s.Text).Chars())))
	b.WriteString("\n")
	if s.Notice != "" {
		b.WriteString(m.styles.Notice.Render(s.Notice))
		b.WriteString("\n")
	}
	verifyHint := "ctrl+s verify"
	if !lifecycle.CanSubmit(s) {
		verifyHint = "(enter text to verify)"
	}
	b.WriteString(m.styles.Help.Render(verifyHint + " • ctrl+t toggle simulation • ctrl+c quit"))
	return b.String()
}

func (m Model) inFlightView(s lifecycle.InFlight) string {
	label := "Verifying..."
	if s.Simulated {
		label = "Verifying against the simulated database..."
	}
	p := present.NewPreview(s.Text)
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), label, m.styles.Panel.Render(p.Text()))
}

func (m Model) failedView(s lifecycle.Failed) string {
	body := fmt.Sprintf("%s\n\n%s",
		m.styles.Label.Render(fmt.Sprintf("Verification failed (status %d)", s.Err.Status)),
		s.Err.Message)
	return m.styles.ErrPanel.Render(body) + "\n" + m.styles.Help.Render("ctrl+n verify another • ctrl+c quit")
}

func (m Model) tabsView() string {
	results, analysis := m.styles.Tab, m.styles.Tab
	if m.tab == ResultsTab {
		results = m.styles.TabActive
	} else {
		analysis = m.styles.TabActive
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, results.Render("Results"), analysis.Render("Analysis"))
}

func (m Model) gaugeLine(g present.Gauge) string {
	st := m.styles.Tier(g.Tier)
	return fmt.Sprintf("%-26s %s %s", g.Label, st.Render(render.Bar(g.Width, render.BarCells)), st.Render(fmt.Sprintf("%4s", g.Text())))
}

func (m Model) resultsView(v present.View) string {
	var b strings.Builder

	b.WriteString(m.styles.Label.Render("Analyzed Text"))
	if m.preview != nil {
		b.WriteString(m.styles.Help.Render(fmt.Sprintf("  %d characters", m.preview.Chars())))
		b.WriteString("\n")
		b.WriteString(m.preview.Text())
		if m.preview.Expandable() {
			b.WriteString("\n")
			b.WriteString(m.styles.Link.Render(m.preview.ToggleLabel()))
		}
	}
	b.WriteString("\n\n")

	b.WriteString(m.gaugeLine(v.Headline))
	b.WriteString("\n")
	verdict := m.styles.Tier(score.Low).Render("✗ " + v.Verdict.Label)
	if v.Verdict.Positive {
		verdict = m.styles.Tier(score.High).Render("✓ " + v.Verdict.Label)
	}
	b.WriteString(verdict)
	b.WriteString("\n\n")

	b.WriteString(m.styles.Label.Render("Detailed Analysis"))
	b.WriteString("\n")
	for _, g := range v.Breakdown.Core {
		b.WriteString(m.gaugeLine(g))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render("Entity matches"))
	b.WriteString("\n")
	for _, g := range v.Breakdown.Entities {
		b.WriteString(m.gaugeLine(g))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.styles.Label.Render("Related Sources"))
	b.WriteString("\n")
	if len(v.Sources) == 0 {
		b.WriteString(m.styles.Help.Render("None"))
		b.WriteString("\n")
	}
	for i, s := range v.Sources {
		fmt.Fprintf(&b, "%d. %s  %s\n   %s\n", i+1, s.Title, m.styles.Help.Render(s.Match), m.styles.Link.Render(s.Reference))
	}
	return b.String()
}

var stepMarks = map[string]string{
	verify.StatusCompleted: "●",
	verify.StatusCurrent:   "◐",
	verify.StatusPending:   "○",
	verify.StatusError:     "✗",
}

// stepMark draws statuses the service may add later like a pending step.
func stepMark(status string) string {
	if mark, ok := stepMarks[status]; ok {
		return mark
	}
	return stepMarks[verify.StatusPending]
}

func (m Model) analysisView(tl present.TimelineView) string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render("Verification Process"))
	b.WriteString("\n\n")
	if tl.Empty {
		b.WriteString(m.styles.Help.Render(present.NoTimelineMessage))
		return b.String()
	}
	for _, st := range tl.Steps {
		fmt.Fprintf(&b, "%s %s\n", stepMark(st.Status), m.styles.Label.Render(st.Title))
		if st.Result != "" {
			fmt.Fprintf(&b, "│   %s\n", st.Result)
		}
		if !st.Last {
			b.WriteString("│\n")
		}
	}
	return b.String()
}
