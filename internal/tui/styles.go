package tui

import (
	"github.com/charmbracelet/lipgloss"

	"newsverifier/internal/score"
)

var (
	Primary     = lipgloss.Color("#2196F3")
	Muted       = lipgloss.Color("#6b7280")
	Border      = lipgloss.Color("#2a3850")
	Destructive = lipgloss.Color("#e53935")
	Warning     = lipgloss.Color("#FFC107")
	Success     = lipgloss.Color("#8BC34A")
)

// Styles holds every lipgloss style the model renders with.
type Styles struct {
	Title     lipgloss.Style
	Badge     lipgloss.Style
	SimBadge  lipgloss.Style
	Help      lipgloss.Style
	Notice    lipgloss.Style
	Panel     lipgloss.Style
	ErrPanel  lipgloss.Style
	TabActive lipgloss.Style
	Tab       lipgloss.Style
	Label     lipgloss.Style
	Link      lipgloss.Style
	Tiers     map[score.Tier]lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(Primary),
		Badge:     lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#ffffff")).Background(Primary),
		SimBadge:  lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#101F38")).Background(Warning),
		Help:      lipgloss.NewStyle().Foreground(Muted),
		Notice:    lipgloss.NewStyle().Foreground(Destructive),
		Panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(0, 1),
		ErrPanel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Destructive).Padding(0, 1),
		TabActive: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(Primary).Padding(0, 1),
		Tab:       lipgloss.NewStyle().Foreground(Muted).Padding(0, 1),
		Label:     lipgloss.NewStyle().Bold(true),
		Link:      lipgloss.NewStyle().Foreground(Primary).Underline(true),
		Tiers: map[score.Tier]lipgloss.Style{
			score.Low:    lipgloss.NewStyle().Foreground(Destructive),
			score.Medium: lipgloss.NewStyle().Foreground(Warning),
			score.High:   lipgloss.NewStyle().Foreground(Success),
		},
	}
}

// Tier returns the style for a credibility band.
func (s Styles) Tier(t score.Tier) lipgloss.Style {
	if st, ok := s.Tiers[t]; ok {
		return st
	}
	return lipgloss.NewStyle()
}
