// Package present turns a verification result into display structures.
// Nothing here performs I/O or mutates the result.
package present

import (
	"fmt"
	"strings"

	"newsverifier/internal/score"
	"newsverifier/internal/verify"
)

// PositiveVerdictMarker is matched as a substring of the service's verdict.
// The service has no enumerated verdict field, so this coupling is kept as is.
const PositiveVerdictMarker = "NOT FAKE"

const NoTimelineMessage = "No verification flow data available."

// Gauge is one score, ready to draw as a number plus a bar.
type Gauge struct {
	Label   string
	Percent int
	Width   int
	Tier    score.Tier
}

func NewGauge(label string, s float64) Gauge {
	return Gauge{
		Label:   label,
		Percent: score.Percent(s),
		Width:   score.Width(s),
		Tier:    score.Classify(s),
	}
}

// Text renders the percentage the way it is shown next to a bar.
func (g Gauge) Text() string {
	return fmt.Sprintf("%d%%", g.Percent)
}

// Breakdown groups the detailed metrics the way the results view lays them out.
type Breakdown struct {
	Core     [3]Gauge
	Entities [4]Gauge
}

// All returns the seven breakdown gauges in display order.
func (b Breakdown) All() []Gauge {
	out := make([]Gauge, 0, len(b.Core)+len(b.Entities))
	out = append(out, b.Core[:]...)
	return append(out, b.Entities[:]...)
}

// Headline is the overall credibility gauge.
func Headline(r *verify.Result) Gauge {
	return NewGauge("Overall Credibility Score", r.FinalScore)
}

func DetailedBreakdown(r *verify.Result) Breakdown {
	b := r.Breakdown
	pe := b.PerEntity
	return Breakdown{
		Core: [3]Gauge{
			NewGauge("Entity Similarity", b.EntitySimilarity),
			NewGauge("Semantic Similarity", b.SemanticSimilarity),
			NewGauge("Source Credibility", b.SourceCredibility),
		},
		Entities: [4]Gauge{
			NewGauge("Persons", pe.Persons),
			NewGauge("Locations", pe.Locations),
			NewGauge("Events", pe.Events),
			NewGauge("Organizations", pe.Organizations),
		},
	}
}

// Gauges returns all eight classified scores: the headline first.
func Gauges(r *verify.Result) []Gauge {
	return append([]Gauge{Headline(r)}, DetailedBreakdown(r).All()...)
}

type VerdictBadge struct {
	Label    string
	Positive bool
}

func Verdict(r *verify.Result) VerdictBadge {
	return VerdictBadge{
		Label:    r.Verdict,
		Positive: strings.Contains(r.Verdict, PositiveVerdictMarker),
	}
}

// SourceView is one related source. Reference is passed through untouched.
type SourceView struct {
	Title     string
	Reference string
	Percent   int
	Match     string
}

func Sources(r *verify.Result) []SourceView {
	out := make([]SourceView, 0, len(r.RelatedSources))
	for _, s := range r.RelatedSources {
		p := score.Percent(s.Score)
		out = append(out, SourceView{
			Title:     s.Title,
			Reference: s.Reference,
			Percent:   p,
			Match:     fmt.Sprintf("%d%% match", p),
		})
	}
	return out
}

type StepView struct {
	Title  string
	Result string
	Status string
	Last   bool
}

// TimelineView is the process trace. When Empty is set the view shows
// NoTimelineMessage instead of a list.
type TimelineView struct {
	Steps []StepView
	Empty bool
}

func Timeline(r *verify.Result) TimelineView {
	if !r.HasTimeline() {
		return TimelineView{Empty: true}
	}
	steps := make([]StepView, 0, len(r.Timeline))
	for i, st := range r.Timeline {
		status := st.Status
		if status == "" {
			status = verify.StatusCompleted
		}
		steps = append(steps, StepView{
			Title:  StepTitle(st.Name),
			Result: st.Result,
			Status: status,
			Last:   i == len(r.Timeline)-1,
		})
	}
	return TimelineView{Steps: steps}
}

// StepTitle turns "entity-extraction" into "Entity Extraction".
func StepTitle(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "-", " "))
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[:1])) + string(r[1:])
	}
	return strings.Join(words, " ")
}

// View bundles everything the results screen needs.
type View struct {
	Headline  Gauge
	Verdict   VerdictBadge
	Breakdown Breakdown
	Sources   []SourceView
	Timeline  TimelineView
}

func Build(r *verify.Result) View {
	return View{
		Headline:  Headline(r),
		Verdict:   Verdict(r),
		Breakdown: DetailedBreakdown(r),
		Sources:   Sources(r),
		Timeline:  Timeline(r),
	}
}
