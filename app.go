package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"newsverifier/internal/app"
	"newsverifier/internal/lifecycle"
	"newsverifier/internal/present"
)

// StateEvent is emitted to the frontend on every lifecycle transition.
const StateEvent = "lifecycle:state"

// App struct
type App struct {
	ctx     context.Context
	service *app.Service
	emit    func(ctx context.Context, name string, data ...interface{})

	mu      sync.Mutex
	preview *present.Preview
}

// NewApp creates a new App application struct
func NewApp(svc *app.Service) *App {
	a := &App{
		service: svc,
		emit:    runtime.EventsEmit,
	}
	svc.OnChange(a.changed)
	return a
}

// startup is called when the app starts. The context is saved
func (a *App) startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()
}

func (a *App) changed(st lifecycle.State) {
	a.mu.Lock()
	if s, ok := st.(lifecycle.Succeeded); ok {
		a.preview = present.NewPreview(s.Text)
	} else {
		a.preview = nil
	}
	ctx := a.ctx
	view := a.viewLocked(st)
	a.mu.Unlock()

	if ctx != nil {
		a.emit(ctx, StateEvent, view)
	}
}

// GaugeView is one score as the frontend draws it.
type GaugeView struct {
	Label   string `json:"label"`
	Percent int    `json:"percent"`
	Width   int    `json:"width"`
	Tier    string `json:"tier"`
}

// SourceView carries the reference unmodified. Link is set only when the
// reference is safe to open from the frontend.
type SourceView struct {
	Title     string `json:"title"`
	Reference string `json:"reference"`
	Link      string `json:"link,omitempty"`
	Match     string `json:"match"`
}

// openableLink returns ref when it is an absolute http(s) URL, else "".
func openableLink(ref string) string {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.String()
	}
	return ""
}

type StepView struct {
	Title  string `json:"title"`
	Result string `json:"result"`
	Status string `json:"status"`
	Last   bool   `json:"last"`
}

type ResultView struct {
	Headline        GaugeView    `json:"headline"`
	Verdict         string       `json:"verdict"`
	Positive        bool         `json:"positive"`
	Core            []GaugeView  `json:"core"`
	Entities        []GaugeView  `json:"entities"`
	Sources         []SourceView `json:"sources"`
	Steps           []StepView   `json:"steps"`
	TimelineMessage string       `json:"timelineMessage,omitempty"`
	Preview         string       `json:"preview"`
	Expandable      bool         `json:"expandable"`
	ToggleLabel     string       `json:"toggleLabel"`
	Chars           int          `json:"chars"`
}

type ErrorView struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// StateView is the serializable form of a lifecycle state.
type StateView struct {
	Phase     string      `json:"phase"`
	Draft     string      `json:"draft"`
	Chars     int         `json:"chars"`
	Notice    string      `json:"notice,omitempty"`
	CanSubmit bool        `json:"canSubmit"`
	Simulated bool        `json:"simulated"`
	Result    *ResultView `json:"result,omitempty"`
	Error     *ErrorView  `json:"error,omitempty"`
}

func gaugeView(g present.Gauge) GaugeView {
	return GaugeView{Label: g.Label, Percent: g.Percent, Width: g.Width, Tier: g.Tier.Color()}
}

func gaugeViews(gs []present.Gauge) []GaugeView {
	out := make([]GaugeView, 0, len(gs))
	for _, g := range gs {
		out = append(out, gaugeView(g))
	}
	return out
}

func (a *App) viewLocked(st lifecycle.State) StateView {
	v := StateView{
		Phase:     st.Phase().String(),
		Draft:     st.Draft(),
		Chars:     present.NewPreview(st.Draft()).Chars(),
		CanSubmit: lifecycle.CanSubmit(st),
		Simulated: a.service.Prefs.Get(),
	}

	switch s := st.(type) {
	case lifecycle.Idle:
		v.Notice = s.Notice
	case lifecycle.InFlight:
		v.Simulated = s.Simulated
	case lifecycle.Failed:
		v.Error = &ErrorView{Status: s.Err.Status, Message: s.Err.Message}
	case lifecycle.Succeeded:
		pv := present.Build(s.Result)
		p := a.preview
		if p == nil {
			p = present.NewPreview(s.Text)
		}
		rv := &ResultView{
			Headline:    gaugeView(pv.Headline),
			Verdict:     pv.Verdict.Label,
			Positive:    pv.Verdict.Positive,
			Core:        gaugeViews(pv.Breakdown.Core[:]),
			Entities:    gaugeViews(pv.Breakdown.Entities[:]),
			Sources:     make([]SourceView, 0, len(pv.Sources)),
			Preview:     p.Text(),
			Expandable:  p.Expandable(),
			ToggleLabel: p.ToggleLabel(),
			Chars:       p.Chars(),
		}
		for _, src := range pv.Sources {
			rv.Sources = append(rv.Sources, SourceView{
				Title:     src.Title,
				Reference: src.Reference,
				Link:      openableLink(src.Reference),
				Match:     src.Match,
			})
		}
		if pv.Timeline.Empty {
			rv.TimelineMessage = present.NoTimelineMessage
		}
		for _, step := range pv.Timeline.Steps {
			rv.Steps = append(rv.Steps, StepView{Title: step.Title, Result: step.Result, Status: step.Status, Last: step.Last})
		}
		v.Result = rv
	}
	return v
}

// State returns the current lifecycle state.
func (a *App) State() StateView {
	st := a.service.Lifecycle.State()
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.viewLocked(st)
}

// Edit replaces the draft while the input form is shown.
func (a *App) Edit(text string) (StateView, error) {
	if err := a.service.Lifecycle.Edit(text); err != nil && !errors.Is(err, lifecycle.ErrNotIdle) {
		return a.State(), err
	}
	return a.State(), nil
}

// Submit verifies the current draft and blocks until the outcome is applied.
// Calls made while a request is in flight return immediately.
func (a *App) Submit() (StateView, error) {
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	_, err := a.service.Lifecycle.Submit(ctx)
	switch {
	case err == nil, errors.Is(err, lifecycle.ErrEmptyDraft), errors.Is(err, lifecycle.ErrBusy), errors.Is(err, lifecycle.ErrNotIdle):
		return a.State(), nil
	default:
		a.service.Log.Error("submit failed", zap.Error(err))
		return a.State(), err
	}
}

// VerifyAnother dismisses a result or error and clears the form.
func (a *App) VerifyAnother() StateView {
	_ = a.service.Lifecycle.VerifyAnother()
	return a.State()
}

// TogglePreview switches the analyzed text between preview and full text.
func (a *App) TogglePreview() StateView {
	a.mu.Lock()
	if a.preview != nil {
		a.preview.Toggle()
	}
	a.mu.Unlock()
	return a.State()
}

func (a *App) SimulationEnabled() bool {
	return a.service.Prefs.Get()
}

// ToggleSimulation flips and persists the backend choice. It applies to the
// next submission only.
func (a *App) ToggleSimulation() (bool, error) {
	on, err := a.service.Prefs.Toggle()
	if err != nil {
		return on, fmt.Errorf("save simulation setting: %w", err)
	}
	a.service.Log.Info("simulation mode changed", zap.Bool("enabled", on))
	return on, nil
}

// SaveReport asks for a destination and writes every result of this session.
func (a *App) SaveReport() (string, error) {
	path, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		DefaultFilename: "verification_report.docx",
		Title:           "Save Verification Report",
		Filters: []runtime.FileFilter{
			{DisplayName: "Word Documents (*.docx)", Pattern: "*.docx"},
		},
	})
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", nil // User cancelled
	}

	if err := a.service.GenerateReport(path); err != nil {
		return "", err
	}
	return path, nil
}
