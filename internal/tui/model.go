// Package tui is the terminal front end for the verification lifecycle.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"newsverifier/internal/lifecycle"
	"newsverifier/internal/present"
)

// Tab selects the results sub-view.
type Tab int

const (
	ResultsTab Tab = iota
	AnalysisTab
)

// ModeToggler is the persisted simulation preference.
type ModeToggler interface {
	Get() bool
	Toggle() (bool, error)
}

// verifiedMsg carries a finished request back onto the update loop.
type verifiedMsg struct {
	outcome lifecycle.Outcome
}

type Model struct {
	ctx  context.Context
	ctrl *lifecycle.Controller
	mode ModeToggler
	log  *zap.Logger

	textarea textarea.Model
	spinner  spinner.Model
	viewport viewport.Model
	styles   Styles

	preview *present.Preview
	tab     Tab
	status  string
	width   int
	height  int
}

func New(ctx context.Context, ctrl *lifecycle.Controller, mode ModeToggler, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = "Paste the news text you want to verify..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(76)
	ta.SetHeight(8)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		mode:     mode,
		log:      log,
		textarea: ta,
		spinner:  sp,
		viewport: viewport.New(80, 20),
		styles:   DefaultStyles(),
		width:    80,
		height:   30,
	}
	m.textarea.SetValue(ctrl.State().Draft())
	return m
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case verifiedMsg:
		return m.finish(msg.outcome)

	case spinner.TickMsg:
		if m.ctrl.State().Phase() != lifecycle.PhaseInFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+t":
			m.toggleMode()
			return m, nil
		}
		return m.handleKey(msg)
	}

	if m.ctrl.State().Phase() == lifecycle.PhaseIdle {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.ctrl.State().(type) {
	case lifecycle.Idle:
		if msg.String() == "ctrl+s" {
			return m.submit()
		}
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		if err := m.ctrl.Edit(m.textarea.Value()); err != nil {
			m.log.Debug("edit rejected", zap.Error(err))
		}
		return m, cmd

	case lifecycle.InFlight:
		// Input is locked until the outcome arrives.
		return m, nil

	case lifecycle.Succeeded:
		switch msg.String() {
		case "ctrl+n":
			return m.verifyAnother()
		case "tab", "shift+tab":
			if m.tab == ResultsTab {
				m.tab = AnalysisTab
			} else {
				m.tab = ResultsTab
			}
			m.viewport.GotoTop()
			m.refresh()
			return m, nil
		case "ctrl+e":
			if m.preview != nil {
				m.preview.Toggle()
				m.refresh()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case lifecycle.Failed:
		switch msg.String() {
		case "ctrl+n", "esc":
			return m.verifyAnother()
		}
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.status = ""
	req, err := m.ctrl.Begin()
	if err != nil {
		if !errors.Is(err, lifecycle.ErrEmptyDraft) {
			m.log.Debug("submit ignored", zap.Error(err))
		}
		return m, nil
	}
	m.textarea.Blur()

	ctx, ctrl := m.ctx, m.ctrl
	run := func() tea.Msg {
		return verifiedMsg{outcome: ctrl.Run(ctx, req)}
	}
	return m, tea.Batch(m.spinner.Tick, run)
}

func (m Model) finish(o lifecycle.Outcome) (tea.Model, tea.Cmd) {
	st, err := m.ctrl.Finish(o)
	if err != nil {
		m.log.Warn("dropping outcome", zap.String("request_id", o.Request.ID), zap.Error(err))
		return m, nil
	}

	switch s := st.(type) {
	case lifecycle.Succeeded:
		m.preview = present.NewPreview(s.Text)
		m.tab = ResultsTab
		m.viewport.GotoTop()
		m.refresh()
		return m, nil
	case lifecycle.Idle:
		return m, m.textarea.Focus()
	}
	return m, nil
}

func (m Model) verifyAnother() (tea.Model, tea.Cmd) {
	if err := m.ctrl.VerifyAnother(); err != nil {
		return m, nil
	}
	m.preview = nil
	m.tab = ResultsTab
	m.textarea.Reset()
	return m, m.textarea.Focus()
}

func (m *Model) toggleMode() {
	if m.mode == nil {
		return
	}
	on, err := m.mode.Toggle()
	if err != nil {
		m.log.Error("failed to persist simulation preference", zap.Error(err))
		m.status = "Could not save the simulation setting: " + err.Error()
		return
	}
	m.log.Info("simulation mode changed", zap.Bool("enabled", on))
	m.status = ""
}

func (m *Model) resize(w, h int) {
	if w < 20 {
		w = 20
	}
	if h < 10 {
		h = 10
	}
	m.width, m.height = w, h
	m.textarea.SetWidth(w - 4)
	m.viewport.Width = w
	m.viewport.Height = h - 7
	m.refresh()
}

// refresh re-renders the results into the viewport.
func (m *Model) refresh() {
	s, ok := m.ctrl.State().(lifecycle.Succeeded)
	if !ok {
		return
	}
	v := present.Build(s.Result)
	if m.tab == AnalysisTab {
		m.viewport.SetContent(m.analysisView(v.Timeline))
		return
	}
	m.viewport.SetContent(m.resultsView(v))
}

// Simulated reports the current persisted mode.
func (m Model) Simulated() bool {
	return m.mode != nil && m.mode.Get()
}
