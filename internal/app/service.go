package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"newsverifier/internal/config"
	"newsverifier/internal/feed"
	"newsverifier/internal/lifecycle"
	"newsverifier/internal/prefs"
	"newsverifier/internal/present"
	"newsverifier/internal/render"
	"newsverifier/internal/report"
	"newsverifier/internal/verify"
)

// Service wires configuration, preferences, the HTTP client and the
// lifecycle controller together for every front end.
type Service struct {
	Config    *config.Config
	Log       *zap.Logger
	Prefs     *prefs.Store
	Client    *verify.Client
	Lifecycle *lifecycle.Controller
	Feeds     *feed.Reader

	mu        sync.Mutex
	listeners []func(lifecycle.State)
	history   []report.Entry
	simulated bool
}

func NewService(cfg *config.Config, log *zap.Logger) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}

	timeout, err := cfg.API.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	dir, err := cfg.PreferencesDir()
	if err != nil {
		return nil, err
	}
	store, err := prefs.Open(prefs.PathIn(dir))
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}

	client := verify.NewClient(cfg.API.BaseURL, timeout, log.Named("client"))
	s := &Service{
		Config:    cfg,
		Log:       log,
		Prefs:     store,
		Client:    client,
		Lifecycle: lifecycle.New(client, store, log.Named("lifecycle")),
		Feeds:     feed.NewReader(log.Named("feed")),
	}
	s.Lifecycle.SetObserver(s.observe)

	log.Debug("service ready",
		zap.String("api", cfg.API.BaseURL),
		zap.String("prefs", store.Path()),
		zap.Bool("simulation", store.Get()))
	return s, nil
}

// OnChange registers fn for every lifecycle transition.
func (s *Service) OnChange(fn func(lifecycle.State)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Service) observe(st lifecycle.State) {
	s.mu.Lock()
	switch st := st.(type) {
	case lifecycle.InFlight:
		s.simulated = st.Simulated
	case lifecycle.Succeeded:
		s.history = append(s.history, report.Entry{
			Text:      st.Text,
			Result:    st.Result,
			Simulated: s.simulated,
			At:        time.Now(),
		})
	}
	fns := append([]func(lifecycle.State){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// History returns every successful verification of this session.
func (s *Service) History() []report.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]report.Entry(nil), s.history...)
}

// GenerateReport writes the session history to a .docx file.
func (s *Service) GenerateReport(path string) error {
	entries := s.History()
	if err := report.Write(path, entries); err != nil {
		return err
	}
	s.Log.Info("report written", zap.String("path", path), zap.Int("entries", len(entries)))
	return nil
}

// fixedMode pins the backend for one-off runs without touching the stored preference.
type fixedMode bool

func (f fixedMode) Get() bool { return bool(f) }

// VerifyOnce runs a single submission on a private controller. A nil
// override uses the stored preference.
func (s *Service) VerifyOnce(ctx context.Context, text string, override *bool) (lifecycle.State, error) {
	var mode lifecycle.ModeSource = s.Prefs
	if override != nil {
		mode = fixedMode(*override)
	}
	ctrl := lifecycle.New(s.Client, mode, s.Log.Named("lifecycle"))
	ctrl.SetObserver(s.observe)
	if err := ctrl.Edit(text); err != nil {
		return ctrl.State(), err
	}
	return ctrl.Submit(ctx)
}

// VerifyFeed lists up to limit headlines from feedURL and verifies the first
// verifyN of them one after another. Keywords narrow the list by title.
func (s *Service) VerifyFeed(ctx context.Context, feedURL string, limit, verifyN int, keywords ...string) ([]render.FeedRow, error) {
	items, err := s.Feeds.Fetch(ctx, feedURL, limit, keywords...)
	if err != nil {
		return nil, err
	}
	return s.verifyItems(ctx, items, verifyN), nil
}

// VerifySearch is VerifyFeed over a Google News search for query.
func (s *Service) VerifySearch(ctx context.Context, query string, ed feed.Edition, limit, verifyN int, keywords ...string) ([]render.FeedRow, error) {
	items, err := s.Feeds.Search(ctx, query, ed, limit, keywords...)
	if err != nil {
		return nil, err
	}
	return s.verifyItems(ctx, items, verifyN), nil
}

// VerifyArticle downloads pageURL and submits its readable text.
func (s *Service) VerifyArticle(ctx context.Context, pageURL string, override *bool) (lifecycle.State, error) {
	a, err := s.Feeds.Article(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	s.Log.Info("article loaded",
		zap.String("site", a.Site),
		zap.Int("chars", len([]rune(a.Text))))
	return s.VerifyOnce(ctx, a.Draft(), override)
}

func (s *Service) verifyItems(ctx context.Context, items []feed.Item, verifyN int) []render.FeedRow {
	rows := make([]render.FeedRow, len(items))
	for i, it := range items {
		rows[i].Item = it
		if i >= verifyN {
			continue
		}
		st, err := s.VerifyOnce(ctx, it.Draft(), nil)
		if err != nil {
			rows[i].Err = err
			continue
		}
		switch st := st.(type) {
		case lifecycle.Succeeded:
			g := present.Headline(st.Result)
			rows[i].Gauge = &g
		case lifecycle.Failed:
			rows[i].Err = st.Err
		case lifecycle.Idle:
			rows[i].Err = fmt.Errorf("%s", st.Notice)
		}
	}
	return rows
}
