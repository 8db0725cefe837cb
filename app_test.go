package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"newsverifier/internal/app"
	"newsverifier/internal/config"
	"newsverifier/internal/lifecycle"
)

const okBody = `{
  "final_score": 0.74,
  "result": "NOT FAKE",
  "semantic_ranking": [{"score": 0.81, "title": "Rates cut", "url": "https://bank.example/rates"}],
  "breakdown": {
    "entity_similarity": 0.9, "semantic_similarity": 0.6, "source_credibility": 0.3,
    "per_entity": {"persons": 1, "locations": 0.5, "events": 0.6, "organizations": 0.2}
  },
  "flow": [{"step": "entity-extraction", "result": "2 entities"}]
}`

type recorder struct {
	mu     sync.Mutex
	events []StateView
}

func (r *recorder) emit(_ context.Context, name string, data ...interface{}) {
	if name != StateEvent || len(data) != 1 {
		return
	}
	r.mu.Lock()
	r.events = append(r.events, data[0].(StateView))
	r.mu.Unlock()
}

func (r *recorder) phases() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Phase)
	}
	return out
}

func newTestApp(t *testing.T, handler http.HandlerFunc) (*App, *recorder) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = srv.URL
	cfg.Preferences.Dir = t.TempDir()
	svc, err := app.NewService(cfg, zap.NewNop())
	require.NoError(t, err)

	rec := &recorder{}
	a := NewApp(svc)
	a.emit = rec.emit
	a.startup(context.Background())
	return a, rec
}

func ok(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, okBody)
}

func TestSubmitFlow(t *testing.T) {
	a, rec := newTestApp(t, ok)

	st := a.State()
	assert.Equal(t, "idle", st.Phase)
	assert.False(t, st.CanSubmit)

	st, err := a.Edit("The central bank cut rates")
	require.NoError(t, err)
	assert.True(t, st.CanSubmit)
	assert.Equal(t, 26, st.Chars)

	st, err = a.Submit()
	require.NoError(t, err)
	require.Equal(t, "succeeded", st.Phase)
	require.NotNil(t, st.Result)

	r := st.Result
	assert.Equal(t, 74, r.Headline.Percent)
	assert.Equal(t, "green", r.Headline.Tier)
	assert.True(t, r.Positive)
	assert.Len(t, r.Core, 3)
	assert.Len(t, r.Entities, 4)
	assert.Equal(t, "red", r.Core[2].Tier)
	assert.Equal(t, "81% match", r.Sources[0].Match)
	require.Len(t, r.Steps, 1)
	assert.Equal(t, "Entity Extraction", r.Steps[0].Title)
	assert.Empty(t, r.TimelineMessage)
	assert.False(t, r.Expandable)

	assert.Equal(t, []string{"idle", "in_flight", "succeeded"}, rec.phases())

	st = a.VerifyAnother()
	assert.Equal(t, "idle", st.Phase)
	assert.Empty(t, st.Draft)
}

func TestSubmitEmptyShowsNotice(t *testing.T) {
	a, _ := newTestApp(t, ok)
	st, err := a.Submit()
	require.NoError(t, err)
	assert.Equal(t, "idle", st.Phase)
	assert.Equal(t, lifecycle.ValidationMessage, st.Notice)
}

func TestSubmitAPIError(t *testing.T) {
	a, _ := newTestApp(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"detail":"Text too short"}`)
	})
	_, err := a.Edit("hi")
	require.NoError(t, err)

	st, err := a.Submit()
	require.NoError(t, err)
	assert.Equal(t, "failed", st.Phase)
	require.NotNil(t, st.Error)
	assert.Equal(t, 422, st.Error.Status)
	assert.Equal(t, "Text too short", st.Error.Message)
	assert.Equal(t, "hi", st.Draft)
}

func TestTogglePreview(t *testing.T) {
	a, _ := newTestApp(t, ok)
	_, err := a.Edit(strings.Repeat("x", 200))
	require.NoError(t, err)
	_, err = a.Submit()
	require.NoError(t, err)

	st := a.State()
	require.True(t, st.Result.Expandable)
	assert.Equal(t, "Show More", st.Result.ToggleLabel)
	assert.Len(t, st.Result.Preview, 153)

	st = a.TogglePreview()
	assert.Equal(t, "Show Less", st.Result.ToggleLabel)
	assert.Len(t, st.Result.Preview, 200)
	assert.Equal(t, "succeeded", st.Phase)
}

func TestToggleSimulation(t *testing.T) {
	var paths []string
	var mu sync.Mutex
	a, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		ok(w, r)
	})

	assert.False(t, a.SimulationEnabled())
	on, err := a.ToggleSimulation()
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, a.State().Simulated)

	_, _ = a.Edit("story")
	_, err = a.Submit()
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/api/news/verify/simulate"}, paths)
}

func TestEditIgnoredOutsideForm(t *testing.T) {
	a, _ := newTestApp(t, ok)
	_, _ = a.Edit("story")
	_, err := a.Submit()
	require.NoError(t, err)

	st, err := a.Edit("changed")
	require.NoError(t, err)
	assert.Equal(t, "story", st.Draft)
}

func TestSourceLinksOnlyForWebURLs(t *testing.T) {
	a, _ := newTestApp(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
  "final_score": 0.6, "result": "MIGHT BE FAKE",
  "semantic_ranking": [
    {"score": 0.9, "title": "ok", "url": "https://bank.example/rates"},
    {"score": 0.8, "title": "quote", "url": "x\" onmouseover=\"window.go.main.App.ToggleSimulation()"},
    {"score": 0.7, "title": "script", "url": "javascript:alert(1)"}
  ],
  "breakdown": {
    "entity_similarity": 0.5, "semantic_similarity": 0.5, "source_credibility": 0.5,
    "per_entity": {"persons": 0, "locations": 0, "events": 0, "organizations": 0}
  }
}`)
	})
	_, _ = a.Edit("story")
	st, err := a.Submit()
	require.NoError(t, err)
	require.Len(t, st.Result.Sources, 3)

	src := st.Result.Sources
	assert.Equal(t, "https://bank.example/rates", src[0].Link)
	assert.Equal(t, `x" onmouseover="window.go.main.App.ToggleSimulation()`, src[1].Reference)
	assert.Empty(t, src[1].Link)
	assert.Equal(t, "javascript:alert(1)", src[2].Reference)
	assert.Empty(t, src[2].Link)
}

func TestOpenableLink(t *testing.T) {
	assert.Equal(t, "http://a.example/x?y=1", openableLink("http://a.example/x?y=1"))
	assert.Equal(t, "https://a.example", openableLink(" HTTPS://a.example "))
	assert.Empty(t, openableLink("/relative/path"))
	assert.Empty(t, openableLink("data:text/html,<script>"))
	assert.Empty(t, openableLink("https:///nohost"))
}
