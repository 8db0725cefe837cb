package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsverifier/internal/verify"
)

const okBody = `{
  "final_score": 0.45,
  "result": "MIGHT BE FAKE",
  "semantic_ranking": [],
  "breakdown": {
    "entity_similarity": 0.4, "semantic_similarity": 0.5, "source_credibility": 0.6,
    "per_entity": {"persons": 0, "locations": 0, "events": 0, "organizations": 0}
  }
}`

type backend struct {
	mu    sync.Mutex
	paths []string
	texts []string
}

func (b *backend) hits() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.paths...)
}

func newBackend(t *testing.T) (*httptest.Server, *backend) {
	t.Helper()
	b := &backend{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req verify.Request
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.paths = append(b.paths, r.URL.Path)
		b.texts = append(b.texts, req.Text)
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(req.Text, "unknown") {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"detail":"No matched news found in verified database"}`)
			return
		}
		_, _ = io.WriteString(w, okBody)
	}))
	t.Cleanup(srv.Close)
	return srv, b
}

// execute runs the CLI against an isolated config and preferences dir.
func execute(t *testing.T, baseURL, stdin string, args ...string) (string, string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("NEWSVERIFIER_API_URL", baseURL)
	t.Setenv("NEWSVERIFIER_PREFS_DIR", dir)
	t.Setenv("NEWSVERIFIER_LOG_LEVEL", "error")
	t.Setenv("NEWSVERIFIER_TIMEOUT", "")

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", filepath.Join(dir, "config.yaml")}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestVerifyCommand(t *testing.T) {
	srv, paths := newBackend(t)
	out, _, err := execute(t, srv.URL, "", "verify", "the", "minister", "resigned")
	require.NoError(t, err)
	assert.Contains(t, out, "Overall Credibility Score: 45%")
	assert.Contains(t, out, "(LOW)")
	assert.Contains(t, out, "Verdict: ✗ MIGHT BE FAKE")
	assert.Equal(t, []string{verify.VerifyPath}, paths.hits())
}

func TestVerifyCommandMockAndJSON(t *testing.T) {
	srv, paths := newBackend(t)
	out, _, err := execute(t, srv.URL, "piped text\n", "verify", "--stdin", "--mock", "--json")
	require.NoError(t, err)

	var res verify.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 0.45, res.FinalScore)
	assert.Equal(t, []string{verify.SimulatePath}, paths.hits())
}

func TestVerifyCommandFailures(t *testing.T) {
	srv, _ := newBackend(t)

	_, stderr, err := execute(t, srv.URL, "", "verify", "unknown", "story")
	assert.ErrorIs(t, err, errVerificationFailed)
	assert.Contains(t, stderr, "No matched news found in verified database")

	_, stderr, err = execute(t, srv.URL, "", "verify", "   ")
	assert.ErrorIs(t, err, errVerificationFailed)
	assert.Contains(t, stderr, "Please enter some news text to verify")

	_, stderr, err = execute(t, "http://127.0.0.1:1", "", "verify", "news")
	assert.ErrorIs(t, err, errVerificationFailed)
	assert.Contains(t, stderr, "Failed to verify news. Please try again.")
}

func TestVerifyCommandWritesReport(t *testing.T) {
	srv, _ := newBackend(t)
	path := filepath.Join(t.TempDir(), "r.docx")
	_, _, err := execute(t, srv.URL, "", "verify", "--report", path, "budget")
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestVerifyCommandFromURL(t *testing.T) {
	srv, b := newBackend(t)
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html><body><article><h1>Rates cut</h1><p>The bank cut rates.</p></article></body></html>`)
	}))
	t.Cleanup(page.Close)

	out, _, err := execute(t, srv.URL, "", "verify", "--url", page.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Verdict:")

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Equal(t, []string{"Rates cut\n\nThe bank cut rates."}, b.texts)
}

func TestFeedCommand(t *testing.T) {
	srv, b := newBackend(t)
	rss := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>Wire</title>
<item><title>Budget approved</title><link>https://news.example/budget</link></item>
<item><title>Rates unchanged</title><link>https://news.example/rates</link></item>
</channel></rss>`)
	}))
	t.Cleanup(rss.Close)

	out, _, err := execute(t, srv.URL, "", "feed", "--verify", "1", rss.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Budget approved")
	assert.Contains(t, out, "Rates unchanged")
	assert.Len(t, b.hits(), 1)

	_, _, err = execute(t, srv.URL, "", "feed")
	assert.Error(t, err, "a feed url is required without --search")
}

func TestFeedCommandKeywordFilter(t *testing.T) {
	srv, b := newBackend(t)
	rss := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>Wire</title>
<item><title>Budget approved</title><link>https://news.example/budget</link></item>
<item><title>Rates unchanged</title><link>https://news.example/rates</link></item>
</channel></rss>`)
	}))
	t.Cleanup(rss.Close)

	out, _, err := execute(t, srv.URL, "", "feed", "--verify", "5", "--keyword", "rates", rss.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Rates unchanged")
	assert.NotContains(t, out, "Budget approved")
	assert.Len(t, b.hits(), 1)
}

func TestModeCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEWSVERIFIER_PREFS_DIR", dir)
	run := func(args ...string) string {
		root := newRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(append([]string{"--config", filepath.Join(dir, "none.yaml")}, args...))
		require.NoError(t, root.Execute())
		return strings.TrimSpace(out.String())
	}

	assert.Equal(t, "live", run("mode"))
	assert.Equal(t, "simulation", run("mode", "toggle"))
	assert.Equal(t, "simulation", run("mode"))
	assert.Equal(t, "live", run("mode", "toggle"))
}

func TestPromptCommand(t *testing.T) {
	srv, paths := newBackend(t)
	out, _, err := execute(t, srv.URL, "first story\n\n:mode\n\nsecond story\n\n", "prompt")
	require.NoError(t, err)
	assert.Contains(t, out, "Mode is now simulation.")
	assert.Equal(t, []string{verify.VerifyPath, verify.SimulatePath}, paths.hits())
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEWSVERIFIER_PREFS_DIR", dir)
	path := filepath.Join(dir, "cfg", "config.yaml")

	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--config", path, "config", "init"})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url: http://127.0.0.1:8000")
}
