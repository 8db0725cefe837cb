package verify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
  "final_score": 0.83,
  "result": "NOT FAKE ✅",
  "semantic_ranking": [
    {"score": 0.98, "title": "Mathews retires from Test cricket", "url": "https://example.lk/a?x=1&y=%e0"},
    {"score": 0.75, "title": "Kohli retires", "url": "https://example.lk/b"}
  ],
  "breakdown": {
    "entity_similarity": 0.93,
    "semantic_similarity": 0.87,
    "source_credibility": 0.95,
    "per_entity": {"persons": 0.98, "locations": 0.8, "events": 0.95, "organizations": 0}
  },
  "flow": [
    {"step": "pre-processing", "result": "cleaned"},
    {"step": "entity-extraction", "result": "3 entities", "status": "error"}
  ]
}`

type recorded struct {
	path        string
	method      string
	contentType string
	body        Request
}

func newServer(t *testing.T, status int, body string, rec *recorded) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec != nil {
			rec.path = r.URL.Path
			rec.method = r.Method
			rec.contentType = r.Header.Get("Content-Type")
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &rec.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifySelectsEndpointByMode(t *testing.T) {
	for _, tc := range []struct {
		useMock bool
		path    string
	}{
		{false, VerifyPath},
		{true, SimulatePath},
	} {
		var rec recorded
		srv := newServer(t, http.StatusOK, sampleResponse, &rec)
		c := NewClient(srv.URL+"/", 0, nil)

		_, err := c.Verify(context.Background(), "some news", tc.useMock)
		require.NoError(t, err)
		assert.Equal(t, tc.path, rec.path)
		assert.Equal(t, http.MethodPost, rec.method)
		assert.Equal(t, "application/json", rec.contentType)
		assert.Equal(t, "some news", rec.body.Text)
	}
}

func TestVerifyDecodesResult(t *testing.T) {
	srv := newServer(t, http.StatusOK, sampleResponse, nil)
	c := NewClient(srv.URL, 0, nil)

	got, err := c.Verify(context.Background(), "text", false)
	require.NoError(t, err)

	want := &Result{
		FinalScore: 0.83,
		Verdict:    "NOT FAKE ✅",
		Breakdown: Breakdown{
			EntitySimilarity:   0.93,
			SemanticSimilarity: 0.87,
			SourceCredibility:  0.95,
			PerEntity:          PerEntity{Persons: 0.98, Locations: 0.8, Events: 0.95, Organizations: 0},
		},
		RelatedSources: []RankedSource{
			{Score: 0.98, Title: "Mathews retires from Test cricket", Reference: "https://example.lk/a?x=1&y=%e0"},
			{Score: 0.75, Title: "Kohli retires", Reference: "https://example.lk/b"},
		},
		Timeline: []TimelineStep{
			{Name: "pre-processing", Result: "cleaned", Status: StatusCompleted},
			{Name: "entity-extraction", Result: "3 entities", Status: StatusError},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestVerifyKeepsOutOfRangeScores(t *testing.T) {
	body := `{"final_score": 1.4, "result": "FAKE", "semantic_ranking": [],
	  "breakdown": {"entity_similarity": -0.2, "semantic_similarity": 0, "source_credibility": 0,
	  "per_entity": {"persons": 0, "locations": 0, "events": 0, "organizations": 0}}}`
	srv := newServer(t, http.StatusOK, body, nil)

	got, err := NewClient(srv.URL, 0, nil).Verify(context.Background(), "text", false)
	require.NoError(t, err)
	assert.Equal(t, 1.4, got.FinalScore)
	assert.Equal(t, -0.2, got.Breakdown.EntitySimilarity)
	assert.False(t, got.HasTimeline())
	assert.Empty(t, got.RelatedSources)
}

func TestVerifyAPIError(t *testing.T) {
	srv := newServer(t, http.StatusUnprocessableEntity, `{"detail": "Text too short"}`, nil)

	_, err := NewClient(srv.URL, 0, nil).Verify(context.Background(), "hi", false)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %T: %v", err, err)
	assert.Equal(t, 422, apiErr.Status)
	assert.Equal(t, "Text too short", apiErr.Message)
}

func TestVerifyAPIErrorWithStructuredDetail(t *testing.T) {
	srv := newServer(t, http.StatusUnprocessableEntity, `{"detail": [{"loc": ["body", "text"], "msg": "field required"}]}`, nil)

	_, err := NewClient(srv.URL, 0, nil).Verify(context.Background(), "hi", false)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, `[{"loc":["body","text"],"msg":"field required"}]`, apiErr.Message)
}

func TestVerifyTransportErrors(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		op     string
	}{
		"malformed success body": {http.StatusOK, `{"final_score": `, "decode"},
		"missing breakdown":      {http.StatusOK, `{"final_score": 0.5, "result": "FAKE"}`, "validate"},
		"missing per entity score": {http.StatusOK, `{"final_score": 0.5, "result": "FAKE", "breakdown": {
			"entity_similarity": 0.1, "semantic_similarity": 0.1, "source_credibility": 0.1,
			"per_entity": {"persons": 0, "locations": 0, "events": 0}}}`, "validate"},
		"html error page":      {http.StatusBadGateway, `<html>bad gateway</html>`, "decode"},
		"error without detail": {http.StatusInternalServerError, `{"error": "boom"}`, "decode"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, tc.status, tc.body, nil)

			_, err := NewClient(srv.URL, 0, nil).Verify(context.Background(), "text", false)
			var te *TransportError
			require.True(t, errors.As(err, &te), "got %T: %v", err, err)
			assert.Equal(t, tc.op, te.Op)

			var apiErr *APIError
			assert.False(t, errors.As(err, &apiErr))
		})
	}
}

func TestVerifyKeepsUnknownStepStatus(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"final_score": 0.83, "result": "NOT FAKE", "breakdown": {
		"entity_similarity": 0.9, "semantic_similarity": 0.8, "source_credibility": 0.7,
		"per_entity": {"persons": 1, "locations": 1, "events": 1, "organizations": 1}},
		"flow": [{"step": "cross-check", "result": "done", "status": "skipped"}, {"step": "score", "result": "ok"}]}`, nil)

	res, err := NewClient(srv.URL, 0, nil).Verify(context.Background(), "text", false)
	require.NoError(t, err)
	assert.Equal(t, "NOT FAKE", res.Verdict)
	require.Len(t, res.Timeline, 2)
	assert.Equal(t, "skipped", res.Timeline[0].Status)
	assert.Equal(t, StatusCompleted, res.Timeline[1].Status)
}

func TestVerifyUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, 0, nil).Verify(context.Background(), "text", true)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "request", te.Op)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestEndpoint(t *testing.T) {
	c := NewClient("http://127.0.0.1:8000/", 0, nil)
	assert.Equal(t, "http://127.0.0.1:8000/api/news/verify", c.Endpoint(false))
	assert.Equal(t, "http://127.0.0.1:8000/api/news/verify/simulate", c.Endpoint(true))
}
