package verify

import (
	"bytes"
	"encoding/json"
)

// Step status values carried by the process timeline.
const (
	StatusCompleted = "completed"
	StatusCurrent   = "current"
	StatusPending   = "pending"
	StatusError     = "error"
)

// Request is the body of both verification endpoints.
type Request struct {
	Text string `json:"text"`
}

// Result is a decoded and normalized verification response.
type Result struct {
	FinalScore     float64        `json:"final_score"`
	Verdict        string         `json:"result"`
	Breakdown      Breakdown      `json:"breakdown"`
	RelatedSources []RankedSource `json:"semantic_ranking"`
	Timeline       []TimelineStep `json:"flow,omitempty"`
}

type Breakdown struct {
	EntitySimilarity   float64   `json:"entity_similarity"`
	SemanticSimilarity float64   `json:"semantic_similarity"`
	SourceCredibility  float64   `json:"source_credibility"`
	PerEntity          PerEntity `json:"per_entity"`
}

type PerEntity struct {
	Persons       float64 `json:"persons"`
	Locations     float64 `json:"locations"`
	Events        float64 `json:"events"`
	Organizations float64 `json:"organizations"`
}

// RankedSource is a related article, in the order the service ranked it.
type RankedSource struct {
	Score     float64 `json:"score"`
	Reference string  `json:"url"`
	Title     string  `json:"title,omitempty"`
}

type TimelineStep struct {
	Name   string `json:"step"`
	Result string `json:"result"`
	Status string `json:"status"`
}

// HasTimeline reports whether the service sent a process trace.
func (r *Result) HasTimeline() bool {
	return r != nil && len(r.Timeline) > 0
}

// Wire shapes. Pointers let the validator tell "absent" from "zero".

type wireResult struct {
	FinalScore *float64       `json:"final_score" validate:"required"`
	Result     *string        `json:"result" validate:"required"`
	Breakdown  *wireBreakdown `json:"breakdown" validate:"required"`
	Ranking    []wireSource   `json:"semantic_ranking" validate:"omitempty,dive"`
	Flow       []wireStep     `json:"flow" validate:"omitempty,dive"`
}

type wireBreakdown struct {
	EntitySimilarity   *float64       `json:"entity_similarity" validate:"required"`
	SemanticSimilarity *float64       `json:"semantic_similarity" validate:"required"`
	SourceCredibility  *float64       `json:"source_credibility" validate:"required"`
	PerEntity          *wirePerEntity `json:"per_entity" validate:"required"`
}

type wirePerEntity struct {
	Persons       *float64 `json:"persons" validate:"required"`
	Locations     *float64 `json:"locations" validate:"required"`
	Events        *float64 `json:"events" validate:"required"`
	Organizations *float64 `json:"organizations" validate:"required"`
}

type wireSource struct {
	Score *float64 `json:"score" validate:"required"`
	URL   string   `json:"url"`
	Title string   `json:"title"`
}

type wireStep struct {
	Step   string `json:"step"`
	Result string `json:"result"`
	Status string `json:"status"`
}

// errorBody is what the service sends with a non-2xx status. FastAPI puts a
// string in detail for HTTPException and a list for request validation errors.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (e errorBody) message() (string, bool) {
	if len(e.Detail) == 0 || string(e.Detail) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s, true
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, e.Detail); err != nil {
		return "", false
	}
	return buf.String(), true
}

func (w *wireResult) normalize() *Result {
	b := w.Breakdown
	pe := b.PerEntity
	out := &Result{
		FinalScore: *w.FinalScore,
		Verdict:    *w.Result,
		Breakdown: Breakdown{
			EntitySimilarity:   *b.EntitySimilarity,
			SemanticSimilarity: *b.SemanticSimilarity,
			SourceCredibility:  *b.SourceCredibility,
			PerEntity: PerEntity{
				Persons:       *pe.Persons,
				Locations:     *pe.Locations,
				Events:        *pe.Events,
				Organizations: *pe.Organizations,
			},
		},
		RelatedSources: make([]RankedSource, 0, len(w.Ranking)),
	}
	for _, s := range w.Ranking {
		out.RelatedSources = append(out.RelatedSources, RankedSource{
			Score:     *s.Score,
			Reference: s.URL,
			Title:     s.Title,
		})
	}
	if len(w.Flow) > 0 {
		out.Timeline = make([]TimelineStep, 0, len(w.Flow))
		for _, st := range w.Flow {
			status := st.Status
			if status == "" {
				status = StatusCompleted
			}
			out.Timeline = append(out.Timeline, TimelineStep{
				Name:   st.Step,
				Result: st.Result,
				Status: status,
			})
		}
	}
	return out
}
