// Package lifecycle owns the verification request state machine.
//
// Transitions:
//
//	Idle      --Edit-->                 Idle(draft')
//	Idle      --Begin, blank draft-->   Idle(draft, validation notice)
//	Idle      --Begin-->                InFlight(draft)
//	InFlight  --Finish, ok-->           Succeeded(draft, result)
//	InFlight  --Finish, APIError-->     Failed(draft, err)
//	InFlight  --Finish, other error-->  Idle(draft, retry notice)
//	Succeeded --VerifyAnother-->        Idle("")
//	Failed    --VerifyAnother-->        Idle("")
//
// Begin while InFlight returns ErrBusy and issues nothing. A request that was
// sent always runs to completion.
package lifecycle

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"newsverifier/internal/verify"
)

const (
	ValidationMessage = "Please enter some news text to verify"
	RetryMessage      = "Failed to verify news. Please try again."
)

var (
	ErrEmptyDraft   = errors.New("draft is empty")
	ErrBusy         = errors.New("a verification is already in flight")
	ErrNotIdle      = errors.New("input is only accepted on the input form")
	ErrNotFinished  = errors.New("nothing to dismiss")
	ErrStaleOutcome = errors.New("outcome does not match the in-flight request")
)

// Verifier issues one verification call.
type Verifier interface {
	Verify(ctx context.Context, text string, useMock bool) (*verify.Result, error)
}

// ModeSource reports whether the simulated backend is selected.
type ModeSource interface {
	Get() bool
}

// Request is a submission snapshot. The mode is read once, at Begin.
type Request struct {
	ID        string
	Text      string
	Simulated bool
}

// Outcome is what Run produced for a Request.
type Outcome struct {
	Request Request
	Result  *verify.Result
	Err     error
}

type Controller struct {
	mu       sync.Mutex
	state    State
	verifier Verifier
	mode     ModeSource
	log      *zap.Logger
	observer func(State)
}

func New(v Verifier, mode ModeSource, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		state:    Idle{},
		verifier: v,
		mode:     mode,
		log:      log,
	}
}

// SetObserver registers fn to be called with every new state.
func (c *Controller) SetObserver(fn func(State)) {
	c.mu.Lock()
	c.observer = fn
	c.mu.Unlock()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Edit replaces the draft. Only the input form accepts edits.
func (c *Controller) Edit(text string) error {
	c.mu.Lock()
	idle, ok := c.state.(Idle)
	if !ok {
		c.mu.Unlock()
		return ErrNotIdle
	}
	idle.Text = text
	c.setLocked(idle)
	return nil
}

// Begin validates the draft and moves to InFlight. The returned Request must
// be passed to Run and its Outcome to Finish.
func (c *Controller) Begin() (Request, error) {
	c.mu.Lock()
	switch s := c.state.(type) {
	case Idle:
		if !hasText(s.Text) {
			c.setLocked(Idle{Text: s.Text, Notice: ValidationMessage, Kind: NoticeValidation})
			return Request{}, ErrEmptyDraft
		}
		req := Request{
			ID:        uuid.NewString(),
			Text:      s.Text,
			Simulated: c.mode != nil && c.mode.Get(),
		}
		c.log.Info("verification submitted",
			zap.String("request_id", req.ID),
			zap.Bool("simulated", req.Simulated),
			zap.Int("chars", len(req.Text)))
		c.setLocked(InFlight{Text: s.Text, RequestID: req.ID, Simulated: req.Simulated})
		return req, nil
	case InFlight:
		c.mu.Unlock()
		return Request{}, ErrBusy
	default:
		c.mu.Unlock()
		return Request{}, ErrNotIdle
	}
}

// Run performs the call for req. It does not touch controller state, so it
// may run on another goroutine. Cancellation of ctx is not propagated.
func (c *Controller) Run(ctx context.Context, req Request) Outcome {
	res, err := c.verifier.Verify(context.WithoutCancel(ctx), req.Text, req.Simulated)
	return Outcome{Request: req, Result: res, Err: err}
}

// Finish applies the outcome of the in-flight request.
func (c *Controller) Finish(o Outcome) (State, error) {
	c.mu.Lock()
	cur, ok := c.state.(InFlight)
	if !ok || cur.RequestID != o.Request.ID {
		s := c.state
		c.mu.Unlock()
		return s, ErrStaleOutcome
	}

	var next State
	var apiErr *verify.APIError
	switch {
	case o.Err == nil && o.Result != nil:
		c.log.Info("verification succeeded",
			zap.String("request_id", cur.RequestID),
			zap.Float64("final_score", o.Result.FinalScore))
		next = Succeeded{Text: cur.Text, Result: o.Result}
	case errors.As(o.Err, &apiErr):
		c.log.Info("verification rejected",
			zap.String("request_id", cur.RequestID),
			zap.Int("status", apiErr.Status),
			zap.String("detail", apiErr.Message))
		next = Failed{Text: cur.Text, Err: apiErr}
	default:
		cause := o.Err
		if cause == nil {
			cause = errors.New("empty result")
		}
		c.log.Warn("verification transport failure",
			zap.String("request_id", cur.RequestID),
			zap.Error(cause))
		next = Idle{Text: cur.Text, Notice: RetryMessage, Kind: NoticeRetry}
	}
	c.setLocked(next)
	return next, nil
}

// Submit runs Begin, Run and Finish in sequence on the calling goroutine.
func (c *Controller) Submit(ctx context.Context) (State, error) {
	req, err := c.Begin()
	if err != nil {
		return c.State(), err
	}
	return c.Finish(c.Run(ctx, req))
}

// VerifyAnother discards the result or error and returns to an empty form.
func (c *Controller) VerifyAnother() error {
	c.mu.Lock()
	switch c.state.(type) {
	case Succeeded, Failed:
		c.setLocked(Idle{})
		return nil
	}
	c.mu.Unlock()
	return ErrNotFinished
}

// setLocked stores s, releases the lock and notifies the observer.
func (c *Controller) setLocked(s State) {
	c.state = s
	fn := c.observer
	c.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}
