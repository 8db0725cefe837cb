package lifecycle

import "newsverifier/internal/verify"

// Phase names the active State variant.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInFlight
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInFlight:
		return "in_flight"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// State is one of Idle, InFlight, Succeeded or Failed. Every variant carries
// the draft the user typed, so no failure path loses it.
type State interface {
	Phase() Phase
	Draft() string
	isState()
}

// NoticeKind says why an Idle state carries a message.
type NoticeKind int

const (
	NoNotice NoticeKind = iota
	NoticeValidation
	NoticeRetry
)

// Idle is the input form.
type Idle struct {
	Text   string
	Notice string
	Kind   NoticeKind
}

// InFlight means one request is outstanding. Input is locked.
type InFlight struct {
	Text      string
	RequestID string
	Simulated bool
}

// Succeeded holds the assessment for Text.
type Succeeded struct {
	Text   string
	Result *verify.Result
}

// Failed is the dismissable API error panel.
type Failed struct {
	Text string
	Err  *verify.APIError
}

func (Idle) Phase() Phase      { return PhaseIdle }
func (InFlight) Phase() Phase  { return PhaseInFlight }
func (Succeeded) Phase() Phase { return PhaseSucceeded }
func (Failed) Phase() Phase    { return PhaseFailed }

func (s Idle) Draft() string      { return s.Text }
func (s InFlight) Draft() string  { return s.Text }
func (s Succeeded) Draft() string { return s.Text }
func (s Failed) Draft() string    { return s.Text }

func (Idle) isState()      {}
func (InFlight) isState()  {}
func (Succeeded) isState() {}
func (Failed) isState()    {}

// CanSubmit reports whether the submit affordance should be enabled.
func CanSubmit(s State) bool {
	idle, ok := s.(Idle)
	return ok && hasText(idle.Text)
}
