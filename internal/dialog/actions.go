package dialog

// State identifies where a call is in the conversation. Each webhook
// route expects exactly one state; the machine transitions between them.
type State int

const (
	StateIdle State = iota
	StateAwaitingAddChoice
	StateAwaitingTaskSpeech
	StateAwaitingConfirmation
	StateAwaitingAddAnother
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingAddChoice:
		return "awaiting_add_choice"
	case StateAwaitingTaskSpeech:
		return "awaiting_task_speech"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateAwaitingAddAnother:
		return "awaiting_add_another"
	case StateTerminal:
		return "terminal"
	}
	return "unknown"
}

// EventKind classifies one turn of caller input.
type EventKind int

const (
	// EventCallStart is the first turn of a call, before any input.
	EventCallStart EventKind = iota
	// EventDigits carries a keypad entry.
	EventDigits
	// EventSpeech carries a speech transcript.
	EventSpeech
	// EventTimeout means the gather elapsed with no input.
	EventTimeout
)

// Event is one caller turn delivered to the machine.
type Event struct {
	Kind   EventKind
	Digits string
	Speech string
}

// Route names the webhook endpoint the gateway posts the next turn to.
// The route encodes which state that turn applies to.
type Route string

const (
	RouteInbound  Route = "/voice/inbound"
	RouteBriefing Route = "/voice/briefing"
	RouteMenu     Route = "/voice/menu"
	RouteCapture  Route = "/voice/capture"
	RouteConfirm  Route = "/voice/confirm"
	RouteAnother  Route = "/voice/another"
)

// Action is one declarative rendering instruction for the telephony
// gateway. The gateway-specific encoding lives in internal/telephony.
type Action interface {
	isAction()
}

// Say speaks text to the caller.
type Say struct {
	Text string
}

// Gather speaks a prompt and captures the next turn, posting it to
// Route. SubmitOnTimeout arms a turn delivery even when the caller
// provides no input, which is how the confirmation auto-accept fires.
type Gather struct {
	Prompt          string
	Route           Route
	AcceptSpeech    bool
	AcceptDigits    bool
	NumDigits       int
	TimeoutSec      int
	SubmitOnTimeout bool
}

// Redirect sends the call to another route without capturing input.
// No transition emits it today; it is part of the rendering contract
// the telephony layer supports.
type Redirect struct {
	Route Route
}

// Hangup ends the call.
type Hangup struct{}

func (Say) isAction()      {}
func (Gather) isAction()   {}
func (Redirect) isAction() {}
func (Hangup) isAction()   {}
