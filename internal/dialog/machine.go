// Package dialog drives the multi-turn voice conversation. The
// telephony gateway delivers each turn as an independent webhook
// request; the machine reconstructs the conversation from the route's
// expected state plus per-call session scratch, applies one transition,
// and emits declarative actions for the gateway to render.
package dialog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jasonisamilehigh/taskme/internal/briefing"
	"github.com/jasonisamilehigh/taskme/internal/store"
	"github.com/jasonisamilehigh/taskme/internal/task"
)

// Extractor turns a transcript into a task draft.
type Extractor interface {
	Extract(ctx context.Context, transcript string, today time.Time) (*task.Draft, error)
}

const (
	promptGreeting = "Hello. Tell me about the task you would like to add, after the beep."
	promptAddTask  = "Okay. Describe the task you would like to add."
	promptRetry    = "I didn't hear anything. Please describe your task."
	promptApology  = "Sorry, I couldn't make a task out of that. Please try again."
	promptRejected = "Okay, let's start over. Describe your task."
	promptAnother  = "Would you like to add another task? Press 1 or say yes."
	promptFarewell = "Alright. Have a great day. Goodbye."
	promptSaved    = "Your task has been saved."
	promptSaveFail = "Sorry, I couldn't save your task right now. Please try again later. Goodbye."

	speechTimeoutSec = 6
	digitTimeoutSec  = 5
)

// Machine applies dialog transitions. Safe for concurrent calls; all
// per-call state lives in Sessions.
type Machine struct {
	store     store.TaskStore
	extractor Extractor
	sessions  *Sessions
	now       func() time.Time
	log       *logrus.Logger
}

// NewMachine wires the dialog to its collaborators.
func NewMachine(st store.TaskStore, ex Extractor, log *logrus.Logger) *Machine {
	return &Machine{
		store:     st,
		extractor: ex,
		sessions:  NewSessions(DefaultSessionTTL),
		now:       time.Now,
		log:       log,
	}
}

// Sessions exposes the session store for diagnostics.
func (m *Machine) Sessions() *Sessions {
	return m.sessions
}

// Step consumes one turn and returns the actions to render plus the
// state the call is left in. Collaborator failures become spoken
// apologies and a recoverable (or terminal) transition; they never
// propagate.
func (m *Machine) Step(ctx context.Context, callID string, state State, ev Event) ([]Action, State) {
	var actions []Action
	var next State

	switch state {
	case StateIdle:
		actions, next = m.stepIdle(callID)
	case StateAwaitingAddChoice:
		actions, next = m.stepAddChoice(ev)
	case StateAwaitingTaskSpeech:
		actions, next = m.stepTaskSpeech(ctx, callID, ev)
	case StateAwaitingConfirmation:
		actions, next = m.stepConfirmation(ctx, callID, ev)
	case StateAwaitingAddAnother:
		actions, next = m.stepAddAnother(callID, ev)
	default:
		actions, next = []Action{Say{Text: promptFarewell}}, StateTerminal
	}

	if next == StateTerminal {
		// The draft slot is cleared unconditionally on any terminal
		// path, whatever got the call there.
		m.sessions.End(callID)
		actions = append(actions, Hangup{})
	} else {
		m.sessions.SetState(callID, next)
	}

	m.log.WithFields(logrus.Fields{
		"call":  callID,
		"state": state.String(),
		"next":  next.String(),
	}).Debug("dialog transition")

	return actions, next
}

// Briefing returns the actions for the outbound briefing call: speak
// the composed summary, then offer the add-task menu.
func (m *Machine) Briefing(callID string, due []task.Task) []Action {
	m.sessions.Begin(callID)
	m.sessions.SetState(callID, StateAwaitingAddChoice)
	return []Action{
		Say{Text: briefing.Compose(due)},
		Gather{
			Prompt:       "Press 1 to add a new task, or hang up.",
			Route:        RouteMenu,
			AcceptDigits: true,
			NumDigits:    1,
			TimeoutSec:   digitTimeoutSec,
			// No answer still posts a turn, so the farewell transition
			// runs instead of the gateway dropping the call.
			SubmitOnTimeout: true,
		},
	}
}

func (m *Machine) stepIdle(callID string) ([]Action, State) {
	m.sessions.Begin(callID)
	return []Action{
		gatherSpeech(promptGreeting),
	}, StateAwaitingTaskSpeech
}

func (m *Machine) stepAddChoice(ev Event) ([]Action, State) {
	if ev.Kind == EventDigits && ev.Digits == "1" {
		return []Action{gatherSpeech(promptAddTask)}, StateAwaitingTaskSpeech
	}
	return []Action{Say{Text: promptFarewell}}, StateTerminal
}

func (m *Machine) stepTaskSpeech(ctx context.Context, callID string, ev Event) ([]Action, State) {
	if ev.Kind != EventSpeech || strings.TrimSpace(ev.Speech) == "" {
		return []Action{gatherSpeech(promptRetry)}, StateAwaitingTaskSpeech
	}

	draft, err := m.extractor.Extract(ctx, ev.Speech, m.now())
	if err != nil {
		// Service rejections, parse failures and transport errors all
		// resolve to the same re-prompt loop.
		m.log.WithError(err).WithField("call", callID).Warn("extraction failed")
		return []Action{gatherSpeech(promptApology)}, StateAwaitingTaskSpeech
	}

	m.sessions.SetDraft(callID, draft)
	summary := fmt.Sprintf("I heard: %s. Priority %s, due %s. Press 1 or say yes to save it, press 2 or say no to start over.",
		draft.Text, draft.Priority, spokenDue(draft.DueDate))

	return []Action{
		Gather{
			Prompt:       summary,
			Route:        RouteConfirm,
			AcceptSpeech: true,
			AcceptDigits: true,
			NumDigits:    1,
			TimeoutSec:   digitTimeoutSec,
			// No answer still posts a turn, so silence resolves to the
			// implicit accept below instead of dropping the call.
			SubmitOnTimeout: true,
		},
	}, StateAwaitingConfirmation
}

func (m *Machine) stepConfirmation(ctx context.Context, callID string, ev Event) ([]Action, State) {
	draft := m.sessions.Draft(callID)
	if draft == nil {
		// Session expired or the confirm route was hit cold.
		return []Action{Say{Text: promptSaveFail}}, StateTerminal
	}

	switch classifyConfirmation(ev) {
	case answerReject:
		m.sessions.ClearDraft(callID)
		return []Action{gatherSpeech(promptRejected)}, StateAwaitingTaskSpeech

	case answerAccept:
		if err := m.persist(ctx, callID, draft); err != nil {
			return []Action{Say{Text: promptSaveFail}}, StateTerminal
		}
		m.sessions.ClearDraft(callID)
		return []Action{
			Gather{
				Prompt:       promptSaved + " " + promptAnother,
				Route:        RouteAnother,
				AcceptSpeech: true,
				AcceptDigits: true,
				NumDigits:    1,
				TimeoutSec:   digitTimeoutSec,
				// Silence resolves to the farewell transition rather
				// than the gateway dropping the call.
				SubmitOnTimeout: true,
			},
		}, StateAwaitingAddAnother

	default:
		// Ambiguous answer or timeout: the caller heard the summary and
		// didn't object, so the draft is saved once and the call ends.
		if err := m.persist(ctx, callID, draft); err != nil {
			return []Action{Say{Text: promptSaveFail}}, StateTerminal
		}
		return []Action{Say{Text: promptSaved + " Goodbye."}}, StateTerminal
	}
}

func (m *Machine) stepAddAnother(callID string, ev Event) ([]Action, State) {
	if classifyConfirmation(ev) == answerAccept {
		m.sessions.ClearDraft(callID)
		return []Action{gatherSpeech(promptAddTask)}, StateAwaitingTaskSpeech
	}
	return []Action{Say{Text: promptFarewell}}, StateTerminal
}

func (m *Machine) persist(ctx context.Context, callID string, draft *task.Draft) error {
	if err := m.store.Append(ctx, *draft); err != nil {
		m.log.WithError(err).WithField("call", callID).Error("failed to persist task")
		return err
	}
	m.log.WithFields(logrus.Fields{"call": callID, "task": draft.Text}).Info("task saved")
	return nil
}

type confirmationAnswer int

const (
	answerAmbiguous confirmationAnswer = iota
	answerAccept
	answerReject
)

func classifyConfirmation(ev Event) confirmationAnswer {
	switch ev.Kind {
	case EventDigits:
		switch ev.Digits {
		case "1":
			return answerAccept
		case "2":
			return answerReject
		}
	case EventSpeech:
		speech := strings.ToLower(ev.Speech)
		if strings.Contains(speech, "yes") || strings.Contains(speech, "confirm") {
			return answerAccept
		}
		if strings.Contains(speech, "no") || strings.Contains(speech, "cancel") {
			return answerReject
		}
	}
	return answerAmbiguous
}

func gatherSpeech(prompt string) Gather {
	return Gather{
		Prompt:       prompt,
		Route:        RouteCapture,
		AcceptSpeech: true,
		TimeoutSec:   speechTimeoutSec,
		// Silence comes back as a timeout turn so the retry prompt can
		// run instead of the gateway dropping the call.
		SubmitOnTimeout: true,
	}
}

func spokenDue(due string) string {
	d, err := time.Parse(task.DateLayout, due)
	if err != nil {
		return due
	}
	return d.Format("Monday, January 2")
}
