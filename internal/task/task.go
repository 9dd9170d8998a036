package task

import (
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the wire format for due dates throughout the system.
const DateLayout = "2006-01-02"

// DefaultStatus is assigned to tasks that carry no status of their own.
const DefaultStatus = "Not Started"

// Priority orders tasks in a briefing. Lower rank speaks first.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

// ParsePriority maps a stored priority label to a level. Unrecognized
// values normalize to Medium so they sort predictably.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityMedium
	}
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityLow:
		return "Low"
	default:
		return "Medium"
	}
}

// MarshalJSON renders the priority as its label rather than a number.
func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts a priority label, normalizing unknown values to Medium.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = ParsePriority(s)
	return nil
}

// Task is one row of the task store.
type Task struct {
	Text     string   `json:"text"`
	Priority Priority `json:"priority"`
	Status   string   `json:"status"`
	DueDate  string   `json:"dueDate,omitempty"`
	// Row is the position in the backing store, assigned on read. The
	// header occupies row 1, so the first data row is 2.
	Row int `json:"row,omitempty"`
}

// Completed reports whether the task's status marks it finished.
func (t Task) Completed() bool {
	switch strings.ToLower(strings.TrimSpace(t.Status)) {
	case "completed", "done":
		return true
	}
	return false
}

// Due parses the task's due date. ok is false when the date is absent
// or unparseable; such tasks never enter a due window.
func (t Task) Due() (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Draft is a task extracted from speech but not yet confirmed by the
// caller. It becomes a Task row only after confirmation.
type Draft struct {
	Text     string   `json:"text"`
	Priority Priority `json:"priority"`
	Status   string   `json:"status"`
	DueDate  string   `json:"dueDate,omitempty"`
}
