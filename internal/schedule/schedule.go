// Package schedule decides which tasks belong in a morning briefing
// and in what order they are spoken.
package schedule

import (
	"sort"
	"time"

	"github.com/jasonisamilehigh/taskme/internal/task"
)

// DefaultWindowDays is the briefing lookahead used when no window is
// configured.
const DefaultWindowDays = 5

// ComputeDueTasks filters tasks down to those due between ref and
// ref+windowDays (inclusive, date precision) and orders them for the
// briefing: ascending priority rank, ties broken by due date.
//
// Completed tasks and tasks with no parseable due date are excluded.
// The input slice is not modified.
func ComputeDueTasks(all []task.Task, windowDays int, ref time.Time) []task.Task {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, windowDays)

	due := make([]task.Task, 0, len(all))
	for _, t := range all {
		if t.Completed() {
			continue
		}
		d, ok := t.Due()
		if !ok {
			continue
		}
		if d.Before(start) || d.After(end) {
			continue
		}
		due = append(due, t)
	}

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].Priority != due[j].Priority {
			return due[i].Priority < due[j].Priority
		}
		// Lexical order on YYYY-MM-DD is chronological.
		return due[i].DueDate < due[j].DueDate
	})

	return due
}
