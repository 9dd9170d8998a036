// Package briefing renders a due-task list as spoken narrative text for
// the morning call.
package briefing

import (
	"fmt"
	"strings"
	"time"

	"github.com/jasonisamilehigh/taskme/internal/task"
)

// NoTasksMessage is spoken when nothing is due. When the scheduler sees
// an empty list it skips the outbound call entirely, so this message is
// only reachable through the manual trigger paths.
const NoTasksMessage = "Good morning. You have no tasks due in the next few days. Enjoy your day."

var ordinals = []string{"First", "Second", "Third", "Fourth", "Fifth", "Sixth", "Seventh", "Eighth", "Ninth", "Tenth"}

// Compose turns an ordered due-task list into the text spoken on the
// briefing call. The order is the scheduler's; no re-sorting happens here.
func Compose(due []task.Task) string {
	if len(due) == 0 {
		return NoTasksMessage
	}

	var sb strings.Builder
	if len(due) == 1 {
		sb.WriteString("Good morning. You have 1 task coming up. ")
	} else {
		fmt.Fprintf(&sb, "Good morning. You have %d tasks coming up. ", len(due))
	}

	for i, t := range due {
		status := t.Status
		if strings.TrimSpace(status) == "" {
			status = task.DefaultStatus
		}
		fmt.Fprintf(&sb, "%s, %s. Priority %s, due %s. Status: %s. ",
			ordinal(i), t.Text, t.Priority, spokenDate(t.DueDate), status)
	}

	sb.WriteString("That is everything on your list.")
	return sb.String()
}

func ordinal(i int) string {
	if i < len(ordinals) {
		return ordinals[i]
	}
	return fmt.Sprintf("Number %d", i+1)
}

// spokenDate renders YYYY-MM-DD as a weekday plus month and day, which
// reads naturally over text-to-speech. Unparseable input is spoken as-is.
func spokenDate(s string) string {
	d, err := time.Parse(task.DateLayout, s)
	if err != nil {
		return s
	}
	return d.Format("Monday, January 2")
}
