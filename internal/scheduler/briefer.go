// Package scheduler runs the morning briefing: a cron trigger computes
// the due-task list and, when it is non-empty, originates the outbound
// call.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jasonisamilehigh/taskme/internal/dialog"
	"github.com/jasonisamilehigh/taskme/internal/schedule"
	"github.com/jasonisamilehigh/taskme/internal/store"
	"github.com/jasonisamilehigh/taskme/internal/task"
)

// Dialer originates the outbound call. Satisfied by telephony.Dialer.
type Dialer interface {
	Call(voiceURL string) (string, error)
}

// Briefer owns the "run the morning briefing" operation, shared by the
// cron trigger, the CLI and the manual API endpoint.
type Briefer struct {
	store      store.TaskStore
	dialer     Dialer
	windowDays int
	baseURL    string
	now        func() time.Time
	log        *logrus.Logger
}

// NewBriefer wires a briefing job. dialer may be nil, in which case Run
// reports what it would have done without placing a call (useful for
// local runs without Twilio credentials).
func NewBriefer(st store.TaskStore, dialer Dialer, windowDays int, baseURL string, log *logrus.Logger) *Briefer {
	return &Briefer{
		store:      st,
		dialer:     dialer,
		windowDays: windowDays,
		baseURL:    baseURL,
		now:        time.Now,
		log:        log,
	}
}

// DueNow returns the tasks currently inside the briefing window.
func (b *Briefer) DueNow(ctx context.Context) ([]task.Task, error) {
	all, err := b.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return schedule.ComputeDueTasks(all, b.windowDays, b.now()), nil
}

// Run executes one briefing cycle. Zero due tasks skips the call.
func (b *Briefer) Run(ctx context.Context) error {
	due, err := b.DueNow(ctx)
	if err != nil {
		return err
	}

	if len(due) == 0 {
		b.log.Info("no tasks due, skipping briefing call")
		return nil
	}

	if b.dialer == nil {
		b.log.WithField("due", len(due)).Warn("no dialer configured, briefing call not placed")
		return nil
	}

	sid, err := b.dialer.Call(b.baseURL + string(dialog.RouteBriefing))
	if err != nil {
		return fmt.Errorf("place briefing call: %w", err)
	}

	b.log.WithFields(logrus.Fields{"sid": sid, "due": len(due)}).Info("briefing call placed")
	return nil
}
