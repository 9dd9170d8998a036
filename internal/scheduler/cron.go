package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Trigger fires the briefing daily at a configured local time.
type Trigger struct {
	cron *cron.Cron
	log  *logrus.Logger
}

// NewTrigger schedules briefer.Run daily at hour:minute in tz. The
// trigger runs on its own goroutines and never blocks request handling;
// failures are logged no-ops.
func NewTrigger(briefer *Briefer, hour, minute int, tz string, log *logrus.Logger) (*Trigger, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", tz, err)
	}

	c := cron.New(cron.WithLocation(loc))
	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := c.AddFunc(spec, func() {
		if err := briefer.Run(context.Background()); err != nil {
			log.WithError(err).Error("scheduled briefing failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule briefing: %w", err)
	}

	log.WithFields(logrus.Fields{"at": fmt.Sprintf("%02d:%02d", hour, minute), "tz": tz}).
		Info("briefing trigger scheduled")

	return &Trigger{cron: c, log: log}, nil
}

// Start begins firing the schedule.
func (t *Trigger) Start() {
	t.cron.Start()
}

// Stop halts the schedule and waits for a running job to finish.
func (t *Trigger) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
}
