package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jasonisamilehigh/taskme/internal/scheduler"
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Run the morning briefing once",
	Long:  `Compute the due-task list and, when it is non-empty, place the outbound briefing call.`,
	RunE:  runBrief,
}

func runBrief(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.closeStore()

	var dialer scheduler.Dialer
	if d := newDialer(a.cfg, a.log); d != nil {
		dialer = d
	}

	briefer := scheduler.NewBriefer(a.store, dialer, a.cfg.Briefing.WindowDays, a.cfg.Server.PublicURL, a.log)
	return briefer.Run(ctx)
}
