package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jasonisamilehigh/taskme/internal/dialog"
	"github.com/jasonisamilehigh/taskme/internal/scheduler"
	"github.com/jasonisamilehigh/taskme/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server and the daily briefing trigger",
	Long: `Start the taskme server.

Examples:
  taskme serve
  taskme serve --addr :9000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "server address (defaults to server.addr from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
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

	trigger, err := scheduler.NewTrigger(briefer, a.cfg.Briefing.Hour, a.cfg.Briefing.Minute, a.cfg.Briefing.Timezone, a.log)
	if err != nil {
		return err
	}
	trigger.Start()
	defer trigger.Stop()

	machine := dialog.NewMachine(a.store, a.extractor, a.log)
	server := web.NewServer(machine, briefer, a.store, a.extractor, a.cfg.Server.PublicURL, a.log)

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	a.log.WithField("addr", addr).Info("starting server")
	return server.Run(addr)
}
