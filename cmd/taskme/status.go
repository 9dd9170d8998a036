package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jasonisamilehigh/taskme/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and collaborator status",
	RunE:  runStatus,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default global config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.GlobalConfigPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Println("Wrote", path)
		return nil
	},
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Println("taskme status")
	fmt.Println("=============")
	fmt.Printf("store backend:  %s\n", cfg.Store.Backend)
	fmt.Printf("briefing:       %02d:%02d %s, %d-day window\n",
		cfg.Briefing.Hour, cfg.Briefing.Minute, cfg.Briefing.Timezone, cfg.Briefing.WindowDays)
	fmt.Printf("server:         %s (public %s)\n", cfg.Server.Addr, cfg.Server.PublicURL)
	fmt.Printf("OPENAI_API_KEY: %s\n", present(os.Getenv("OPENAI_API_KEY")))
	fmt.Printf("TWILIO creds:   %s\n", present(os.Getenv("TWILIO_ACCOUNT_SID")+os.Getenv("TWILIO_AUTH_TOKEN")))

	a, err := newApp(ctx)
	if err != nil {
		fmt.Printf("store:          unavailable (%v)\n", err)
		return nil
	}
	defer a.closeStore()

	tasks, err := a.store.List(ctx)
	if err != nil {
		fmt.Printf("store:          unreachable (%v)\n", err)
		return nil
	}
	fmt.Printf("store:          ok, %d tasks\n", len(tasks))
	return nil
}

func present(s string) string {
	if s == "" {
		return "missing"
	}
	return "set"
}
