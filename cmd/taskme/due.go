package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jasonisamilehigh/taskme/internal/briefing"
	"github.com/jasonisamilehigh/taskme/internal/schedule"
)

var (
	dueJSON   bool
	dueWindow int
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List the tasks currently inside the briefing window",
	RunE:  runDue,
}

func init() {
	dueCmd.Flags().BoolVarP(&dueJSON, "json", "j", false, "output as JSON")
	dueCmd.Flags().IntVarP(&dueWindow, "window", "w", 0, "override the briefing window in days")
}

func runDue(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.closeStore()

	all, err := a.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	window := dueWindow
	if window <= 0 {
		window = a.cfg.Briefing.WindowDays
	}
	due := schedule.ComputeDueTasks(all, window, time.Now())

	if dueJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(due)
	}

	if len(due) == 0 {
		fmt.Println("No tasks due.")
		return nil
	}

	for i, t := range due {
		fmt.Printf("%d. %s  [%s]  due %s  (%s)\n", i+1, t.Text, t.Priority, t.DueDate, t.Status)
	}
	fmt.Println()
	fmt.Println("Briefing:", briefing.Compose(due))
	return nil
}
