package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a task from free-form text",
	Long: `Run the task text through extraction and append the result to the store.

Examples:
  taskme add "call the dentist tomorrow"
  taskme add buy groceries friday high priority`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.closeStore()

	text := strings.Join(args, " ")
	draft, err := a.extractor.Extract(ctx, text, time.Now())
	if err != nil {
		return fmt.Errorf("extract task: %w", err)
	}

	if err := a.store.Append(ctx, *draft); err != nil {
		return fmt.Errorf("save task: %w", err)
	}

	fmt.Printf("Added: %s  [%s]  due %s\n", draft.Text, draft.Priority, draft.DueDate)
	return nil
}
