package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kanbohq/kanbo/internal/board"
)

// oneShotTask runs a workflow against an ephemeral single-task board.
// Tasks are session-scoped, so the one-shot commands take the text
// directly instead of referencing stored tasks.
func oneShotTask(args []string, run func(store *board.Store, id string) error) (board.Task, error) {
	store := board.NewStore()
	task, ok := store.Add(strings.Join(args, " "))
	if !ok {
		return board.Task{}, fmt.Errorf("task text is required")
	}
	if err := run(store, task.ID); err != nil {
		return board.Task{}, err
	}
	got, _ := store.Get(task.ID)
	return got, nil
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <task text>",
		Short: "Categorize a task with the AI service",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := oneShotTask(args, func(store *board.Store, id string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				return newWorkflows(cfg, store).Analyze(cmd.Context(), id)
			})
			if err != nil {
				return err
			}
			a := task.Analysis
			if a.Category == "Error" {
				return fmt.Errorf("%s", a.Notes)
			}
			fmt.Fprintf(os.Stdout, "category: %s\npriority: %s\nnotes: %s\n", a.Category, a.Priority, a.Notes)
			return nil
		},
	}
}

func breakdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "breakdown <task text>",
		Short: "Split a task into sub-tasks with the AI service",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := oneShotTask(args, func(store *board.Store, id string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				return newWorkflows(cfg, store).Breakdown(cmd.Context(), id)
			})
			if err != nil {
				return err
			}
			if len(task.SubTasks) == 1 && strings.HasPrefix(task.SubTasks[0], "Breakdown failed: ") {
				return fmt.Errorf("%s", task.SubTasks[0])
			}
			for i, sub := range task.SubTasks {
				_, _ = io.WriteString(os.Stdout, fmt.Sprintf("%d. %s\n", i+1, sub))
			}
			return nil
		},
	}
}
