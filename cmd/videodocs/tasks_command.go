package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"videodocs/internal/queue"
)

func newTasksCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Show conversion task history",
	}
	cmd.AddCommand(newTasksListCommand(ctx))
	cmd.AddCommand(newTasksShowCommand(ctx))
	return cmd
}

func newTasksListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent conversion tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			tasks, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks yet.")
				return nil
			}

			rows := make([][]string, 0, len(tasks))
			for _, task := range tasks {
				rows = append(rows, []string{
					strconv.FormatInt(task.ID, 10),
					string(task.Status),
					truncateTitle(task.Title, 48),
					strconv.Itoa(task.Attempt),
					strconv.Itoa(task.ImageCount),
					task.UpdatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Status", "Title", "Attempt", "Images", "Updated"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))

			counts, err := store.Counts(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summarizeCounts(counts))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of tasks to show")
	return cmd
}

func newTasksShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the details of one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			task, err := store.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Task %d\n", task.ID)
			fmt.Fprintf(out, "  URL:        %s\n", task.URL)
			fmt.Fprintf(out, "  Title:      %s\n", task.Title)
			fmt.Fprintf(out, "  Status:     %s\n", task.Status)
			fmt.Fprintf(out, "  Attempt:    %d\n", task.Attempt)
			fmt.Fprintf(out, "  Images:     %d\n", task.ImageCount)
			if task.WorkspacePath != "" {
				fmt.Fprintf(out, "  Workspace:  %s\n", task.WorkspacePath)
			}
			if task.MarkdownPath != "" {
				fmt.Fprintf(out, "  Markdown:   %s\n", task.MarkdownPath)
			}
			if task.PDFPath != "" {
				fmt.Fprintf(out, "  PDF:        %s\n", task.PDFPath)
			}
			if task.ErrorMessage != "" {
				fmt.Fprintf(out, "  Last error: %s\n", task.ErrorMessage)
			}
			fmt.Fprintf(out, "  Created:    %s\n", task.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "  Updated:    %s\n", task.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func truncateTitle(title string, max int) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "-"
	}
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max-1]) + "…"
}

func summarizeCounts(counts map[queue.Status]int) string {
	parts := make([]string, 0, 4)
	for _, status := range []queue.Status{queue.StatusCompleted, queue.StatusFailed} {
		if n := counts[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, status))
		}
	}
	processing := 0
	for status, n := range counts {
		if status.IsProcessing() {
			processing += n
		}
	}
	if processing > 0 {
		parts = append(parts, fmt.Sprintf("%d in progress", processing))
	}
	if len(parts) == 0 {
		return "No completed or failed tasks yet."
	}
	return "Totals: " + strings.Join(parts, ", ")
}
