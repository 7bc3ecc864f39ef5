package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmhart/pulse/internal/models"
	"github.com/jmhart/pulse/internal/tracker"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(),
		newTaskListCmd(),
		newTaskShowCmd(),
		newTaskEditCmd(),
		newTaskRmCmd(),
		newTaskCompleteCmd(),
		newSubtaskCmd(),
	)
	return cmd
}

func newTaskAddCmd() *cobra.Command {
	var (
		description string
		category    string
		priority    string
		tags        []string
		estimate    int
		deadline    string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := tracker.TaskParams{
				Title:            args[0],
				Description:      description,
				Category:         models.Category(category),
				Priority:         models.Priority(priority),
				Tags:             tags,
				EstimatedMinutes: estimate,
			}
			if deadline != "" {
				when, err := parseWhen(deadline)
				if err != nil {
					return err
				}
				params.Deadline = &when
			}
			task, err := svc.CreateTask(cfg.User, params)
			if err != nil {
				return err
			}
			fmt.Printf("created task %d: %s\n", task.ID, task.Title)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category (work, personal, learning, health, other)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "priority (low, medium, high, critical)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "estimated minutes")
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline")
	return cmd
}

func newTaskListCmd() *cobra.Command {
	var (
		search    string
		category  string
		completed bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cat *models.Category
			if category != "" {
				c := models.Category(category)
				cat = &c
			}
			tasks, err := svc.ListTasks(cfg.User, search, cat, completed)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Println("no tasks")
				return nil
			}
			for _, t := range tasks {
				fmt.Println(formatTaskLine(&t))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by title or description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by category")
	cmd.Flags().BoolVarP(&completed, "all", "a", false, "include completed tasks")
	return cmd
}

func newTaskShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task with its subtasks and recent entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := svc.GetTask(cfg.User, taskID)
			if err != nil {
				return err
			}

			fmt.Println(formatTaskLine(task))
			if task.Description != "" {
				fmt.Printf("  %s\n", task.Description)
			}
			if len(task.Tags) > 0 {
				fmt.Printf("  tags: %s\n", strings.Join(task.Tags, ", "))
			}
			if task.Deadline != nil {
				fmt.Printf("  deadline: %s\n", task.Deadline.Local().Format("2006-01-02 15:04"))
			}
			if task.ReportedMinutes != nil {
				fmt.Printf("  completed with reported total %s (logged %s)\n",
					formatMinutes(*task.ReportedMinutes), formatMinutes(task.LoggedMinutes))
			}
			for _, st := range task.Subtasks {
				mark := " "
				if st.Done {
					mark = "x"
				}
				fmt.Printf("  [%s] %d: %s\n", mark, st.ID, st.Title)
			}

			entries, err := svc.EntriesForTask(cfg.User, taskID)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Println(formatEntryLine(&e))
			}
			return nil
		},
	}
}

func newTaskEditCmd() *cobra.Command {
	var (
		title       string
		description string
		category    string
		priority    string
		status      string
		tags        []string
		estimate    int
	)
	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch tracker.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("category") {
				c := models.Category(category)
				patch.Category = &c
			}
			if cmd.Flags().Changed("priority") {
				p := models.Priority(priority)
				patch.Priority = &p
			}
			if cmd.Flags().Changed("status") {
				s := models.Status(status)
				patch.Status = &s
			}
			if cmd.Flags().Changed("tag") {
				patch.Tags = &tags
			}
			if cmd.Flags().Changed("estimate") {
				patch.EstimatedMinutes = &estimate
			}

			task, err := svc.UpdateTask(cfg.User, taskID, patch)
			if err != nil {
				return err
			}
			fmt.Println(formatTaskLine(task))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "priority")
	cmd.Flags().StringVar(&status, "status", "", "status (not_started, in_progress, paused)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "replace tags (repeatable)")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "estimated minutes")
	return cmd
}

func newTaskRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task without time entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := svc.DeleteTask(cfg.User, taskID); err != nil {
				return err
			}
			fmt.Printf("deleted task %d\n", taskID)
			return nil
		},
	}
}

func newTaskCompleteCmd() *cobra.Command {
	var (
		timeSpent int
		pct       int
	)
	cmd := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}

			var completion tracker.Completion
			if cmd.Flags().Changed("time-spent") {
				completion.TimeSpentMinutes = &timeSpent
			}
			if cmd.Flags().Changed("pct") {
				completion.CompletionPct = &pct
			}

			task, err := svc.CompleteTask(cfg.User, taskID, completion)
			if err != nil {
				return err
			}
			fmt.Printf("completed %q (%s logged)\n", task.Title, formatMinutes(task.LoggedMinutes))
			if task.ReportedMinutes != nil {
				fmt.Printf("recorded your reported total of %s; entries were left as-is\n",
					formatMinutes(*task.ReportedMinutes))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&timeSpent, "time-spent", 0, "your own total in minutes, recorded if it disagrees with the log")
	cmd.Flags().IntVar(&pct, "pct", 0, "completion percentage (tasks without subtasks)")
	return cmd
}

func newSubtaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage subtasks",
	}

	add := &cobra.Command{
		Use:   "add <task-id> <title>",
		Short: "Add a subtask",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			subtask, err := svc.AddSubtask(cfg.User, taskID, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("added subtask %d to task %d\n", subtask.ID, taskID)
			return nil
		},
	}

	done := &cobra.Command{
		Use:   "done <subtask-id>",
		Short: "Mark a subtask done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subtaskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := svc.SetSubtaskDone(cfg.User, subtaskID, true)
			if err != nil {
				return err
			}
			fmt.Printf("task %d now %d%% complete\n", task.ID, task.CompletionPct)
			return nil
		},
	}

	cmd.AddCommand(add, done)
	return cmd
}

func formatTaskLine(t *models.Task) string {
	line := fmt.Sprintf("%d [%s/%s] %s — %s logged",
		t.ID, t.Category, t.Priority, t.Title, formatMinutes(t.LoggedMinutes))
	if t.EstimatedMinutes > 0 {
		line += fmt.Sprintf(" of %s", formatMinutes(t.EstimatedMinutes))
	}
	line += fmt.Sprintf(" (%s, %d%%)", t.Status, t.CompletionPct)
	return line
}

func formatEntryLine(e *models.TimeEntry) string {
	if e.Running() {
		return fmt.Sprintf("  entry %d: running since %s", e.ID, e.Start.Local().Format("15:04"))
	}
	line := fmt.Sprintf("  entry %d: %s  %s - %s",
		e.ID, formatMinutes(e.DurationMinutes),
		e.Start.Local().Format("2006-01-02 15:04"), e.End.Local().Format("15:04"))
	if e.FocusScore != nil {
		line += fmt.Sprintf("  focus %d/5", *e.FocusScore)
	}
	if e.NeedsReview {
		line += "  (needs review)"
	}
	return line
}
