package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/projmem/projmem/internal/ui"
	"github.com/projmem/projmem/internal/util"
	"github.com/projmem/projmem/models"
	"github.com/projmem/projmem/store"
	"github.com/projmem/projmem/types"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks in the active project",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task to the active project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		p, err := s.ActiveProject(CurrentBranch())
		if err != nil {
			return err
		}

		t := models.NewTask(util.NewID("task"), p.ID, args[0])
		if prio, _ := cmd.Flags().GetString("priority"); prio != "" {
			if !models.ValidTaskPriority(prio) {
				return fmt.Errorf("unknown priority: %s", prio)
			}
			t.Priority = models.TaskPriority(prio)
		}
		if assignee, _ := cmd.Flags().GetString("assignee"); assignee != "" {
			t.Assignee = assignee
		}

		if err := s.CreateTask(&t); err != nil {
			return err
		}
		cmd.Printf("%s %s %s\n", ui.StyleSuccess.Render("Created"), t.ID, t.Title)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks in the active project",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		p, err := s.ActiveProject(CurrentBranch())
		if err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		tasks, err := s.ListTasks(p.ID, store.TaskFilter{Status: status})
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			cmd.Println(ui.StyleSubtle.Render("No tasks."))
			return nil
		}

		cmd.Println(ui.StyleHeader.Render(fmt.Sprintf("Tasks in %s (%d)", p.Name, len(tasks))))
		for _, t := range tasks {
			badge := ui.StatusStyle(t.Status).Render(string(t.Status))
			prio := ui.PriorityStyle(t.Priority).Render(string(t.Priority))
			cmd.Printf("  %s  [%s] [%s] %s\n", ui.StyleSubtle.Render(t.ID), badge, prio, t.Title)
		}
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task completed",
	Long: `Mark a task completed. Refused while the task still has incomplete
dependency parents or open blockers with a blocking impact.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		t, check, err := s.CompleteTask(args[0], "")
		if err != nil {
			if types.CodeOf(err) == types.CodeBlocked {
				cmd.Println(ui.StyleError.Render("Cannot complete:"))
				for _, dep := range check.UnsatisfiedDependencies {
					cmd.Printf("  depends on %s (%s) - %s\n", dep.Title, dep.ID, dep.Status)
				}
				for _, blk := range check.OpenBlockers {
					cmd.Printf("  blocked by %s (%s) - %s\n", blk.Title, blk.ID, blk.Status)
				}
			}
			return err
		}
		cmd.Printf("%s %s %s\n", ui.StyleSuccess.Render("Completed"), t.ID, t.Title)
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if err := s.DeleteTask(args[0]); err != nil {
			return err
		}
		cmd.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	taskAddCmd.Flags().StringP("priority", "p", "", "task priority (low, medium, high)")
	taskAddCmd.Flags().StringP("assignee", "a", "", "assignee")
	taskListCmd.Flags().StringP("status", "s", "", "filter by status")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd, taskRmCmd)
	rootCmd.AddCommand(taskCmd)
}
