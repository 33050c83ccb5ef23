package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/projmem/projmem/internal/ui"
	"github.com/projmem/projmem/models"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage the task dependency graph",
}

var depAddCmd = &cobra.Command{
	Use:   "add <parent-task-id> <child-task-id>",
	Short: "Add a dependency edge (parent must resolve before child)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		depType := models.DepBlocks
		if typ, _ := cmd.Flags().GetString("type"); typ != "" {
			depType = models.DependencyType(typ)
		}

		parent, err := s.GetTask(args[0])
		if err != nil {
			return err
		}
		edge, err := s.AddDependency(parent.ProjectID, args[0], args[1], depType)
		if err != nil {
			return err
		}
		cmd.Printf("%s %s -> %s (%s)\n", ui.StyleSuccess.Render("Linked"), edge.ParentTaskID, edge.ChildTaskID, edge.Type)
		return nil
	},
}

var depRmCmd = &cobra.Command{
	Use:   "rm <parent-task-id> <child-task-id>",
	Short: "Remove a dependency edge",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		typ, _ := cmd.Flags().GetString("type")
		removed, err := s.RemoveDependency(args[0], args[1], typ)
		if err != nil {
			return err
		}
		cmd.Printf("Removed %d edge(s)\n", removed)
		return nil
	},
}

var depShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show a task's dependencies in both directions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		links, err := s.TaskDependencies(args[0])
		if err != nil {
			return err
		}

		cmd.Println(ui.StyleHeader.Render(fmt.Sprintf("Dependencies of %s", args[0])))
		if len(links.DependsOn) == 0 && len(links.Blocks) == 0 {
			cmd.Println(ui.StyleSubtle.Render("  none"))
			return nil
		}
		for _, l := range links.DependsOn {
			badge := ui.StatusStyle(l.Task.Status).Render(string(l.Task.Status))
			cmd.Printf("  depends on %s [%s] (%s, %s)\n", l.Task.Title, badge, l.Task.ID, l.Type)
		}
		for _, l := range links.Blocks {
			badge := ui.StatusStyle(l.Task.Status).Render(string(l.Task.Status))
			cmd.Printf("  blocks     %s [%s] (%s, %s)\n", l.Task.Title, badge, l.Task.ID, l.Type)
		}
		return nil
	},
}

func init() {
	depAddCmd.Flags().StringP("type", "t", "", "edge type (blocks, subtask, prerequisite)")
	depRmCmd.Flags().StringP("type", "t", "", "edge type to remove (all types if omitted)")

	depCmd.AddCommand(depAddCmd, depRmCmd, depShowCmd)
	rootCmd.AddCommand(depCmd)
}
