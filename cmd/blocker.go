package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/projmem/projmem/internal/ui"
	"github.com/projmem/projmem/internal/util"
	"github.com/projmem/projmem/models"
	"github.com/projmem/projmem/store"
)

var blockerCmd = &cobra.Command{
	Use:   "blocker",
	Short: "Manage blockers in the active project",
}

var blockerAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Record a blocker",
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

		b := models.NewBlocker(util.NewID("blk"), p.ID, args[0])
		if sev, _ := cmd.Flags().GetString("severity"); sev != "" {
			if !models.ValidSeverity(sev) {
				return fmt.Errorf("unknown severity: %s", sev)
			}
			b.Severity = models.Severity(sev)
		}
		if typ, _ := cmd.Flags().GetString("type"); typ != "" {
			if !models.ValidBlockerType(typ) {
				return fmt.Errorf("unknown blocker type: %s", typ)
			}
			b.Type = models.BlockerType(typ)
		}

		if err := s.CreateBlocker(&b); err != nil {
			return err
		}
		cmd.Printf("%s %s %s\n", ui.StyleSuccess.Render("Created"), b.ID, b.Title)
		return nil
	},
}

var blockerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List blockers in the active project",
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
		blockers, err := s.ListBlockers(p.ID, store.BlockerFilter{Status: status})
		if err != nil {
			return err
		}
		if len(blockers) == 0 {
			cmd.Println(ui.StyleSubtle.Render("No blockers."))
			return nil
		}

		cmd.Println(ui.StyleHeader.Render(fmt.Sprintf("Blockers in %s (%d)", p.Name, len(blockers))))
		for _, b := range blockers {
			sev := ui.SeverityStyle(b.Severity).Render(string(b.Severity))
			cmd.Printf("  %s  [%s] [%s] %s\n", ui.StyleSubtle.Render(b.ID), sev, b.Status, b.Title)
		}
		return nil
	},
}

var blockerResolveCmd = &cobra.Command{
	Use:   "resolve <blocker-id>",
	Short: "Mark a blocker resolved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		status := models.BlockerResolved
		u := models.BlockerUpdate{Status: &status}
		if notes, _ := cmd.Flags().GetString("notes"); notes != "" {
			u.ResolutionNotes = &notes
		}

		b, err := s.UpdateBlocker(args[0], u)
		if err != nil {
			return err
		}
		cmd.Printf("%s %s %s\n", ui.StyleSuccess.Render("Resolved"), b.ID, b.Title)
		return nil
	},
}

func init() {
	blockerAddCmd.Flags().StringP("severity", "s", "", "severity (low, medium, high, critical)")
	blockerAddCmd.Flags().StringP("type", "t", "", "blocker type (external, resource, technical, decision, dependency)")
	blockerListCmd.Flags().String("status", "", "filter by status")
	blockerResolveCmd.Flags().StringP("notes", "n", "", "resolution notes")

	blockerCmd.AddCommand(blockerAddCmd, blockerListCmd, blockerResolveCmd)
	rootCmd.AddCommand(blockerCmd)
}
