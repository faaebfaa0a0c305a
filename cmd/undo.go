package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/engine"
	"github.com/lakshaymaurya-felt/macmole/internal/format"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore or purge quarantined cleanups",
	Long: `Soft cleanups move files to a quarantine instead of deleting them.
List past sessions, restore one, or purge expired quarantine data.`,
}

var undoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List restorable sessions",
	Run: func(cmd *cobra.Command, args []string) {
		b, _, err := newBridge()
		if err != nil {
			fail(err)
		}

		if jsonOutput {
			fmt.Println(b.UndoList())
			return
		}

		sessions, err := b.Ledger().List()
		if err != nil {
			fail(err)
		}
		if len(sessions) == 0 {
			fmt.Println("  No restorable sessions.")
			return
		}

		for _, s := range sessions {
			status := ""
			if s.Expired {
				status = "  (expired)"
			}
			fmt.Printf("  %s  %10s  %4d files  %-12s %s%s\n",
				s.ID, format.Size(s.TotalBytes), s.TotalFiles, s.Profile,
				s.CreatedAt.Local().Format("2006-01-02 15:04"), status)
		}
		fmt.Printf("\n  Restore with: macmole undo restore <session>\n")
	},
}

var undoRestoreCmd = &cobra.Command{
	Use:   "restore <session>",
	Short: "Restore a quarantined session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		b, _, err := newBridge()
		if err != nil {
			fail(err)
		}

		if jsonOutput {
			fmt.Println(b.UndoRestore(args[0]))
			return
		}

		res, err := b.Ledger().Restore(args[0])
		if err != nil {
			fail(err)
		}

		for _, action := range res.Actions {
			marker := "  ✓"
			switch action.Status {
			case engine.RestoreConflict:
				marker = "  !"
			case engine.RestoreMissing, engine.RestoreIrreversible:
				marker = "  -"
			}
			detail := ""
			if action.Detail != "" {
				detail = "  (" + action.Detail + ")"
			}
			fmt.Printf("%s %s%s\n", marker, format.TruncatePath(action.Path, 70), detail)
		}
		fmt.Printf("\n  Restored %d files, %s.\n", res.RestoredFiles, format.Size(res.RestoredBytes))
	},
}

var undoPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired quarantine data",
	Run: func(cmd *cobra.Command, args []string) {
		b, _, err := newBridge()
		if err != nil {
			fail(err)
		}
		purged, freed, err := b.Ledger().PurgeExpired()
		if err != nil {
			fail(err)
		}
		fmt.Printf("  Purged %d sessions, released %s.\n", purged, format.Size(freed))
	},
}

var undoHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show quarantine usage",
	Run: func(cmd *cobra.Command, args []string) {
		b, cfg, err := newBridge()
		if err != nil {
			fail(err)
		}
		h, err := b.Ledger().CheckHealth()
		if err != nil {
			fail(err)
		}
		fmt.Printf("  Quarantine: %s across %d sessions (%d expired), retention %s.\n",
			format.Size(h.TotalBytes), h.SessionCount, h.ExpiredCount,
			time.Duration(cfg.RetentionDays)*24*time.Hour)
		if h.Warning != "" {
			fmt.Println("  ! " + h.Warning)
		}
	},
}

func init() {
	undoCmd.AddCommand(undoListCmd)
	undoCmd.AddCommand(undoRestoreCmd)
	undoCmd.AddCommand(undoPurgeCmd)
	undoCmd.AddCommand(undoHealthCmd)
}
