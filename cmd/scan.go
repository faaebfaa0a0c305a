package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/format"
	"github.com/lakshaymaurya-felt/macmole/internal/rules"
	"github.com/lakshaymaurya-felt/macmole/internal/scan"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan [profile]",
	Short: "Find reclaimable disk space",
	Long: `Scan the system for reclaimable space using a profile
(quick, developer, creative, deep). Nothing is removed.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		profile := "quick"
		if len(args) > 0 {
			profile = args[0]
		}

		b, _, err := newBridge()
		if err != nil {
			fail(err)
		}

		if jsonOutput {
			fmt.Println(b.Scan(cmd.Context(), profile))
			return
		}

		ruleSet, err := rules.Resolve(profile)
		if err != nil {
			fail(err)
		}

		fmt.Printf("  Scanning with profile %q...\n\n", profile)
		res := b.Scanner().Scan(cmd.Context(), ruleSet)
		printFindings(res, profile)
	},
}

// printFindings renders a scan result as a styled table, or plain text when
// stdout is not a terminal.
func printFindings(res *scan.Result, profile string) {
	if len(res.Findings) == 0 {
		fmt.Println("  Nothing to reclaim. Your Mac is tidy.")
		return
	}

	styled := ui.IsTTY()
	var lastCategory rules.Category = -1

	for _, f := range res.Findings {
		if f.Category != lastCategory {
			lastCategory = f.Category
			header := "── " + f.Category.String() + " ──"
			if styled {
				header = ui.TitleStyle().Render(header)
			}
			fmt.Println("\n  " + header)
		}

		risk := ""
		if f.Risk != rules.RiskSafe {
			risk = " [" + f.Risk.String() + "]"
			if styled {
				risk = " " + ui.TagWarningStyle().Render(" "+f.Risk.String()+" ")
			}
		}

		size := fmt.Sprintf("%10s", format.Size(f.SizeBytes))
		if styled {
			size = lipgloss.NewStyle().Foreground(ui.ColorAccent).Render(size)
		}

		fmt.Printf("  %s  %-36s %s%s\n",
			size, format.Truncate(f.Name, 36), format.TruncatePath(f.Path, 60), risk)
	}

	fmt.Println()
	fmt.Printf("  Total: %s across %d locations (%d files), scanned in %.1fs\n",
		format.Size(res.TotalBytes), len(res.Findings), res.TotalFiles, res.Duration.Seconds())
	fmt.Printf("  Run 'macmole clean %s' to reclaim it.\n", profile)

	if len(res.Warnings) > 0 {
		fmt.Printf("\n  %d paths could not be read", len(res.Warnings))
		if debug {
			fmt.Println(":")
			for _, w := range res.Warnings {
				fmt.Fprintln(os.Stderr, "    "+w)
			}
		} else {
			fmt.Println(" (rerun with --debug for details)")
		}
	}
}
