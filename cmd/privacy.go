package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/format"
)

var privacyCmd = &cobra.Command{
	Use:   "privacy",
	Short: "Audit browser and tracking data",
	Long: `Inventory cookies, history, local storage, and per-app web data
across installed browsers. The audit only reads; nothing is removed.`,
	Run: func(cmd *cobra.Command, args []string) {
		b, _, err := newBridge()
		if err != nil {
			fail(err)
		}

		if jsonOutput {
			fmt.Println(b.PrivacyScan(cmd.Context()))
			return
		}

		report := b.Auditor().Audit(cmd.Context())

		if len(report.Browsers) == 0 && len(report.CookieLocations) == 0 {
			fmt.Println("  No browser or tracking data found.")
			return
		}

		for _, browser := range report.Browsers {
			fmt.Printf("\n  %s  %s\n", browser.Browser, format.Size(browser.TotalBytes))
			for _, store := range browser.Stores {
				fmt.Printf("    %10s  %-14s %s\n",
					format.Size(store.SizeBytes), store.Kind, format.TruncatePath(store.Path, 56))
			}
		}

		if len(report.CookieLocations) > 0 {
			fmt.Printf("\n  Per-app cookies and web storage:\n")
			shown := report.CookieLocations
			if len(shown) > 15 {
				shown = shown[:15]
			}
			for _, loc := range shown {
				fmt.Printf("    %10s  %s\n", format.Size(loc.SizeBytes), format.Truncate(loc.AppName, 48))
			}
			if rest := len(report.CookieLocations) - len(shown); rest > 0 {
				fmt.Printf("    ... and %d more\n", rest)
			}
		}

		fmt.Printf("\n  %s of privacy-relevant data in %d locations.\n",
			format.Size(report.TotalBytes), report.TotalLocations)
		fmt.Println("  Remove browser data with: macmole clean deep --select <finding>")
	},
}
