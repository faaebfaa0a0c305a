package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/rules"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List scan profiles",
	Long:  "Show the available scan profiles and what each one covers.",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			b, _, err := newBridge()
			if err != nil {
				fail(err)
			}
			fmt.Println(b.ProfilesList())
			return
		}

		for _, p := range rules.List() {
			fmt.Printf("  %-10s  %2d rules  %s\n", p.Name, p.RuleCount, p.Description)
		}
	},
}
