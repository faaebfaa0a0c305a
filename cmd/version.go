package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			fmt.Printf("{\"version\":%q,\"commit\":%q,\"date\":%q}\n", appVersion, appCommit, appDate)
			return
		}
		fmt.Printf("macmole %s (%s) built %s\n", appVersion, appCommit, appDate)
	},
}
