package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/bridge"
	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/logging"
)

var (
	// Global flags
	debug      bool
	jsonOutput bool

	// Version info populated from main
	appVersion = config.Version
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "macmole",
	Short: "Reclaim disk space and audit privacy data on your Mac",
	Long: `MacMole - Reclaim disk space and audit privacy data on your Mac.

Scans caches, logs, developer artifacts, and app leftovers; quarantines
what it removes so every cleanup can be undone; audits browser cookies
and tracking data without touching them.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(appsCmd)
	rootCmd.AddCommand(privacyCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// newBridge builds the wired engine the subcommands share. It creates the
// data directories on first use.
func newBridge() (*bridge.Bridge, *config.Config, error) {
	if err := config.InitDirs(); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level := logging.LevelInfo
	if debug {
		level = logging.LevelDebug
	}
	logger := logging.New(cfg, level)

	return bridge.New(cfg, logger), cfg, nil
}

// fail prints an error and exits nonzero.
func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
