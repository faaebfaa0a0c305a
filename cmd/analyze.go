package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/diskusage"
	"github.com/lakshaymaurya-felt/macmole/internal/format"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

var (
	analyzeDepth   int
	analyzeMinSize string
	analyzeNoTUI   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Explore disk usage",
	Long:  "Interactive disk space analyzer with visual tree view.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "."
		if len(args) > 0 {
			path = args[0]
		} else if home, err := os.UserHomeDir(); err == nil {
			path = home
		}

		var minSize int64
		if analyzeMinSize != "" {
			parsed, err := format.ParseSize(analyzeMinSize)
			if err != nil {
				fail(err)
			}
			minSize = parsed
		}

		b, cfg, err := newBridge()
		if err != nil {
			fail(err)
		}

		if jsonOutput {
			fmt.Println(b.DiskUsage(cmd.Context(), path, analyzeDepth))
			return
		}

		if vol, err := diskusage.Volume(path); err == nil {
			fmt.Printf("  Volume %s (%s): %s used of %s (%.0f%%), %s free\n",
				vol.Mountpoint, vol.Fstype,
				format.Size(int64(vol.UsedBytes)), format.Size(int64(vol.TotalBytes)),
				vol.UsedPercent, format.Size(int64(vol.FreeBytes)))
		}
		analyzer := diskusage.NewAnalyzer(cfg.MaxWorkers, analyzeDepth, 0)

		if analyzeNoTUI || !ui.IsTTY() {
			fmt.Printf("  Scanning %s...\n", path)
			root, err := analyzer.Scan(cmd.Context(), path)
			if err != nil {
				fail(err)
			}
			diskusage.PrintStaticTree(os.Stdout, root, analyzeDepth, minSize)
			return
		}

		model := diskusage.NewProgressModel(analyzer, path)
		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			fail(err)
		}
		if err := model.Err(); err != nil {
			fail(err)
		}
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeDepth, "depth", 0, "Maximum directory depth to scan (0 = unlimited)")
	analyzeCmd.Flags().StringVar(&analyzeMinSize, "min-size", "", "Minimum size to display (e.g., 100MB)")
	analyzeCmd.Flags().BoolVar(&analyzeNoTUI, "no-tui", false, "Print a static tree instead of the interactive browser")
}
