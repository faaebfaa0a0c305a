package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/apps"
	"github.com/lakshaymaurya-felt/macmole/internal/format"
	"github.com/lakshaymaurya-felt/macmole/internal/plan"
)

var (
	leftoversClean bool
	leftoversMode  string
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "Inspect installed applications",
	Long:  "List installed applications with their disk footprint and find the data they leave behind.",
	Run: func(cmd *cobra.Command, args []string) {
		b, _, err := newBridge()
		if err != nil {
			fail(err)
		}

		if jsonOutput {
			fmt.Println(b.AppsList(cmd.Context()))
			return
		}

		list, err := b.Registry().List(cmd.Context())
		if err != nil && len(list) == 0 {
			fail(err)
		}
		if len(list) == 0 {
			fmt.Println("  No applications found.")
			return
		}

		for _, app := range list {
			version := app.Version
			if version == "" {
				version = "-"
			}
			fmt.Printf("  %10s  %-32s %-10s %s\n",
				format.Size(app.SizeBytes), format.Truncate(app.Name, 32), version, app.BundleID)
		}
		fmt.Printf("\n  %d applications.\n", len(list))
	},
}

var appsLeftoversCmd = &cobra.Command{
	Use:   "leftovers <app>",
	Short: "Find data an app left behind",
	Long: `Find caches, preferences, containers, and other library data
belonging to an application. With --clean, remove them; the app
bundle itself is never touched.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		b, _, err := newBridge()
		if err != nil {
			fail(err)
		}

		if jsonOutput && leftoversClean {
			fmt.Println(b.AppCleanLeftovers(cmd.Context(), args[0], leftoversMode))
			return
		}

		app, err := b.Registry().Find(cmd.Context(), args[0])
		if err != nil {
			fail(err)
		}

		findings := apps.Leftovers(cmd.Context(), app)
		if len(findings) == 0 {
			fmt.Printf("  %s has left nothing behind.\n", app.Name)
			return
		}

		var total int64
		for _, f := range findings {
			total += f.SizeBytes
			fmt.Printf("  %10s  %-28s %s\n",
				format.Size(f.SizeBytes), format.Truncate(f.Name, 28), format.TruncatePath(f.Path, 64))
		}
		fmt.Printf("\n  %s of leftover data for %s.\n", format.Size(total), app.Name)

		if !leftoversClean {
			fmt.Printf("  Remove it with: macmole apps leftovers %q --clean\n", args[0])
			return
		}

		mode, err := plan.ParseMode(leftoversMode)
		if err != nil {
			fail(err)
		}
		res, err := b.Executor().Execute(cmd.Context(), plan.New(mode, findings, nil), "app:"+app.Name)
		if err != nil {
			fail(err)
		}

		fmt.Printf("  Freed %s (%d files).\n", format.Size(res.FreedBytes), res.FreedFiles)
		if res.SessionID != "" {
			fmt.Printf("  Undo with: macmole undo restore %s\n", res.SessionID)
		}
		for _, e := range res.Errors {
			fmt.Fprintln(os.Stderr, "  ! "+e)
		}
	},
}

func init() {
	appsLeftoversCmd.Flags().BoolVar(&leftoversClean, "clean", false, "Remove the leftover data")
	appsLeftoversCmd.Flags().StringVar(&leftoversMode, "mode", "soft", "Execution mode: dry_run, soft, or hard")
	appsCmd.AddCommand(appsLeftoversCmd)
}
