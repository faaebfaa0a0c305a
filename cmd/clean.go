package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/format"
	"github.com/lakshaymaurya-felt/macmole/internal/plan"
	"github.com/lakshaymaurya-felt/macmole/internal/rules"
)

var (
	cleanMode   string
	cleanSelect []string
	cleanYes    bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean [profile]",
	Short: "Free up disk space",
	Long: `Scan with a profile and remove what it finds.

Modes:
  dry_run  preview only, nothing is touched
  soft     move to quarantine; restorable with 'macmole undo' (default)
  hard     remove permanently; no undo`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		profile := "quick"
		if len(args) > 0 {
			profile = args[0]
		}

		mode, err := plan.ParseMode(cleanMode)
		if err != nil {
			fail(err)
		}

		b, _, err := newBridge()
		if err != nil {
			fail(err)
		}

		if jsonOutput {
			var selection string
			if len(cleanSelect) > 0 {
				data, _ := json.Marshal(cleanSelect)
				selection = string(data)
			}
			fmt.Println(b.Clean(cmd.Context(), profile, cleanMode, selection))
			return
		}

		ruleSet, err := rules.Resolve(profile)
		if err != nil {
			fail(err)
		}

		fmt.Printf("  Scanning with profile %q...\n", profile)
		scanRes := b.Scanner().Scan(cmd.Context(), ruleSet)
		p := plan.New(mode, scanRes.Findings, cleanSelect)

		if len(p.Findings) == 0 {
			fmt.Println("  Nothing to clean.")
			return
		}

		fmt.Printf("  Will process %d locations, %s total, mode %s.\n",
			len(p.Findings), format.Size(p.TotalBytes()), mode)

		if mode == plan.ModeHard && !cleanYes {
			if !confirm("  Hard mode removes files permanently. Continue? [y/N] ") {
				fmt.Println("  Aborted.")
				return
			}
		}

		res, err := b.Executor().Execute(cmd.Context(), p, profile)
		if err != nil {
			fail(err)
		}

		fmt.Printf("\n  Freed %s (%d files).\n", format.Size(res.FreedBytes), res.FreedFiles)
		if res.SessionID != "" {
			fmt.Printf("  Undo with: macmole undo restore %s\n", res.SessionID)
		}
		for _, e := range res.Errors {
			fmt.Fprintln(os.Stderr, "  ! "+e)
		}
	},
}

func init() {
	cleanCmd.Flags().StringVar(&cleanMode, "mode", "soft", "Execution mode: dry_run, soft, or hard")
	cleanCmd.Flags().StringSliceVar(&cleanSelect, "select", nil, "Clean only findings with these names")
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "Skip confirmation prompts")
}

// confirm reads a yes/no answer from stdin.
func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
