package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sortd/internal/models"
	"sortd/internal/movelog"
	"sortd/internal/organize"
)

// undoCmd represents the undo command
var undoCmd = &cobra.Command{
	Use:   "undo [commit-id]",
	Short: "Reverse a committed organization run",
	Long: `Replays a move log backwards, restoring files to where they came from.
With no argument the most recent run that has not been undone is
reversed. Run "sortd logs" to list commit ids.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		selector := movelog.LatestSelector
		if len(args) == 1 {
			selector = args[0]
		}

		result, err := appInstance.Undo(ctx, selector, organize.UndoOptions{
			Progress: func(pr models.Progress) {
				if pr.CurrentFile == "" {
					return
				}
				fmt.Printf("[%d/%d] %s\n", pr.Processed+1, pr.Total, pr.CurrentFile)
			},
		})
		if err != nil {
			return fmt.Errorf("undo failed: %w", err)
		}

		if result.AlreadyDone {
			fmt.Printf("Commit %s is already undone; nothing to do.\n", result.CommitID)
			return nil
		}

		for _, path := range result.Skipped {
			fmt.Printf("  - %s %s: no longer at its destination\n", color.YellowString("SKIPPED"), path)
		}
		for _, e := range result.Errors {
			fmt.Printf("  - %s %s: %s\n", color.RedString("ERROR"), e.Path, e.Reason)
		}

		fmt.Printf("\n%s", color.GreenString("Restored %d files", result.Restored))
		if len(result.Skipped) > 0 {
			fmt.Printf(", %d skipped", len(result.Skipped))
		}
		if len(result.Errors) > 0 {
			fmt.Printf(", %s", color.RedString("%d failed", len(result.Errors)))
		}
		fmt.Printf(" from commit %s\n", result.CommitID)

		if result.PrunedDirs > 0 {
			fmt.Printf("Removed %d empty directories.\n", result.PrunedDirs)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(undoCmd)
}
