package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"sortd/internal/app"
	"sortd/internal/clix"
	"sortd/internal/models"
	"sortd/internal/plan"
)

var (
	commitPlanPath  string
	commitDryRun    bool
	commitAutoIndex bool
	commitYes       bool
)

// commitCmd represents the commit command
var commitCmd = &cobra.Command{
	Use:   "commit [source]",
	Short: "Execute an organization plan",
	Long: `Moves files into the destination tree. Either pass a source folder to
classify and commit in one step, or --plan with a JSON plan saved by
preview. Every run writes a move log so it can be undone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (commitPlanPath == "") == (len(args) == 0) {
			return fmt.Errorf("pass exactly one of a source folder or --plan")
		}

		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		// SIGINT finishes the file in flight, then stops.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var p *models.OrganizationPlan
		if commitPlanPath != "" {
			p, err = plan.Load(commitPlanPath)
			if err != nil {
				return fmt.Errorf("failed to load plan: %w", err)
			}
		} else {
			p, err = appInstance.Preview(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to build plan: %w", err)
			}
		}

		if len(p.Entries) == 0 {
			fmt.Println("Nothing to organize.")
			return nil
		}

		if !commitDryRun && !commitYes {
			prompt := fmt.Sprintf("Move %d files under %s?", len(p.Entries), appInstance.DestRoot)
			if !clix.Confirm(os.Stdin, os.Stdout, prompt) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		opts := app.CommitOptions{
			DryRun:    commitDryRun,
			AutoIndex: commitAutoIndex,
		}
		if !commitDryRun {
			opts.Progress = func(pr models.Progress) {
				if pr.CurrentFile == "" {
					return
				}
				fmt.Printf("[%d/%d] %s\n", pr.Processed+1, pr.Total, pr.CurrentFile)
			}
		}

		result, err := appInstance.Commit(ctx, p, opts)
		if err != nil {
			if result != nil {
				printCommitResult(result)
			}
			return fmt.Errorf("commit failed: %w", err)
		}

		printCommitResult(result)
		return nil
	},
}

func printCommitResult(result *models.CommitResult) {
	if result.DryRun {
		fmt.Println("Dry run; nothing was moved.")
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Source", "Destination", "Note"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, rec := range result.Records {
			note := ""
			if rec.SuffixApplied {
				note = "renamed to avoid collision"
			}
			table.Append([]string{rec.SourcePath, rec.DestinationPath, note})
		}
		table.Render()
	}

	for _, e := range result.Errors {
		fmt.Printf("  - %s %s: %s\n", color.RedString("ERROR"), e.Path, e.Reason)
	}

	fmt.Printf("\n%s", color.GreenString("Moved %d files", result.Moved))
	if result.Unchanged > 0 {
		fmt.Printf(", %d already in place", result.Unchanged)
	}
	if result.Collisions > 0 {
		fmt.Printf(", %s", color.YellowString("%d renamed on collision", result.Collisions))
	}
	if len(result.Errors) > 0 {
		fmt.Printf(", %s", color.RedString("%d failed", len(result.Errors)))
	}
	fmt.Println()

	if len(result.ByCategory) > 0 {
		categories := make([]string, 0, len(result.ByCategory))
		for c := range result.ByCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			fmt.Printf("  %-30s %d\n", c, result.ByCategory[c])
		}
	}

	if result.Indexed > 0 {
		fmt.Printf("Index refreshed (%d files).\n", result.Indexed)
	}
	if result.CommitID != "" {
		fmt.Printf("Undo with: sortd undo %s\n", result.CommitID)
	}
}

func init() {
	rootCmd.AddCommand(commitCmd)

	commitCmd.Flags().StringVar(&commitPlanPath, "plan", "", "Commit a JSON plan saved by preview --save")
	commitCmd.Flags().BoolVar(&commitDryRun, "dry-run", false, "Resolve every target, including collision renames, without moving anything")
	commitCmd.Flags().BoolVar(&commitAutoIndex, "auto-index", false, "Rebuild the search index after a successful commit")
	commitCmd.Flags().BoolVarP(&commitYes, "yes", "y", false, "Skip the confirmation prompt")
}
