package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"sortd/internal/plan"
)

var previewSave string

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview [source]",
	Short: "Classify a folder and show the proposed plan",
	Long: `Scans a source folder, classifies every file against the category tree,
and prints the proposed destination for each one. Nothing is moved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		p, err := appInstance.Preview(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to build plan: %w", err)
		}

		if len(p.Entries) == 0 {
			fmt.Printf("Nothing to organize under %s.\n", p.SourceRoot)
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"File", "Category", "Score", "Status"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, e := range p.Entries {
			score := fmt.Sprintf("%.2f", e.Score)
			if e.Fallback {
				score = "fallback"
			}
			table.Append([]string{e.FileName, e.Category, score, string(e.Status)})
		}
		table.Render()
		fmt.Printf("\n%d files from %s would move under %s\n", len(p.Entries), p.SourceRoot, p.DestinationRoot)

		if previewSave != "" {
			if err := plan.Save(p, previewSave); err != nil {
				return fmt.Errorf("failed to save plan: %w", err)
			}
			fmt.Printf("Plan saved to %s. Edit it, then run: sortd commit --plan %s\n", previewSave, previewSave)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVar(&previewSave, "save", "", "Write the plan as JSON to this path for review and editing")
}
