package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"sortd/internal/clix"
)

var queryLimit int

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query [words...]",
	Short: "Find organized files by time, category, and keywords",
	Long: `Searches the index with plain words. Time words ("2023", "recent",
"last week", "last month"), category words ("finances", "papers"), and
free keywords combine; a file must satisfy every kind you mention.

  sortd query invoices from 2023
  sortd query recent screenshots`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		results, err := appInstance.Query(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}

		if len(results) == 0 {
			fmt.Println("No files matched. The index only covers organized files; run \"sortd index\" if it is stale.")
			return nil
		}

		limit := clix.ParseLimit(cmd.Flags(), 25)
		total := len(results)
		if total > limit {
			results = results[:limit]
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"File", "Category", "Modified", "Matched"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, r := range results {
			table.Append([]string{
				r.Entry.Name,
				r.Entry.Category,
				r.Entry.ModTime.Format("2006-01-02"),
				strings.Join(r.Matched, ", "),
			})
		}
		table.Render()

		if total > limit {
			fmt.Printf("\nShowing %d of %d matches.\n", limit, total)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 25, "Maximum number of matches to show")
}
