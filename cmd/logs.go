package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"sortd/internal/clix"
)

var logsLimit int

// logsCmd represents the logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List recorded organization runs",
	Long:  `Shows the stored move logs, newest first, with the commit id "sortd undo" takes.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		logs, err := appInstance.ListLogs()
		if err != nil {
			return fmt.Errorf("error listing move logs: %w", err)
		}

		if len(logs) == 0 {
			fmt.Println("No organization runs recorded.")
			return nil
		}

		limit := clix.ParseLimit(cmd.Flags(), 20)
		if len(logs) > limit {
			logs = logs[:limit]
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Commit ID", "Created", "Files", "Status"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, info := range logs {
			status := ""
			if info.Undone {
				status = "undone"
			}
			table.Append([]string{
				info.CommitID,
				info.CreatedAt.Format("2006-01-02 15:04:05"),
				strconv.Itoa(info.Entries),
				status,
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", 20, "Maximum number of runs to show")
}
