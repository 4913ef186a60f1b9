package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var indexCounts bool

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the search index from the destination tree",
	Long: `Walks the destination root and rebuilds the index from what is actually
on disk. Files moved or deleted outside sortd disappear from search
results after a rebuild.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		n, err := appInstance.RebuildIndex(cmd.Context())
		if err != nil {
			return fmt.Errorf("index rebuild failed: %w", err)
		}
		fmt.Printf("Indexed %d files under %s\n", n, appInstance.DestRoot)

		if indexCounts {
			counts, err := appInstance.Index.CategoryCounts(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read category counts: %w", err)
			}
			categories := make([]string, 0, len(counts))
			for c := range counts {
				categories = append(categories, c)
			}
			sort.Strings(categories)
			for _, c := range categories {
				name := c
				if name == "" {
					name = "(root)"
				}
				fmt.Printf("  %-30s %d\n", name, counts[c])
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().BoolVar(&indexCounts, "counts", false, "Show per-category file counts after the rebuild")
}
