package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sortd/internal/clix"
)

var suggestLimit int

// suggestCmd represents the suggest command
var suggestCmd = &cobra.Command{
	Use:   "suggest [partial]",
	Short: "Complete a partial category path",
	Long: `Prints category paths matching a partial, ranked the way interactive
editors want them: prefix matches first, then substring matches. Useful
when editing a saved plan by hand.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		partial := ""
		if len(args) == 1 {
			partial = args[0]
		}

		suggestions := appInstance.Suggest(nil, partial, clix.ParseLimit(cmd.Flags(), 10))
		if len(suggestions) == 0 {
			fmt.Printf("No categories match %q.\n", partial)
			return nil
		}
		for _, s := range suggestions {
			fmt.Println(s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 10, "Maximum number of suggestions to show")
}
