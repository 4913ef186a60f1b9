package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sortd/internal/app"
	"sortd/internal/config"
)

var (
	cfgFile  string
	destRoot string
)

var rootCmd = &cobra.Command{
	Use:   "sortd",
	Short: "Organize, index, and find files",
	Long: `Sortd classifies the files in a folder into a category tree, moves them
under a destination root with a durable undo log, and keeps a searchable
index of everything it has organized.`,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is given, print help.
		cmd.Help()
	},
	// PersistentPreRunE runs before any subcommand's RunE
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if destRoot != "" {
			cfg.Destination.Root = destRoot
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		appInstance, err := app.NewApp(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		// Store the app instance in the command's context
		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appInstance, err := GetAppFromContext(cmd.Context()); err == nil {
			appInstance.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Define a custom type for the context key to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// GetAppFromContext retrieves the app instance stashed by PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./config.yaml, then $HOME/.config/sortd)")
	rootCmd.PersistentFlags().StringVar(&destRoot, "dest", "", "Destination root (overrides destination.root and SORTD_DEST)")

	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check destination, index, and move-log health",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}

		if appInstance.DestRoot == "" {
			fmt.Println("No destination root configured (set destination.root, SORTD_DEST, or --dest).")
			return nil
		}

		info, err := os.Stat(appInstance.DestRoot)
		if err != nil {
			return fmt.Errorf("destination root not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("destination root %s is not a directory", appInstance.DestRoot)
		}
		fmt.Printf("Destination root accessible: %s\n", appInstance.DestRoot)

		if err := appInstance.Index.Ping(ctx); err != nil {
			return fmt.Errorf("index database ping failed: %w", err)
		}
		n, err := appInstance.Index.Count(ctx)
		if err != nil {
			return fmt.Errorf("index database query failed: %w", err)
		}
		fmt.Printf("Index database reachable (%d files indexed).\n", n)

		probe := filepath.Join(appInstance.Logs.Dir(), ".doctor")
		if err := os.WriteFile(probe, []byte("ok\n"), 0o644); err != nil {
			return fmt.Errorf("move log directory not writable: %w", err)
		}
		os.Remove(probe)
		fmt.Println("Move log directory writable.")
		return nil
	},
}
