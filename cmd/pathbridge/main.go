package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"pathbridge/internal/config"
	"pathbridge/internal/logging"
)

var (
	// Global flags
	cfgPath string
	verbose bool

	// Loaded configuration, available to subcommands after PersistentPreRunE.
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pathbridge",
	Short: "pathbridge - path-addressed data interchange utilities",
	Long: `pathbridge moves values between nested YAML documents, HTTP endpoints,
and tabular datasets.

  bridge   extract a value from a YAML document by key path, call an HTTP
           endpoint with it, and write the JSON response into an output
           document at another key path
  locate   scan a directory for files named <prefix><test_idx> and record
           the discovered absolute paths into a CSV table column`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real env vars win over it either way.
		_ = godotenv.Load()

		if cfgPath != "" {
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			cfg = loaded
		} else {
			cfg = config.DefaultConfig()
		}

		if err := logging.Init(verbose || cfg.Logging.Verbose); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to run config YAML")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(bridgeCmd)
	rootCmd.AddCommand(locateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
