package main

import (
	"fmt"
	"os"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/config"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile  string
	catalogFile string
	verbose     bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "repunto",
	Short: "Recycling point locator",
	Long: `Repunto shows where to hand in plastic, metal, paper and other recyclables.

It serves the point catalog as a JSON API, prints filtered point lists and
runs an interactive map in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		if catalogFile != "" {
			cfg.Catalog.Path = catalogFile
		}

		logger, err = logging.New(logging.Config{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Verbose: verbose,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVarP(&catalogFile, "catalog", "f", "", "Catalog file path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(serveCmd, pointsCmd, mapCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
