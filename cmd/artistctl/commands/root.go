package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"artist-platform/internal/config"
	"artist-platform/pkg/logger"
)

var (
	// Global flags
	namespace  string
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "artistctl",
	Short: "Operator tooling for the artist platform ledger",
	Long: `artistctl derives record addresses, mints signer tokens, runs the schema
migration and drives maintenance tasks against a running deployment.

Configuration is read from the same environment (and .env file) as the api.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(os.Getenv("APP_ENV"))
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&namespace, "namespace", "", "Derivation namespace (defaults to LEDGER_NAMESPACE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// loadConfig applies the --namespace override on top of the environment
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if namespace != "" {
		cfg.Ledger.Namespace = namespace
	}
	return cfg, nil
}
