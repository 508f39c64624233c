// Package cli implements the risk-copilot command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/risk-copilot/internal/logger"
)

// version is overridden at build time with -ldflags.
var version = "dev"

var (
	verbose    bool
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "risk-copilot",
	Short: "Grounded question answering over risk documents",
	Long: `risk-copilot answers risk and compliance questions from a folder of
plain-text documents. Answers cite the retrieved passages as [Source N] and
fall back to a fixed refusal when the evidence is too weak.

Configuration is read from the environment, an optional .env file and an
optional TOML file, in that order of precedence.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default ~/.risk-copilot/config.toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded without overriding the environment")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and releases any wired services.
func Execute(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}
