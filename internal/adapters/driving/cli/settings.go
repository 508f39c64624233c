package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the effective settings",
	Long: `Shows the settings after applying defaults, the config file, the dotenv
file and the environment. API keys are masked.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	settingsService, err := newSettingsService(configPath, envFile)
	if err != nil {
		return err
	}
	settings := settingsService.Get()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	printProvider(cmd, settings.Embedding.Provider, settings.Embedding.Model, settings.Embedding.BaseURL,
		settings.Embedding.APIKey, settings.Embedding.IsConfigured())

	cmd.Println("[LLM]")
	printProvider(cmd, settings.LLM.Provider, settings.LLM.Model, settings.LLM.BaseURL,
		settings.LLM.APIKey, settings.LLM.IsConfigured())

	cmd.Println("[Chunking]")
	cmd.Printf("  Target tokens: %d\n", settings.Chunking.TargetTokens)
	cmd.Printf("  Overlap tokens: %d\n", settings.Chunking.OverlapTokens)
	cmd.Printf("  Tokenizer: %s\n", settings.Chunking.Tokenizer)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Similarity threshold: %.2f\n", settings.Retrieval.SimilarityThreshold)
	cmd.Printf("  Enforce citations: %t\n", settings.Retrieval.EnforceCitations)
	cmd.Println()

	cmd.Println("[Paths]")
	cmd.Printf("  Data dir: %s\n", settings.Paths.DataDir)
	cmd.Printf("  Log dir: %s\n", settings.Paths.LogDir)
	auditDB := settings.Paths.AuditDB
	if auditDB == "" {
		auditDB = "(disabled)"
	}
	cmd.Printf("  Audit DB: %s\n", auditDB)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Printf("  CORS origins: %s\n", strings.Join(settings.Server.CORSOrigins, ", "))
	cmd.Println()

	cmd.Println("[Resilience]")
	cmd.Printf("  Rate limit: %g/s\n", settings.Resilience.RateLimit)
	cmd.Printf("  Breaker failures: %d\n", settings.Resilience.BreakerFailures)

	if err := settingsService.Validate(settings); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func printProvider(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	cmd.Printf("  Provider: %s\n", provider.Description())
	cmd.Printf("  Model: %s\n", model)
	if baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
