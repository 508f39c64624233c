package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	rebuildJSON bool
	statsJSON   bool
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the vector index",
	Long: `Rescans the data directory, rechunks every document and re-embeds all
chunks. The previous index keeps serving until the new one is ready.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rebuildCmd.Flags().BoolVar(&rebuildJSON, "json", false, "output the result as JSON")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(statsCmd)
}

func runRebuild(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}

	result, err := copilotService.Rebuild(cmd.Context())
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	if rebuildJSON {
		return printJSON(cmd, result)
	}
	cmd.Printf("Index rebuilt: %d chunks in %.1f ms\n", result.Chunks, result.LatencyMS)
	return nil
}

// runStats reports the index of this process. A fresh CLI process has not
// built anything yet, so this is mostly useful through the API or MCP.
func runStats(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}

	stats := copilotService.Stats(cmd.Context())
	if statsJSON {
		return printJSON(cmd, stats)
	}

	built := "no"
	if stats.Built {
		built = "yes"
	}
	cmd.Printf("Built: %s\n", built)
	cmd.Printf("Chunks: %d\n", stats.Chunks)
	return nil
}
