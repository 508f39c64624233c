package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest-pdf [file]",
	Short: "Extract a PDF into the corpus and rebuild",
	Long: `Extracts the text of a PDF, saves it into the data directory as a .txt
file and rebuilds the index.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedMedia, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := ensureServices(cmd); err != nil {
		return err
	}
	if uploadService == nil {
		return errors.New("upload service not configured")
	}

	result, err := uploadService.UploadPDF(cmd.Context(), filepath.Base(path), data)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Saved %s\n", result.Saved)
	cmd.Printf("Index rebuilt: %d chunks in %.1f ms\n", result.Chunks, result.LatencyMS)
	return nil
}
