package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/risk-copilot/internal/adapters/driven/docsource"
	"github.com/custodia-labs/risk-copilot/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/risk-copilot/internal/logger"
)

var (
	serveAddr     string
	serveWatch    bool
	serveDebounce time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the HTTP API (/health, /stats, /rebuild, /ask, /upload_pdf).

With --watch, the data directory is watched and the index is rebuilt once
.txt changes settle.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "rebuild when .txt files in the data directory change")
	serveCmd.Flags().DurationVar(&serveDebounce, "debounce", docsource.DefaultDebounce, "quiet period before a watch rebuild")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveWatch {
		watcher, err := docsource.NewWatcher(appSettings.Paths.DataDir, serveDebounce, rebuildOnChange)
		if err != nil {
			return err
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Warn("watcher stopped: %v", err)
			}
		}()
		cmd.Printf("Watching %s for changes\n", appSettings.Paths.DataDir)
	}

	settings := appSettings.Server
	if serveAddr != "" {
		settings.Addr = serveAddr
	}

	server := httpapi.NewServer(copilotService, uploadService, settings)
	cmd.Printf("Serving on %s\n", settings.Addr)
	return server.Run(ctx)
}

func rebuildOnChange(ctx context.Context) {
	result, err := copilotService.Rebuild(ctx)
	if err != nil {
		logger.Warn("watch rebuild failed: %v", err)
		return
	}
	logger.Info("index rebuilt: %d chunks in %.1f ms", result.Chunks, result.LatencyMS)
}
