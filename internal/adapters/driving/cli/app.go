package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/risk-copilot/internal/adapters/driven/ai"
	"github.com/custodia-labs/risk-copilot/internal/adapters/driven/audit"
	"github.com/custodia-labs/risk-copilot/internal/adapters/driven/config/file"
	"github.com/custodia-labs/risk-copilot/internal/adapters/driven/docsource"
	"github.com/custodia-labs/risk-copilot/internal/adapters/driven/pdf"
	"github.com/custodia-labs/risk-copilot/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/risk-copilot/internal/adapters/driven/tokenizer"
	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driving"
	"github.com/custodia-labs/risk-copilot/internal/core/services"
	"github.com/custodia-labs/risk-copilot/internal/logger"
	"github.com/custodia-labs/risk-copilot/internal/postprocessors"
)

// Services used by commands. Tests replace them with mocks.
var (
	copilotService driving.CopilotService
	uploadService  driving.UploadService
	auditReader    driven.AuditReader
	appSettings    domain.AppSettings
	app            *App
)

// App holds the wired application components.
type App struct {
	Settings domain.AppSettings
	Index    *services.IndexManager
	Copilot  *services.CopilotService
	Upload   *services.UploadService
	AuditDB  *sqlite.Store

	ai *ai.InitResult
}

// NewApp loads settings and wires every component.
func NewApp(ctx context.Context, configPath, envFile string) (*App, error) {
	settingsService, err := newSettingsService(configPath, envFile)
	if err != nil {
		return nil, err
	}
	settings := settingsService.Get()
	if err := settingsService.Validate(settings); err != nil {
		return nil, err
	}

	counter, err := tokenizer.Select(settings.Chunking.Tokenizer)
	if err != nil {
		return nil, fmt.Errorf("selecting tokenizer: %w", err)
	}
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry, counter)
	pipeline, err := postprocessors.BuildPipeline(registry, domain.PipelineConfigFor(settings.Chunking))
	if err != nil {
		return nil, err
	}

	aiServices, err := ai.Init(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("initialising AI providers: %w", err)
	}

	a := &App{Settings: settings, ai: aiServices}

	sinks := audit.Multi{audit.NewJSONL(settings.Paths.LogDir)}
	if settings.Paths.AuditDB != "" {
		store, err := sqlite.NewStore(settings.Paths.AuditDB)
		if err != nil {
			_ = aiServices.Close()
			return nil, fmt.Errorf("opening audit database: %w", err)
		}
		a.AuditDB = store
		sinks = append(sinks, store)
	}

	a.Index = services.NewIndexManager(docsource.NewFilesystem(), pipeline, aiServices.EmbeddingService, settings.Paths.DataDir)
	a.Copilot = services.NewCopilotService(a.Index, aiServices.LLMService, sinks, settings.Retrieval)
	a.Upload = services.NewUploadService(pdf.NewExtractor(settings.PDFMaxPages), a.Index, settings.Paths.DataDir)

	logger.Debug("embedding: %s/%s, llm: %s/%s, data: %s",
		settings.Embedding.Provider, settings.Embedding.Model,
		settings.LLM.Provider, settings.LLM.Model, settings.Paths.DataDir)

	return a, nil
}

// Close releases provider clients and the audit database.
func (a *App) Close() error {
	var errs []error
	if a.ai != nil {
		errs = append(errs, a.ai.Close())
	}
	if a.AuditDB != nil {
		errs = append(errs, a.AuditDB.Close())
	}
	return errors.Join(errs...)
}

// newSettingsService layers the dotenv file and TOML file under the environment.
func newSettingsService(configPath, envFile string) (*services.SettingsService, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return services.NewSettingsService(store, nil), nil
}

// loadEnvFile loads a dotenv file without overriding variables already set.
// A missing file is ignored.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ensureServices wires the application unless services are already set.
func ensureServices(cmd *cobra.Command) error {
	if copilotService != nil {
		return nil
	}

	a, err := NewApp(cmd.Context(), configPath, envFile)
	if err != nil {
		return err
	}

	app = a
	copilotService = a.Copilot
	uploadService = a.Upload
	if a.AuditDB != nil {
		auditReader = a.AuditDB
	}
	appSettings = a.Settings
	return nil
}

// closeServices releases the wired application, if any.
func closeServices() {
	if app == nil {
		return
	}
	if err := app.Close(); err != nil {
		logger.Warn("closing services: %v", err)
	}
	app = nil
	copilotService = nil
	uploadService = nil
	auditReader = nil
}
