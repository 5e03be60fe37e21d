// Command tetra stores HSE instructions and finds the ones relevant to a question.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tetrivo/tetra/internal/adapters/driven/ai"
	"github.com/tetrivo/tetra/internal/adapters/driven/config/file"
	"github.com/tetrivo/tetra/internal/adapters/driven/storage/memory"
	"github.com/tetrivo/tetra/internal/adapters/driven/storage/sqlite"
	"github.com/tetrivo/tetra/internal/adapters/driving/cli"
	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
	"github.com/tetrivo/tetra/internal/core/services"
	"github.com/tetrivo/tetra/internal/logger"
	"github.com/tetrivo/tetra/internal/normalisers"
	"github.com/tetrivo/tetra/internal/postprocessors"
)

// defaultReindexInterval is used when scheduler.reindex_interval is not set.
const defaultReindexInterval = time.Hour

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// A missing .env is normal.
	_ = godotenv.Load()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings in %s: %w", configStore.Path(), err)
	}

	dataDir := configStore.GetString("storage.data_dir")
	if dataDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return err
		}
		dataDir = filepath.Join(dir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	pipelines := postprocessors.NewDefaultRegistry()
	pipeline, err := pipelines.BuildPipeline(settingsService.GetPipelineConfig())
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	embedding := ai.Init(&settings.Embedding)
	defer embedding.Close()

	instructions := store.InstructionStore()
	index := services.NewIndexService(instructions, pipeline, embedding.EmbeddingService, embedding.VectorIndex)
	if embedding.VectorIndex != nil {
		n, err := index.LoadVectors(ctx)
		if err != nil {
			logger.Warn("loading vectors failed, hybrid retrieval degraded: %v", err)
		}
		logger.Debug("Loaded %d chunk vectors", n)
	}

	interval := defaultReindexInterval
	if v := configStore.GetString("scheduler.reindex_interval"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: scheduler.reindex_interval: %v", domain.ErrInvalidInput, err)
		}
		interval = d
	}
	scheduler := services.NewScheduler(services.SchedulerConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}, store.TaskStore(), index)

	cli.SetServices(&cli.Services{
		Retrieval:   newRetrieval(instructions, settings, embedding),
		Text:        services.NewTextService(*settings),
		Instruction: services.NewInstructionService(instructions),
		Index:       index,
		Ingest:      services.NewIngestService(normalisers.NewDefaultRegistry(), index),
		Settings:    settingsService,
		Scheduler:   scheduler,
		EvalServices: func() (driving.IndexService, driving.RetrievalService) {
			evalStore := memory.NewInstructionStore()
			return services.NewIndexService(evalStore, pipeline, nil, nil),
				services.NewRetrievalService(evalStore, services.NewRanker(*settings), settings.Ranking, nil, nil)
		},
		DefaultOrg: configStore.GetString("org.default"),
		ServerAddr: configStore.GetString("server.addr"),
	})

	return cli.Execute(ctx)
}

func newRetrieval(store driven.InstructionStore, settings *domain.AppSettings, embedding *ai.InitResult) driving.RetrievalService {
	return services.NewRetrievalService(store, services.NewRanker(*settings), settings.Ranking, embedding.VectorIndex, embedding.EmbeddingService)
}
