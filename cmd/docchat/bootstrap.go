package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/docchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/services"
	"github.com/custodia-labs/docchat/internal/extractors/pdf"
	"github.com/custodia-labs/docchat/internal/logger"
)

// bootstrap wires adapters into services for one command invocation.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, func(), error) {
	dir, err := file.ResolveConfigDir(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve config directory: %w", err)
	}

	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("cleanup: %v", err)
			}
		}
	}
	fail := func(err error) (*cli.Services, func(), error) {
		cleanup()
		return nil, nil, err
	}

	// Log lines would corrupt the alternate screen.
	if opts.Interactive {
		restore, err := logger.ToFile(filepath.Join(dir, "docchat.log"))
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, restore)
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return fail(fmt.Errorf("open config: %w", err))
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator(0))
	settings, err := settingsService.Get()
	if err != nil {
		return fail(fmt.Errorf("read settings: %w", err))
	}

	sessionStore, err := openSessionStore(dir, settings.Session.Storage, opts.Ephemeral)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, sessionStore.Close)

	// The app still starts without a model so the user can fix settings
	// and work with documents; sends fail with the fallback reply.
	llm, err := ai.CreateLLMService(ctx, &settings.LLM)
	switch {
	case err != nil:
		logger.Warn("completion provider unavailable: %v", err)
		llm = nil
	case llm == nil:
		logger.Warn("completion provider %s is not configured", settings.LLM.Provider)
	default:
		closers = append(closers, llm.Close)
		logger.Info("using %s via %s", llm.ModelName(), settings.LLM.Provider)
	}

	state := services.NewStateManager()
	sessionService := services.NewSessionService(state, sessionStore)
	closers = append(closers, func() error { sessionService.Close(); return nil })
	documentService := services.NewDocumentService(state, pdf.New())
	chatService := services.NewChatService(state, llm)

	promptDir := filepath.Join(dir, "prompts")
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		return fail(err)
	}
	chatService.SetPromptStore(prompts)
	if opts.Interactive {
		if stopWatch := watchPrompts(ctx, prompts, promptDir); stopWatch != nil {
			closers = append(closers, stopWatch)
		}
	}

	if err := sessionService.Restore(ctx); err != nil {
		return fail(fmt.Errorf("restore session: %w", err))
	}

	return &cli.Services{
		Session:   sessionService,
		Document:  documentService,
		Chat:      chatService,
		Settings:  settingsService,
		ConfigDir: dir,
	}, cleanup, nil
}

// openSessionStore picks the snapshot backend. --ephemeral always wins.
func openSessionStore(dir string, backend domain.StorageBackend, ephemeral bool) (driven.SessionStore, error) {
	if ephemeral || backend == domain.StorageMemory {
		logger.Debug("session kept in memory")
		return memory.NewSessionStore(), nil
	}

	store, err := sqlite.NewStore(filepath.Join(dir, "data"))
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	logger.Debug("session database: %s", store.Path())
	return store.SessionStore(), nil
}

// watchPrompts reloads prompt templates while the UI runs. Failures only
// disable reloading.
func watchPrompts(ctx context.Context, prompts *file.PromptStore, dir string) func() error {
	// Loading once creates the directory and the default files.
	if _, err := prompts.Load(driven.PromptDocumentQA); err != nil {
		logger.Warn("load prompts: %v", err)
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	watcher, err := file.NewPromptWatcher(prompts, dir)
	if err != nil {
		logger.Warn("prompt reload disabled: %v", err)
		return nil
	}
	go watcher.Run(ctx)
	return watcher.Close
}
