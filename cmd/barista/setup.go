package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/barista/internal/config"
	"github.com/sandevgo/barista/internal/core"
	"github.com/sandevgo/barista/internal/providers/llm"
	"github.com/sandevgo/barista/internal/service/agent"
	"github.com/sandevgo/barista/internal/service/command"
	"github.com/sandevgo/barista/internal/service/memory"
	"github.com/sandevgo/barista/internal/transport/telegram"
	"github.com/sandevgo/barista/pkg/log"
	"github.com/sandevgo/barista/pkg/srv"
	"github.com/sandevgo/barista/pkg/tokens"
	"github.com/spf13/afero"
)

// app holds everything a gateway needs to talk to the orchestrator.
type app struct {
	cfg      *config.AppConfig
	store    *memory.Store
	renderer core.HistoryRenderer
	agent    *agent.Agent
}

func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)

	// 2. Prompt
	prompt, err := llm.LoadPrompt(afero.NewOsFs(), appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load prompt")
	}

	// 3. AI Provider
	aiProvider, err := llm.NewProvider(ctx, appCfg, prompt)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 4. Conversation memory
	renderer, err := memory.NewRenderer(appCfg.GetHistoryFormat())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize history renderer")
	}
	store := memory.NewStore()

	// 5. Agent Service
	ag := agent.NewAgent(
		appCfg,
		aiProvider,
		store,
		memory.NewLocker(),
		renderer,
		tokens.Count,
	)

	return &app{
		cfg:      appCfg,
		store:    store,
		renderer: renderer,
		agent:    ag,
	}
}

func (a *app) newRouter(greeting string) *command.Router {
	return command.NewRouter(greeting, a.cfg, a.agent, a.renderer, tokens.Count)
}

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	a := newApp(ctx)

	services := []srv.Service{
		srv.NewCleanup(func() error {
			logger.Info().Int("users", a.store.Users()).Msg("discarding conversation memory")
			return nil
		}),
	}

	// Transports
	transports, err := initTransports(ctx, a)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	return append(services, transports...)
}

func initTransports(ctx context.Context, a *app) ([]srv.Service, error) {
	var services []srv.Service

	// Telegram Bot
	if a.cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a.agent, a.newRouter(tgCfg.Greeting))
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
