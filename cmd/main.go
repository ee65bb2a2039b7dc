package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/thomas-vilte/issuecost/internal/ai"
	"github.com/thomas-vilte/issuecost/internal/cache"
	"github.com/thomas-vilte/issuecost/internal/config"
	"github.com/thomas-vilte/issuecost/internal/handler"
	"github.com/thomas-vilte/issuecost/internal/i18n"
	"github.com/thomas-vilte/issuecost/internal/logger"
	"github.com/thomas-vilte/issuecost/internal/providers"
	"github.com/thomas-vilte/issuecost/internal/services"
	"github.com/thomas-vilte/issuecost/internal/vcs/github"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "issuecost",
		Usage: "Estimate the development cost of open GitHub issues",
		Commands: []*cli.Command{
			newServeCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a TOML configuration file",
			},
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides configuration)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			if port := cmd.String("port"); port != "" {
				cfg.Port = port
			}
			if cmd.Bool("debug") {
				cfg.Debug = true
			}
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger.Initialize(cfg.Debug, !cfg.Debug)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.FromContext(ctx)

	trans, err := i18n.NewTranslations(cfg.Language, "")
	if err != nil {
		return err
	}

	if cfg.ProviderAPIKey() == "" {
		log.Warn("no API key configured for the active LLM provider; classifications will fail over to default estimates",
			"provider", cfg.LLMProvider)
	}

	completer, err := providers.NewCompleter(ctx, cfg)
	if err != nil {
		return err
	}

	verdictCache := cache.New(cfg.CacheTTL, cfg.CacheMaxEntries)
	exportCache := cache.New(cfg.SessionTTL, cfg.CacheMaxEntries)

	classifierCfg := ai.DefaultClassifierConfig(cfg.Serverless)
	classifierCfg.RatePerSecond = cfg.ClassifyRate
	classifierCfg.Burst = cfg.ClassifyBurst
	classifier := ai.NewClassifier(completer, verdictCache, classifierCfg)

	githubClient := github.NewClient(cfg.GitHubToken)
	if cfg.GitHubToken == "" {
		log.Warn("no GitHub token configured; unauthenticated rate limits apply")
	}

	analyzer := services.NewRepositoryAnalyzer(githubClient, classifier, trans, exportCache)
	store := services.NewProgressStore()
	sessions := services.NewSessionManager(analyzer, store, trans, services.SessionManagerConfig{
		SessionTTL:    cfg.SessionTTL,
		SweepInterval: cfg.SweepInterval,
	})
	defer sessions.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	app.Use(recover.New())
	if cfg.Debug {
		app.Use(fiberlogger.New())
	}

	h := handler.NewAnalysisHandler(sessions, exportCache, trans, cfg.DefaultHourlyRate, completer.ProviderName())
	handler.RegisterRoutes(app, h)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			"port", cfg.Port,
			"llm_provider", cfg.LLMProvider,
			"serverless", cfg.Serverless)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown error", "error", err)
		}
		return nil
	}
}
