// Command verdictd serves the AI verdict panel over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jessewalberg/aita/infrastructure/llm"
	"github.com/jessewalberg/aita/infrastructure/middleware"
	"github.com/jessewalberg/aita/infrastructure/panel"
	"github.com/jessewalberg/aita/infrastructure/storage"
	"github.com/jessewalberg/aita/internal/application"
	"github.com/jessewalberg/aita/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(*configPath, logger); err != nil {
		logger.Fatal("verdictd failed", zap.Error(err))
	}
}

func run(configPath string, logger *zap.Logger) error {
	cfg, err := application.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY is required")
	}

	client, err := llm.NewClient(cfg.LLM.Provider, llm.ClientConfig{
		APIKey:  cfg.LLM.APIKey,
		Model:   llm.OpenRouterDefaultModel,
		BaseURL: cfg.LLM.BaseURL,
		Timeout: cfg.LLM.Timeout(),
		Middleware: []llm.Middleware{
			llm.TracingMiddleware("verdictd"),
			llm.TimeoutMiddleware(cfg.LLM.Timeout()),
			llm.RetryMiddleware(cfg.LLM.MaxRetries, 500*time.Millisecond, 5*time.Second),
			llm.RateLimitMiddleware(rate.Limit(10), 20),
		},
	})
	if err != nil {
		return fmt.Errorf("create llm client: %w", err)
	}

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	metrics := middleware.NewPrometheusMetrics()
	invoker := panel.NewInvoker(client, logger)
	pipeline := application.NewPipeline(application.PipelineDeps{
		Orchestrator: panel.NewOrchestrator(invoker, nil),
		Synthesizer:  panel.NewSynthesizer(client, logger),
		Invoker:      invoker,
		RateLimiter: storage.NewRateLimiter(db, storage.RateLimits{
			Single: cfg.RateLimit.SinglePerDay,
			Panel:  cfg.RateLimit.PanelPerDay,
		}),
		VerdictStore: storage.NewVerdictStore(db),
		StatsStore:   storage.NewModelStatsStore(db),
		Metrics:      metrics,
		Logger:       logger,
	})

	srv := server.New(pipeline, storage.NewVerdictStore(db), storage.NewModelStatsStore(db), logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("verdictd listening", zap.String("addr", cfg.Server.Addr))
		errCh <- srv.Start(cfg.Server.Addr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx,
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
