package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vango-go/assistant-core/internal/dotenv"
	"github.com/vango-go/assistant-core/pkg/assistant/backend"
	"github.com/vango-go/assistant-core/pkg/assistant/config"
	"github.com/vango-go/assistant-core/pkg/assistant/metrics"
	"github.com/vango-go/assistant-core/pkg/assistant/session"
	"github.com/vango-go/assistant-core/pkg/assistant/tools"
)

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	registry := tools.NewRegistry()
	client := backend.NewClient(cfg.BackendBaseURL, cfg.BackendToken, cfg.Timezone, cfg.BackendTimeout)
	if err := tools.RegisterAll(registry, client); err != nil {
		return fmt.Errorf("register tools: %w", err)
	}

	sessionID := uuid.NewString()
	logger.Info("connecting to pipeline", "url", cfg.PipelineURL, "session_id", sessionID, "tools", registry.Names())

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.PipelineURL, nil)
	if err != nil {
		return fmt.Errorf("dial pipeline: %w", err)
	}
	defer conn.Close()

	controller, err := session.New(session.Dependencies{
		Conn:       conn,
		Logger:     logger,
		Dispatcher: tools.NewDispatcher(registry, logger),
		Usage:      metrics.NewUsageCollector(),
		SessionID:  sessionID,
		Config: session.Config{
			ReadTimeout:        cfg.ReadTimeout,
			WriteTimeout:       cfg.WriteTimeout,
			MaxSessionDuration: cfg.MaxSessionDuration,
		},
	})
	if err != nil {
		return fmt.Errorf("build session: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- controller.Run()
	}()

	select {
	case err := <-runErrCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
	}

	controller.Close()
	if err := <-runErrCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runMain(ctx context.Context, stderr io.Writer) int {
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	if err := dotenv.Load(); err != nil {
		fmt.Fprintf(stderr, "assistant-core: %v\n", err)
		return 1
	}
	if err := run(ctx, logger); err != nil {
		fmt.Fprintf(stderr, "assistant-core: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(runMain(context.Background(), os.Stderr))
}
