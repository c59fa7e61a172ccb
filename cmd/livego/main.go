// Command livego is the LiveGo app's logic layer. The native embedder links
// it, installs its NativeBridge and UI wake callback, and drains the engine
// queue on its UI thread.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/livego/shell/internal/config"
	"github.com/livego/shell/internal/logging"
	"github.com/livego/shell/internal/shell"
	"github.com/livego/shell/pkg/engine"
	shellerrors "github.com/livego/shell/pkg/errors"
	"github.com/livego/shell/pkg/platform"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "livego: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()
	shellerrors.SetHandler(shellerrors.NewLogHandler(logger.Named("errors"), cfg.Logging.Development))

	logger.Info("starting",
		zap.String("app", cfg.App.ID),
		zap.String("version", cfg.App.Version))

	host := shell.New(cfg, shell.Deps{
		Logger:        logger.Named("shell"),
		Notifications: platform.Notifications,
		OnDetached:    engine.Shutdown,
	})
	defer host.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = engine.Run(ctx, func() {
		reportStartError(logger.Logger, host.Start(ctx))
	})
	if err = runError(err); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}

// reportStartError sends a failed startup to the error handler, or logs it
// when it carries no ShellError.
func reportStartError(logger *zap.Logger, err error) {
	if err == nil {
		return
	}
	var se *shellerrors.ShellError
	if errors.As(err, &se) {
		shellerrors.Report(se)
		return
	}
	logger.Error("startup failed", zap.Error(err))
}

// runError drops the cancellation that ends a normal signal shutdown.
func runError(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
