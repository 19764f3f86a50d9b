package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"eyewear-tracker-go/internal/domain/wearlog"
	"eyewear-tracker-go/internal/platform/config"
	"eyewear-tracker-go/internal/platform/errors"
	"eyewear-tracker-go/internal/platform/logging"
	"eyewear-tracker-go/internal/platform/storage"
	transport "eyewear-tracker-go/internal/transport/http"
)

const shutdownTimeout = 5 * time.Second

// Run wires the full server: config, logging, database, service and HTTP
// transport. It blocks until the context is cancelled or SIGINT/SIGTERM
// arrives, then shuts the listener down gracefully.
func Run(ctx context.Context, configPath string) error {
	cfg, err := config.NewLoader().WithDotEnv(true).WithPath(configPath).Load()
	if err != nil {
		return errors.Wrap(errors.KindBootstrap, "bootstrap.config", "failed to load configuration", err)
	}

	logger, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Dir:      cfg.Log.Dir,
		Filename: cfg.Log.File,
	})
	if err != nil {
		return errors.Wrap(errors.KindBootstrap, "bootstrap.logging", "failed to initialize logging", err)
	}
	defer logger.Close()

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return errors.Wrap(errors.KindBootstrap, "bootstrap.storage", "failed to open database", err)
	}

	svc, err := wearlog.NewService(
		storage.NewUsageLogRepository(db),
		storage.NewEventRepository(db),
		logger,
	)
	if err != nil {
		return errors.Wrap(errors.KindBootstrap, "bootstrap.service", "failed to create log service", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := transport.NewRouter(cfg, logger, transport.NewLogsHandler(svc, logger))
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.IP, cfg.Server.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.InfoTag("server", "listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.KindBootstrap, "bootstrap.listen", "server stopped unexpectedly", err)
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		logger.InfoTag("server", "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(errors.KindBootstrap, "bootstrap.shutdown", "graceful shutdown failed", err)
		}
		return nil
	})

	return group.Wait()
}
