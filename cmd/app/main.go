package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskmaster-api/internal/config"
	"github.com/BuzzLyutic/taskmaster-api/internal/handler"
	"github.com/BuzzLyutic/taskmaster-api/internal/logger"
	"github.com/BuzzLyutic/taskmaster-api/internal/metrics"
	"github.com/BuzzLyutic/taskmaster-api/internal/service"
	"github.com/BuzzLyutic/taskmaster-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{
		Production: cfg.IsProduction(),
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	// Fatal here: without a store the service has nothing to serve.
	db, err := store.Open(context.Background(), cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("Failed to connect to Database", zap.Error(err))
	}

	taskService := service.NewTaskService(db.Tasks)
	taskHandler := handler.NewTaskHandler(taskService, log, cfg.IsProduction())

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New("taskmaster")
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler.NewRouter(taskHandler, log, m),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server started",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("driver", string(db.Driver)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				log.Info("Shutting down server...")
				return srv.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait
	if err := db.Close(); err != nil {
		log.Error("Failed to close Database", zap.Error(err))
	}
	log.Info("Server stopped", zap.Int("exit_code", exitCode))
	_ = log.Sync()
	os.Exit(exitCode)
}
