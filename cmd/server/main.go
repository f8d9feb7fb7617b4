package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mintreplica/mintlite/internal/app"
	"github.com/mintreplica/mintlite/internal/config"
	"github.com/mintreplica/mintlite/internal/logger"
	"github.com/mintreplica/mintlite/internal/routes"
)

func main() {
	cfg := config.Load()

	logger.Init(logger.Options{
		AppName:   cfg.AppName,
		AppEnv:    cfg.AppEnv,
		IsDev:     cfg.IsDevelopment(),
		SentryDSN: cfg.SentryDSN,
	})
	defer logger.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		logger.Flush()
		os.Exit(1)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	handler, limiter := routes.SetupRoutes(app)
	defer limiter.Stop()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.Scheduler.Start(ctx)
	}()

	// SIGHUP runs the scheduled job now instead of waiting for the next tick
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				app.Scheduler.Notify()
			}
		}
	}()

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", "http://localhost:"+cfg.Port)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	// Wait for a running scheduler pass before the database closes
	wg.Wait()
	slog.Info("server exited")
}
