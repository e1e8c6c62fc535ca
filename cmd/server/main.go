package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental-backend/internal/config"
	"rental-backend/internal/database"
	"rental-backend/internal/logger"
	"rental-backend/internal/ratelimit"
	"rental-backend/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg := config.Load()
	log := logger.New("rentals-api", cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	db, err := database.Open(cfg, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx := context.Background()
	if err := database.SeedDefaultAdmin(ctx, db, cfg, log); err != nil {
		return err
	}
	if cfg.SeedDemo {
		if err := database.SeedDemoData(ctx, db, log); err != nil {
			return err
		}
	}

	limiter := newLimiter(cfg, log)
	defer limiter.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &http.Server{
		Addr: fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: server.NewRouter(server.Deps{
			Config:   cfg,
			Log:      log,
			DB:       db,
			Limiter:  limiter,
			Registry: reg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", srv.Addr, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLimiter(cfg *config.Config, log *slog.Logger) ratelimit.Limiter {
	if cfg.RedisAddr == "" {
		return ratelimit.NewMemory()
	}
	l, err := ratelimit.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil {
		log.Warn("redis unavailable, using in-memory rate limiter", "addr", cfg.RedisAddr, "error", err)
		return ratelimit.NewMemory()
	}
	return l
}
