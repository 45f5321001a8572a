package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/bot"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/config"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/costs"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/projects"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/tracking"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/infra/charts"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/infra/db"
	httpx "github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/infra/http"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/infra/logger"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/report"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	projectsRepo := projects.NewRepo(pool)
	costsRepo := costs.NewRepo(pool)
	trackingRepo := tracking.NewRepo(pool)

	chartClient := charts.New(cfg.Charts.BaseURL, cfg.Charts.Timeout, log)
	builder := report.NewBuilder(projectsRepo, costsRepo, trackingRepo)
	handlers := httpx.NewHandlers(builder, chartClient, projectsRepo, costsRepo, trackingRepo, log)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, handlers)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	if cfg.Telegram.Enabled {
		api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			log.Error("telegram init failed", "err", err)
			return
		}
		b := bot.New(api, builder, chartClient, log)
		go func() {
			if err := b.Run(ctx, 30); err != nil && ctx.Err() == nil {
				log.Error("bot stopped", "err", err)
			}
		}()
		log.Info("telegram bot started", "username", api.Self.UserName)
	}

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
