package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"

	"voicebridge-backend/internal/billing"
	"voicebridge-backend/internal/calls"
	"voicebridge-backend/internal/config"
	"voicebridge-backend/internal/elders"
	"voicebridge-backend/internal/httpapi"
	"voicebridge-backend/internal/telephony"
	"voicebridge-backend/internal/transcripts"
	"voicebridge-backend/pkg/logger"
	"voicebridge-backend/pkg/utils"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	callsSvc := calls.NewService(calls.NewPostgresRepository(db))
	eldersRepo := elders.NewPostgresRepository(db)
	transcriptsRepo := transcripts.NewPostgresRepository(db)
	twilioClient := telephony.NewClient(cfg.Twilio)

	deps := routeDeps{
		Webhooks: telephony.WebhookHandler{
			Calls:              callsSvc,
			Transcripts:        transcriptsRepo,
			Client:             twilioClient,
			Redis:              rdb,
			MaxConcurrentCalls: 3,
			CountryCode:        cfg.Twilio.CountryCode,
		},
		Stripe: billing.WebhookHandler{
			Service:       billing.NewService(eldersRepo),
			WebhookSecret: cfg.Stripe.WebhookSecret,
		},
		API: httpapi.Handlers{
			Calls:  callsSvc,
			Elders: eldersRepo,
		},
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
