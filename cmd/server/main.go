package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/lanexam/backend/internal/config"
	"github.com/lanexam/backend/internal/handler"
	"github.com/lanexam/backend/internal/kvstore"
	"github.com/lanexam/backend/internal/logger"
	"github.com/lanexam/backend/internal/repository"
	"github.com/lanexam/backend/internal/router"
	"github.com/lanexam/backend/internal/service"
	"github.com/lanexam/backend/internal/validator"
	"github.com/lanexam/backend/internal/ws"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	zlog.Logger = log
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreBackend).
		Msg("Starting LAN exam backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Store ────────────────────────────────────────────────────
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to open store")
	}
	defer store.Close()

	// ─── Initialize Services ───────────────────────────────────────────
	hub := ws.NewHub()

	authService := service.NewAuthService(cfg)
	sessionService := service.NewSessionService(cfg, hub, store)
	claimService := service.NewClaimService(sessionService)
	resultService := service.NewResultService(sessionService)
	reportService := service.NewReportService(sessionService, repository.NewReportRepository(store))
	classService := service.NewClassService(sessionService)
	examService := service.NewExamService(sessionService)

	// Dropped websocket connections release their identity claims.
	hub.SetOnClose(func(connectionID string) {
		claimService.Disconnect(context.Background(), connectionID)
	})
	go hub.Run()

	// ─── Restore Session State ─────────────────────────────────────────
	// Load the persisted partition BEFORE accepting traffic so reconnecting
	// clients see their claims and results exactly as they left them.
	if err := sessionService.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to restore session state")
	}

	// ─── Initialize Handlers ───────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Session: handler.NewSessionHandler(sessionService),
		Student: handler.NewStudentHandler(claimService, resultService),
		Exam:    handler.NewExamHandler(sessionService, examService),
		Result:  handler.NewResultHandler(resultService),
		Report:  handler.NewReportHandler(reportService),
		Class:   handler.NewClassHandler(classService),
		WS:      handler.NewWSHandler(hub, claimService, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// openStore builds the kvstore backend named by STORE_BACKEND.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (kvstore.Store, error) {
	switch cfg.StoreBackend {
	case "file", "":
		return kvstore.NewFileStore(cfg.DataDir, log)
	case "redis":
		return kvstore.NewRedisStore(ctx, cfg.RedisURL, log)
	case "postgres":
		return kvstore.NewPGStore(ctx, cfg.DatabaseURL, 8, log)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
