package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blockedby/interview-list/internal/auth"
	"github.com/blockedby/interview-list/internal/config"
	"github.com/blockedby/interview-list/internal/database"
	"github.com/blockedby/interview-list/internal/events"
	"github.com/blockedby/interview-list/internal/logger"
	"github.com/blockedby/interview-list/internal/migrator"
	"github.com/blockedby/interview-list/internal/nats"
	"github.com/blockedby/interview-list/internal/repository"
	"github.com/blockedby/interview-list/internal/web"
	"github.com/blockedby/interview-list/internal/web/handlers"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// 2. Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()

	if args := os.Args[1:]; isAdminCommand(args) {
		if err := runAdmin(context.Background(), cfg, log, args, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("admin command failed")
		}
		return
	}

	if err := cfg.ValidateServer(); err != nil {
		log.Fatal().Err(err).Msg("invalid server config")
	}

	log.Info().Msg("starting interview-list server")

	// 3. Setup context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 4. Migrate and connect to database
	if err := migrator.New(log).Up(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// 5. Repositories and auth
	usersRepo := repository.NewUsersRepository(db.GORM, log)
	docsRepo := repository.NewDocumentsRepository(db.Pool, log)

	tokens, err := auth.NewTokenMaker(cfg.JWTSecret, time.Duration(cfg.TokenTTLMin)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid auth config")
	}
	authSvc := auth.NewService(usersRepo, tokens, log)

	// 6. WebSocket hub and change feed
	hub := web.NewHub()
	go hub.Run()

	relay := events.NewRelay(hub, log)
	var publisher events.Publisher = relay

	nc, err := nats.New(ctx, cfg.NatsURL)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to nats, broadcasting locally")
	} else {
		defer nc.Close()
		if err := nc.EnsureStream(ctx, events.StreamName, []string{events.SubjectChanged}); err != nil {
			log.Warn().Err(err).Msg("failed to ensure stream")
		}
		stop, err := nc.Listen(events.SubjectChanged, relay.Handle)
		if err != nil {
			log.Warn().Err(err).Msg("failed to subscribe to changes, broadcasting locally")
		} else {
			defer func() { _ = stop() }()
			publisher = events.NewNATSPublisher(nc)
		}
	}

	// 7. Server and handlers
	server := web.NewServer(&web.Config{
		Port:           cfg.HTTPPort,
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: cfg.CORSOrigins,
	}, authSvc, hub)

	limiter := web.NewRateLimiter(cfg.AuthRatePerSec, cfg.AuthRateBurst)
	server.RegisterAuthHandler(handlers.NewAuthHandler(authSvc, log), limiter)
	server.RegisterDocumentsHandler(handlers.NewDocumentsHandler(docsRepo, publisher, log))
	server.SetupSPAFallback()

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Cleanup(30 * time.Minute)
			}
		}
	}()

	// 8. Start server
	log.Info().Int("port", cfg.HTTPPort).Msg("starting web server")
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	// 9. Wait for shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	log.Info().Msg("shutdown complete")
}
