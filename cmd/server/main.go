package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"alcyxob/gym-admin/internal/api"
	"alcyxob/gym-admin/internal/app"
	"alcyxob/gym-admin/internal/config"
	"alcyxob/gym-admin/internal/ratelimit"
)

// @title Gym Admin API
// @version 1.0
// @description Members, monthly payments, exercise catalog and versioned workout routines.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load config")
	}
	app.SetupLogger(cfg.App)
	log.Info().Str("env", cfg.App.Env).Str("driver", cfg.Database.Driver).Msg("Starting Gym Admin server")

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	defer cancelStartup()

	// --- Database Connection ---
	repos, closeDB, err := app.OpenRepositories(startupCtx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not open repositories")
	}
	defer closeDB()

	// --- Initialize Storage ---
	fileStorage, err := app.OpenStorage(startupCtx, cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
	}

	// --- Login throttling ---
	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.LoginAttempts, cfg.RateLimit.Window)
	if cfg.Redis.URL != "" {
		rdb, err := ratelimit.NewRedis(startupCtx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not connect to Redis")
		}
		defer rdb.Close()
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.LoginAttempts, cfg.RateLimit.Window)
		log.Info().Msg("Login throttling backed by Redis")
	}

	// --- Initialize Services ---
	services, err := app.NewServices(cfg, repos, fileStorage)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not initialize services")
	}

	// --- Initialize Gin Engine ---
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Services{
		Auth:     services.Auth,
		Members:  services.Members,
		Payments: services.Payments,
		Exercise: services.Exercise,
		Routines: services.Routines,
		Clients:  services.Clients,
		Export:   services.Export,
	}, limiter, api.CookieSettings{
		Name:   cfg.ClientSession.CookieName,
		Secure: cfg.ClientSession.Secure,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe error")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exiting")
}
