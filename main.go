package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quizdeck/quizdeck-be/internal/api"
	"github.com/quizdeck/quizdeck-be/internal/config"
	"github.com/quizdeck/quizdeck-be/internal/logger"
	"github.com/quizdeck/quizdeck-be/internal/monitoring"
	"github.com/quizdeck/quizdeck-be/internal/services"
	"github.com/quizdeck/quizdeck-be/internal/storage"
	"github.com/quizdeck/quizdeck-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	// Set up WebSocket Hub for the activity feed
	hub := websocket.NewHub()
	go hub.Run()

	// Set up the store and services
	store := storage.New(cfg.DataFile)
	eventService := services.NewEventService(hub)
	userService := services.NewUserService(store, eventService)
	log.Info().Int("users", userService.Count()).Str("file", cfg.DataFile).Msg("User collection loaded")

	// Set up and run the background snapshot scheduler
	snapshots, err := monitoring.NewSnapshotScheduler(cfg.DataFile, cfg.BackupDir, cfg.BackupCron)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize snapshot scheduler")
	}
	go snapshots.Run()

	// Set up router
	router := api.NewRouter(hub, userService, eventService, cfg.CORSOrigin)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	snapshots.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
