/*
Package main is the entry point for the RouteShare server.

It is responsible for loading configuration, initializing the global logging system,
connecting to the database, wiring the realtime delivery gateway and the booking
workflow, setting up the HTTP server, and gracefully handling operating system
interrupt signals (SIGINT, SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"routeshare/internal/app/booking"
	"routeshare/internal/app/db"
	"routeshare/internal/app/journey"
	"routeshare/internal/app/message"
	"routeshare/internal/app/realtime"
	"routeshare/internal/app/storage"
	"routeshare/internal/app/user"
	"routeshare/internal/app/vehicle"
	"routeshare/internal/configs"
	"routeshare/internal/handler"
	"routeshare/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Dur("recovery_window", cfg.RecoveryWindow).
		Bool("recovery_skip_auth", cfg.RecoverySkipAuth).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database and run migrations
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to initialize database")
	}
	defer pool.Close()

	// Initialize object storage for avatars and vehicle photos
	storageService, err := storage.NewStorageService(storage.ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize storage service")
	}

	// Stores
	users := user.NewStore(pool)
	messages := message.NewStore(pool)
	journeys := journey.NewStore(pool)
	bookings := booking.NewStore(pool)
	vehicles := vehicle.NewStore(pool)

	// Realtime delivery gateway and the booking workflow emitting through it
	gateway := realtime.NewGateway(messages)
	bookingService := booking.NewService(bookings, journeys, gateway)

	// Setup HTTP server and routes
	deps := &handler.AppDeps{
		Gateway:        gateway,
		Config:         cfg,
		StorageService: storageService,
		Users:          users,
		Messages:       messages,
		Journeys:       journeys,
		Bookings:       bookings,
		BookingService: bookingService,
		Vehicles:       vehicles,
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("RouteShare server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
