// Package main is the entry point for the apartment booking API server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apartment-booking/backend/internal/api"
	"github.com/apartment-booking/backend/internal/booking"
	"github.com/apartment-booking/backend/internal/calendar"
	"github.com/apartment-booking/backend/internal/config"
	"github.com/apartment-booking/backend/internal/storage"
	"github.com/apartment-booking/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to YAML config file")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(cfg.Listen); err != nil {
			log.Fatalf("Health check failed: %v", err)
		}
		os.Exit(0)
	}

	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	log.Printf("Starting apartment booking server (version: %s)...", version)

	// Initialize database
	db, err := storage.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations complete")

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	unitRepo := storage.NewUnitRepository(db)
	bookingRepo := storage.NewBookingRepository(db)
	feedRepo := storage.NewFeedRepository(db)
	eventRepo := storage.NewEventRepository(db)

	// Initialize engine services
	bookingService := booking.NewService(unitRepo, bookingRepo)
	parser := calendar.NewParser(time.Duration(cfg.Sync.FetchTimeoutSec) * time.Second)
	syncService := calendar.NewSyncService(feedRepo, eventRepo, parser, cfg.Sync.Workers)
	exporter := calendar.NewExporter(unitRepo, bookingRepo)

	// Initialize and start the sync scheduler
	scheduler := calendar.NewScheduler(syncService, hub, cfg.Sync.IntervalMin)
	if err := scheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start sync scheduler: %v", err)
	}

	// Initialize HTTP router with services
	router := api.NewRouter(db, hub, cfg.StaticDir, api.Services{
		Bookings:    bookingService,
		BookingRepo: bookingRepo,
		Units:       unitRepo,
		Feeds:       feedRepo,
		Events:      eventRepo,
		Sync:        syncService,
		Scheduler:   scheduler,
		Exporter:    exporter,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		log.Printf("Server listening on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop the scheduler, waiting for a running batch
	scheduler.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	url := "http://localhost" + addr + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return http.ErrAbortHandler
	}
	return nil
}
