// Package main is a standalone batch runner that synchronizes every active
// calendar feed once and exits. Intended for cron or container jobs when the
// API server's built-in scheduler is not running.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/apartment-booking/backend/internal/calendar"
	"github.com/apartment-booking/backend/internal/config"
	"github.com/apartment-booking/backend/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall batch deadline")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := storage.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	feedRepo := storage.NewFeedRepository(db)
	eventRepo := storage.NewEventRepository(db)
	parser := calendar.NewParser(time.Duration(cfg.Sync.FetchTimeoutSec) * time.Second)
	syncService := calendar.NewSyncService(feedRepo, eventRepo, parser, cfg.Sync.Workers)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, syncService); err != nil {
		log.Fatalf("Batch sync aborted: %v", err)
	}
}

// run executes one batch sync. Per-feed failures are recorded on the feeds
// and logged here; only a failure to run the batch at all (e.g. the feed
// list query failing) is returned as an error and maps to a non-zero exit.
func run(ctx context.Context, syncService *calendar.SyncService) error {
	batch, err := syncService.SyncAll(ctx)
	if err != nil {
		return err
	}

	for _, result := range batch.Results {
		if result.Success {
			continue
		}
		log.Printf("Feed %s (%s) failed: %s", result.FeedName, result.FeedID, result.Error)
	}

	log.Printf("Synced %d/%d feeds, %d events created",
		batch.SuccessCount, batch.TotalFeeds, batch.EventsCreated)

	return nil
}
