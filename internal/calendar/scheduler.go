package calendar

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/apartment-booking/backend/internal/websocket"
)

// Scheduler runs the batch sync on a fixed interval and exposes a manual
// trigger path for single feeds.
type Scheduler struct {
	cron        *cron.Cron
	syncService *SyncService
	broadcaster *websocket.EventBroadcaster
	interval    time.Duration
}

// NewScheduler creates a new sync scheduler. hub may be nil when no realtime
// clients are wired (e.g. the standalone batch binary).
func NewScheduler(syncService *SyncService, hub *websocket.Hub, intervalMin int) *Scheduler {
	if intervalMin <= 0 {
		intervalMin = 15
	}

	var broadcaster *websocket.EventBroadcaster
	if hub != nil {
		broadcaster = websocket.NewEventBroadcaster(hub)
	}

	return &Scheduler{
		cron:        cron.New(),
		syncService: syncService,
		broadcaster: broadcaster,
		interval:    time.Duration(intervalMin) * time.Minute,
	}
}

// Start begins periodic batch syncs.
func (s *Scheduler) Start() error {
	spec := "@every " + s.interval.String()
	if _, err := s.cron.AddFunc(spec, s.runBatch); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("Calendar sync scheduler started (interval: %s)", s.interval)
	return nil
}

// Stop gracefully shuts down the scheduler, waiting for a running batch.
func (s *Scheduler) Stop() {
	log.Println("Stopping calendar sync scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Calendar sync scheduler stopped")
}

// TriggerFeed starts an immediate background sync of one feed.
func (s *Scheduler) TriggerFeed(feedID string) {
	go func() {
		result, err := s.syncService.SyncFeed(context.Background(), feedID)
		if err != nil {
			log.Printf("Manual feed sync failed for %s: %v", feedID, err)
			if s.broadcaster != nil {
				name := feedID
				if result != nil {
					name = result.FeedName
				}
				s.broadcaster.BroadcastFeedSyncError(feedID, name, err.Error())
			}
			return
		}
		if s.broadcaster != nil {
			s.broadcaster.BroadcastFeedSyncCompleted(*result)
		}
	}()
}

// runBatch performs one scheduled batch sync.
func (s *Scheduler) runBatch() {
	batch, err := s.syncService.SyncAll(context.Background())
	if err != nil {
		log.Printf("Scheduled batch sync failed: %v", err)
		return
	}

	if s.broadcaster == nil {
		return
	}
	for _, result := range batch.Results {
		if result.Success {
			s.broadcaster.BroadcastFeedSyncCompleted(result)
		} else {
			s.broadcaster.BroadcastFeedSyncError(result.FeedID, result.FeedName, result.Error)
		}
	}
}
