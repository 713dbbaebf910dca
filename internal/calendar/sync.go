package calendar

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/apartment-booking/backend/internal/storage/models"
)

// FeedRepository is the feed persistence collaborator of the orchestrator.
type FeedRepository interface {
	GetByID(ctx context.Context, id string) (*models.CalendarFeed, error)
	ListActive(ctx context.Context) ([]models.CalendarFeed, error)
	UpdateSyncStatus(ctx context.Context, id, status string, syncError *string) error
}

// EventRepository replaces a feed's mirrored event set.
type EventRepository interface {
	ReplaceForFeed(ctx context.Context, feedID string, events []models.NormalizedEvent) (int, error)
}

// SyncService drives per-feed ingestion (fetch, parse, reconcile) and
// batch-level aggregation across all active feeds.
type SyncService struct {
	feeds   FeedRepository
	events  EventRepository
	parser  *Parser
	workers int

	// inFlight guards each feed against syncing concurrently with itself.
	// Syncs of different feeds are fully independent.
	inFlight   map[string]bool
	inFlightMu sync.Mutex
}

// NewSyncService creates a new sync orchestrator. workers bounds how many
// feeds a batch sync processes concurrently.
func NewSyncService(feeds FeedRepository, events EventRepository, parser *Parser, workers int) *SyncService {
	if workers <= 0 {
		workers = 4
	}
	return &SyncService{
		feeds:    feeds,
		events:   events,
		parser:   parser,
		workers:  workers,
		inFlight: make(map[string]bool),
	}
}

func (s *SyncService) acquire(feedID string) bool {
	s.inFlightMu.Lock()
	defer s.inFlightMu.Unlock()
	if s.inFlight[feedID] {
		return false
	}
	s.inFlight[feedID] = true
	return true
}

func (s *SyncService) release(feedID string) {
	s.inFlightMu.Lock()
	delete(s.inFlight, feedID)
	s.inFlightMu.Unlock()
}

// SyncFeed synchronizes a single feed: fetch, parse, then full-replace
// reconciliation of the feed's mirrored events. The fetch happens before any
// mutation, so a fetch or parse failure leaves the existing event set
// untouched. The feed's sync status always reflects this attempt.
func (s *SyncService) SyncFeed(ctx context.Context, feedID string) (*models.FeedSyncResult, error) {
	feed, err := s.feeds.GetByID(ctx, feedID)
	if err != nil {
		return nil, fmt.Errorf("loading feed: %w", err)
	}
	if feed == nil {
		return nil, ErrFeedNotFound
	}

	result := &models.FeedSyncResult{
		FeedID:   feed.ID,
		FeedName: feed.Name,
		SyncedAt: time.Now().UTC(),
	}

	if !feed.IsActive {
		log.Printf("Feed is inactive, skipping: %s", feed.Name)
		result.Success = true
		result.Skipped = true
		return result, nil
	}

	if !s.acquire(feed.ID) {
		return nil, ErrSyncInProgress
	}
	defer s.release(feed.ID)

	events, err := s.parser.FetchAndParse(ctx, feed.URL)
	if err != nil {
		s.markError(ctx, feed.ID, err)
		result.Error = err.Error()
		return result, err
	}

	result.EventsFound = len(events)

	created, err := s.events.ReplaceForFeed(ctx, feed.ID, events)
	if err != nil {
		s.markError(ctx, feed.ID, err)
		result.Error = err.Error()
		return result, fmt.Errorf("reconciling events: %w", err)
	}
	result.EventsCreated = created

	if err := s.feeds.UpdateSyncStatus(ctx, feed.ID, models.SyncStatusSuccess, nil); err != nil {
		log.Printf("Failed to update sync status for feed %s: %v", feed.ID, err)
	}

	result.Success = true
	log.Printf("Feed synced: %s (%d events found, %d created)", feed.Name, result.EventsFound, created)
	return result, nil
}

func (s *SyncService) markError(ctx context.Context, feedID string, syncErr error) {
	msg := syncErr.Error()
	if err := s.feeds.UpdateSyncStatus(ctx, feedID, models.SyncStatusError, &msg); err != nil {
		log.Printf("Failed to record sync error for feed %s: %v", feedID, err)
	}
}

// SyncAll synchronizes every active feed through a bounded worker pool.
// One feed's failure is recorded in its own result entry and never stops the
// others; only a repository failure while listing feeds aborts the batch.
// Reconciliation is full-replace, so re-running against unchanged remotes is
// idempotent.
func (s *SyncService) SyncAll(ctx context.Context) (*models.BatchSyncResult, error) {
	feeds, err := s.feeds.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active feeds: %w", err)
	}

	batch := &models.BatchSyncResult{
		TotalFeeds: len(feeds),
		Results:    make([]models.FeedSyncResult, len(feeds)),
	}

	if len(feeds) == 0 {
		batch.Success = true
		return batch, nil
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)

	for i, feed := range feeds {
		wg.Add(1)
		go func(i int, feed models.CalendarFeed) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := s.SyncFeed(ctx, feed.ID)
			if err != nil {
				log.Printf("Feed sync failed for %s: %v", feed.Name, err)
				if result == nil {
					result = &models.FeedSyncResult{
						FeedID:   feed.ID,
						FeedName: feed.Name,
						Error:    err.Error(),
						SyncedAt: time.Now().UTC(),
					}
				}
			}
			batch.Results[i] = *result
		}(i, feed)
	}

	wg.Wait()

	for _, r := range batch.Results {
		if r.Success {
			batch.SuccessCount++
			batch.EventsCreated += r.EventsCreated
		} else {
			batch.ErrorCount++
		}
	}
	batch.Success = batch.ErrorCount == 0

	log.Printf("Batch sync complete: %d feeds, %d succeeded, %d failed, %d events created",
		batch.TotalFeeds, batch.SuccessCount, batch.ErrorCount, batch.EventsCreated)

	return batch, nil
}
