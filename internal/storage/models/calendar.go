// Package models contains the domain models for the application.
package models

import (
	"time"
)

// CalendarFeed is a subscription to one external iCal feed (OTA calendar)
// associated with one unit.
type CalendarFeed struct {
	ID         string     `json:"id"`
	UnitID     string     `json:"unit_id"`
	Name       string     `json:"name"`
	URL        string     `json:"url"`
	Source     string     `json:"source"`
	IsActive   bool       `json:"is_active"`
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
	SyncStatus string     `json:"sync_status"`
	SyncError  *string    `json:"sync_error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Feed sync status constants. SyncStatus reflects only the outcome of the
// most recent sync attempt.
const (
	SyncStatusNeverSynced = "NEVER_SYNCED"
	SyncStatusSuccess     = "SUCCESS"
	SyncStatusError       = "ERROR"
)

// CalendarEvent is one blocked/booked range mirrored from a feed. The whole
// set for a feed is a derived cache, fully replaced on every successful sync.
// ExternalID keeps the source UID so a later pass could link events back to
// bookings; BookingID is that optional back-reference.
type CalendarEvent struct {
	ID          string    `json:"id"`
	FeedID      string    `json:"feed_id"`
	ExternalID  *string   `json:"external_id,omitempty"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	BookingID   *string   `json:"booking_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NormalizedEvent is a parsed VEVENT before persistence.
type NormalizedEvent struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	ExternalID  *string   `json:"external_id,omitempty"`
	Status      string    `json:"status"`
}

// FeedSyncResult contains the outcome of syncing a single feed.
type FeedSyncResult struct {
	FeedID        string    `json:"feed_id"`
	FeedName      string    `json:"feed_name"`
	Success       bool      `json:"success"`
	Skipped       bool      `json:"skipped"`
	EventsFound   int       `json:"events_found"`
	EventsCreated int       `json:"events_created"`
	Error         string    `json:"error,omitempty"`
	SyncedAt      time.Time `json:"synced_at"`
}

// BatchSyncResult aggregates the outcome of syncing all active feeds.
// Success is true only if every feed succeeded.
type BatchSyncResult struct {
	Success       bool             `json:"success"`
	TotalFeeds    int              `json:"total_feeds"`
	SuccessCount  int              `json:"success_count"`
	ErrorCount    int              `json:"error_count"`
	EventsCreated int              `json:"events_created"`
	Results       []FeedSyncResult `json:"results"`
}
