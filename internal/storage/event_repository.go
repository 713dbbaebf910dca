package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/apartment-booking/backend/internal/storage/models"
)

// EventRepository provides data access for the per-feed mirrored event cache.
type EventRepository struct {
	BaseRepository
}

// NewEventRepository creates a new calendar event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{BaseRepository: NewBaseRepository(db)}
}

// ReplaceForFeed atomically replaces a feed's entire event set with the
// given parsed events. The delete and inserts run in one transaction so a
// reader never observes a mix of old and new events. Individual insert
// failures are logged and skipped; they do not abort the replacement.
// Returns the number of events actually persisted.
func (r *EventRepository) ReplaceForFeed(ctx context.Context, feedID string, events []models.NormalizedEvent) (int, error) {
	created := 0

	err := r.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM calendar_events WHERE feed_id = ?", feedID); err != nil {
			return fmt.Errorf("deleting old events: %w", err)
		}

		now := r.Now()
		for _, ev := range events {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO calendar_events (
					id, feed_id, external_id, summary, description, start_date, end_date, created_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`,
				GenerateID(), feedID, ev.ExternalID, ev.Summary, ev.Description,
				ev.StartDate, ev.EndDate, now,
			)
			if err != nil {
				log.Printf("Skipping event for feed %s: %v", feedID, err)
				continue
			}
			created++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}

// ListByFeed retrieves all events mirrored from a feed, ordered by start date.
func (r *EventRepository) ListByFeed(ctx context.Context, feedID string) ([]models.CalendarEvent, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, feed_id, external_id, summary, description, start_date, end_date, booking_id, created_at
		FROM calendar_events
		WHERE feed_id = ?
		ORDER BY start_date
	`, feedID)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []models.CalendarEvent
	for rows.Next() {
		var ev models.CalendarEvent
		if err := rows.Scan(
			&ev.ID, &ev.FeedID, &ev.ExternalID, &ev.Summary, &ev.Description,
			&ev.StartDate, &ev.EndDate, &ev.BookingID, &ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

// CountByFeed returns the number of mirrored events for a feed.
func (r *EventRepository) CountByFeed(ctx context.Context, feedID string) (int, error) {
	var count int
	err := r.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM calendar_events WHERE feed_id = ?", feedID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return count, nil
}
