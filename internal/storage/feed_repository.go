package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/apartment-booking/backend/internal/storage/models"
)

// FeedRepository provides data access for calendar feed subscriptions.
type FeedRepository struct {
	BaseRepository
}

// NewFeedRepository creates a new calendar feed repository.
func NewFeedRepository(db *DB) *FeedRepository {
	return &FeedRepository{BaseRepository: NewBaseRepository(db)}
}

const feedColumns = `id, unit_id, name, url, source, is_active, last_sync_at,
	sync_status, sync_error, created_at, updated_at`

func scanFeed(row interface{ Scan(...any) error }, f *models.CalendarFeed) error {
	return row.Scan(
		&f.ID, &f.UnitID, &f.Name, &f.URL, &f.Source, &f.IsActive,
		&f.LastSyncAt, &f.SyncStatus, &f.SyncError, &f.CreatedAt, &f.UpdatedAt,
	)
}

// Create inserts a new calendar feed.
func (r *FeedRepository) Create(ctx context.Context, feed *models.CalendarFeed) error {
	if feed.ID == "" {
		feed.ID = GenerateID()
	}
	feed.CreatedAt = r.Now()
	feed.UpdatedAt = r.Now()
	feed.SyncStatus = models.SyncStatusNeverSynced

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO calendar_feeds (
			id, unit_id, name, url, source, is_active, sync_status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		feed.ID, feed.UnitID, feed.Name, feed.URL, feed.Source,
		feed.IsActive, feed.SyncStatus, feed.CreatedAt, feed.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting feed: %w", err)
	}

	return nil
}

// GetByID retrieves a feed by its ID. Returns nil when no feed exists.
func (r *FeedRepository) GetByID(ctx context.Context, id string) (*models.CalendarFeed, error) {
	feed := &models.CalendarFeed{}

	err := scanFeed(r.DB().QueryRowContext(ctx,
		"SELECT "+feedColumns+" FROM calendar_feeds WHERE id = ?", id), feed)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying feed: %w", err)
	}

	return feed, nil
}

// List retrieves all feeds, optionally filtered by unit.
func (r *FeedRepository) List(ctx context.Context, unitID string) ([]models.CalendarFeed, error) {
	query := "SELECT " + feedColumns + " FROM calendar_feeds ORDER BY created_at DESC"
	args := []any{}
	if unitID != "" {
		query = "SELECT " + feedColumns + " FROM calendar_feeds WHERE unit_id = ? ORDER BY created_at DESC"
		args = append(args, unitID)
	}

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying feeds: %w", err)
	}
	defer rows.Close()

	var feeds []models.CalendarFeed
	for rows.Next() {
		var feed models.CalendarFeed
		if err := scanFeed(rows, &feed); err != nil {
			return nil, fmt.Errorf("scanning feed: %w", err)
		}
		feeds = append(feeds, feed)
	}

	return feeds, rows.Err()
}

// ListActive retrieves all active feeds, least recently synced first.
func (r *FeedRepository) ListActive(ctx context.Context) ([]models.CalendarFeed, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+feedColumns+` FROM calendar_feeds
		WHERE is_active = 1
		ORDER BY last_sync_at ASC NULLS FIRST
	`)
	if err != nil {
		return nil, fmt.Errorf("querying active feeds: %w", err)
	}
	defer rows.Close()

	var feeds []models.CalendarFeed
	for rows.Next() {
		var feed models.CalendarFeed
		if err := scanFeed(rows, &feed); err != nil {
			return nil, fmt.Errorf("scanning feed: %w", err)
		}
		feeds = append(feeds, feed)
	}

	return feeds, rows.Err()
}

// Update updates a feed's owner-editable fields.
func (r *FeedRepository) Update(ctx context.Context, feed *models.CalendarFeed) error {
	feed.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE calendar_feeds SET
			name = ?, url = ?, source = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`, feed.Name, feed.URL, feed.Source, feed.IsActive, feed.UpdatedAt, feed.ID)
	if err != nil {
		return fmt.Errorf("updating feed: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("feed not found: %s", feed.ID)
	}

	return nil
}

// UpdateSyncStatus records the outcome of the most recent sync attempt.
// lastSyncAt is always stamped so the feed reflects the latest attempt,
// success or not.
func (r *FeedRepository) UpdateSyncStatus(ctx context.Context, id, status string, syncError *string) error {
	now := time.Now().UTC()

	_, err := r.DB().ExecContext(ctx, `
		UPDATE calendar_feeds SET
			sync_status = ?, sync_error = ?, last_sync_at = ?, updated_at = ?
		WHERE id = ?
	`, status, syncError, now, now, id)
	if err != nil {
		return fmt.Errorf("updating sync status: %w", err)
	}

	return nil
}

// Delete removes a feed by ID. Its mirrored events cascade.
func (r *FeedRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM calendar_feeds WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting feed: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("feed not found: %s", id)
	}

	return nil
}
