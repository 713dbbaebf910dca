package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/apartment-booking/backend/internal/storage/models"
)

// BookingRepository provides data access for bookings.
type BookingRepository struct {
	BaseRepository
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{BaseRepository: NewBaseRepository(db)}
}

const bookingColumns = `id, unit_id, guest_id, check_in, check_out, num_guests,
	status, total_price, cleaning_fee, guest_notes, source, cancelled_at,
	created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }, b *models.Booking) error {
	return row.Scan(
		&b.ID, &b.UnitID, &b.GuestID, &b.CheckIn, &b.CheckOut, &b.NumGuests,
		&b.Status, &b.TotalPrice, &b.CleaningFee, &b.GuestNotes, &b.Source,
		&b.CancelledAt, &b.CreatedAt, &b.UpdatedAt,
	)
}

// Create inserts a new booking.
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	if b.ID == "" {
		b.ID = GenerateID()
	}
	b.CreatedAt = r.Now()
	b.UpdatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO bookings (
			id, unit_id, guest_id, check_in, check_out, num_guests,
			status, total_price, cleaning_fee, guest_notes, source,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.ID, b.UnitID, b.GuestID, b.CheckIn, b.CheckOut, b.NumGuests,
		b.Status, b.TotalPrice, b.CleaningFee, b.GuestNotes, b.Source,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by its ID. Returns nil when no booking exists.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b := &models.Booking{}

	err := scanBooking(r.DB().QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id), b)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying booking: %w", err)
	}

	return b, nil
}

// ListActiveByUnit retrieves all PENDING/CONFIRMED bookings for a unit.
// Cancelled bookings never participate in availability checks.
func (r *BookingRepository) ListActiveByUnit(ctx context.Context, unitID string) ([]models.Booking, error) {
	return r.list(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE unit_id = ? AND status IN ('PENDING', 'CONFIRMED')
		ORDER BY check_in
	`, unitID)
}

// ListByGuest retrieves all bookings made by a guest, newest first.
func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]models.Booking, error) {
	return r.list(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE guest_id = ? ORDER BY created_at DESC
	`, guestID)
}

// List retrieves all bookings, newest first, optionally filtered by status.
func (r *BookingRepository) List(ctx context.Context, status string) ([]models.Booking, error) {
	if status != "" {
		return r.list(ctx, `
			SELECT `+bookingColumns+` FROM bookings
			WHERE status = ? ORDER BY created_at DESC
		`, status)
	}
	return r.list(ctx, "SELECT "+bookingColumns+" FROM bookings ORDER BY created_at DESC")
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// UpdateStatus sets a booking's status.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.DB().ExecContext(ctx, `
		UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?
	`, status, r.Now(), id)
	if err != nil {
		return fmt.Errorf("updating booking status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("booking not found: %s", id)
	}

	return nil
}

// MarkCancelled transitions a booking to CANCELLED and stamps the
// cancellation time.
func (r *BookingRepository) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	result, err := r.DB().ExecContext(ctx, `
		UPDATE bookings SET status = ?, cancelled_at = ?, updated_at = ? WHERE id = ?
	`, models.BookingStatusCancelled, at, r.Now(), id)
	if err != nil {
		return fmt.Errorf("cancelling booking: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("booking not found: %s", id)
	}

	return nil
}
