package models

import "time"

// Booking statuses. Cancellation is terminal: a CANCELLED booking never
// transitions again and is excluded from all overlap checks.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
)

// Booking origin channels.
const (
	BookingSourceDirect = "DIRECT"
)

// Booking is a guest reservation of a unit for a half-open date range
// [CheckIn, CheckOut). TotalPrice and CleaningFee are snapshots taken when
// the booking was created.
type Booking struct {
	ID          string     `json:"id"`
	UnitID      string     `json:"unit_id"`
	GuestID     string     `json:"guest_id"`
	CheckIn     time.Time  `json:"check_in"`
	CheckOut    time.Time  `json:"check_out"`
	NumGuests   int        `json:"num_guests"`
	Status      string     `json:"status"`
	TotalPrice  float64    `json:"total_price"`
	CleaningFee float64    `json:"cleaning_fee"`
	GuestNotes  *string    `json:"guest_notes,omitempty"`
	Source      string     `json:"source"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsActive reports whether the booking blocks its date range.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}
