// Package booking implements the availability engine: it validates and
// prices booking requests against a unit's existing reservations and handles
// cancellation.
package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/apartment-booking/backend/internal/interval"
	"github.com/apartment-booking/backend/internal/storage/models"
)

// UnitReader reads unit records. Units are read-only input to the engine.
type UnitReader interface {
	GetByID(ctx context.Context, id string) (*models.Unit, error)
}

// BookingRepository persists bookings and reads them back for conflict
// checks.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListActiveByUnit(ctx context.Context, unitID string) ([]models.Booking, error)
	Create(ctx context.Context, b *models.Booking) error
	MarkCancelled(ctx context.Context, id string, at time.Time) error
}

// Actor identifies the caller of a booking operation.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// RequestInput carries a booking request.
type RequestInput struct {
	UnitID     string
	GuestID    string
	CheckIn    time.Time
	CheckOut   time.Time
	NumGuests  int
	GuestNotes *string
}

// Service is the availability engine.
type Service struct {
	units    UnitReader
	bookings BookingRepository

	// unitLocks serializes the conflict-check-then-insert sequence per unit
	// so two overlapping requests for the same unit cannot both succeed.
	// Requests for different units never contend.
	unitLocks sync.Map // unitID -> *sync.Mutex

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates a new availability engine.
func NewService(units UnitReader, bookings BookingRepository) *Service {
	return &Service{
		units:    units,
		bookings: bookings,
		now:      time.Now,
	}
}

func (s *Service) lockUnit(unitID string) *sync.Mutex {
	mu, _ := s.unitLocks.LoadOrStore(unitID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Request validates, prices and persists a new booking. Preconditions are
// checked in order, each short-circuiting with its own error kind: unit
// exists, capacity, range validity, past date, then the overlap check
// against every active booking of the unit.
func (s *Service) Request(ctx context.Context, in RequestInput) (*models.Booking, error) {
	unit, err := s.units.GetByID(ctx, in.UnitID)
	if err != nil {
		return nil, fmt.Errorf("loading unit: %w", err)
	}
	if unit == nil {
		return nil, newError(KindNotFound, "unit not found: %s", in.UnitID)
	}

	if in.NumGuests > unit.MaxGuests {
		return nil, newError(KindCapacityExceeded, "maximum %d guests allowed", unit.MaxGuests)
	}

	stay := interval.New(in.CheckIn, in.CheckOut)
	if !stay.Valid() {
		return nil, newError(KindInvalidRange, "check-out date must be after check-in date")
	}

	if stay.Start.Before(interval.Day(s.now())) {
		return nil, newError(KindPastDate, "check-in date cannot be in the past")
	}

	// The conflict check and insert are one logical unit of work.
	mu := s.lockUnit(in.UnitID)
	mu.Lock()
	defer mu.Unlock()

	active, err := s.bookings.ListActiveByUnit(ctx, in.UnitID)
	if err != nil {
		return nil, fmt.Errorf("listing active bookings: %w", err)
	}

	for _, existing := range active {
		if stay.Overlaps(interval.New(existing.CheckIn, existing.CheckOut)) {
			return nil, newError(KindDateConflict, "unit is not available for the selected dates")
		}
	}

	nights := stay.Nights()
	b := &models.Booking{
		UnitID:      in.UnitID,
		GuestID:     in.GuestID,
		CheckIn:     stay.Start,
		CheckOut:    stay.End,
		NumGuests:   in.NumGuests,
		Status:      models.BookingStatusPending,
		TotalPrice:  float64(nights)*unit.BasePrice + unit.CleaningFee,
		CleaningFee: unit.CleaningFee,
		GuestNotes:  in.GuestNotes,
		Source:      models.BookingSourceDirect,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("creating booking: %w", err)
	}

	return b, nil
}

// Cancel transitions a booking to CANCELLED. Only the original guest or an
// admin may cancel, and cancellation is terminal.
func (s *Service) Cancel(ctx context.Context, bookingID string, actor Actor) (*models.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("loading booking: %w", err)
	}
	if b == nil {
		return nil, newError(KindNotFound, "booking not found: %s", bookingID)
	}

	if b.GuestID != actor.UserID && !actor.IsAdmin {
		return nil, newError(KindForbidden, "not authorized to cancel this booking")
	}

	if b.Status == models.BookingStatusCancelled {
		return nil, newError(KindAlreadyCancelled, "booking is already cancelled")
	}

	cancelledAt := s.now().UTC()
	if err := s.bookings.MarkCancelled(ctx, bookingID, cancelledAt); err != nil {
		return nil, fmt.Errorf("cancelling booking: %w", err)
	}

	b.Status = models.BookingStatusCancelled
	b.CancelledAt = &cancelledAt
	return b, nil
}
