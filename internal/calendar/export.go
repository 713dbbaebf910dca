package calendar

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/apartment-booking/backend/internal/storage/models"
)

// prodID identifies this system in exported calendars.
const prodID = "-//Apartment Booking//Calendar//EN"

// UnitReader reads the unit and its property for export summaries.
type UnitReader interface {
	GetByID(ctx context.Context, id string) (*models.Unit, error)
	GetProperty(ctx context.Context, id string) (*models.Property, error)
}

// BookingLister reads the active bookings of a unit.
type BookingLister interface {
	ListActiveByUnit(ctx context.Context, unitID string) ([]models.Booking, error)
}

// Exporter serializes a unit's PENDING/CONFIRMED bookings into an iCal
// document so external platforms can subscribe to internal availability.
type Exporter struct {
	units    UnitReader
	bookings BookingLister
}

// NewExporter creates a new calendar exporter.
func NewExporter(units UnitReader, bookings BookingLister) *Exporter {
	return &Exporter{units: units, bookings: bookings}
}

// ExportUnit produces an RFC 5545 document with one VEVENT per active
// booking of the unit. The VEVENT UID is the booking ID, so re-exporting an
// unchanged booking yields a stable event block. Dates are emitted as
// date-only values; cancelled bookings are never exported.
func (e *Exporter) ExportUnit(ctx context.Context, unitID string) (string, error) {
	unit, err := e.units.GetByID(ctx, unitID)
	if err != nil {
		return "", fmt.Errorf("loading unit: %w", err)
	}
	if unit == nil {
		return "", ErrUnitNotFound
	}

	propertyName := unit.Name
	if prop, err := e.units.GetProperty(ctx, unit.PropertyID); err == nil && prop != nil {
		propertyName = prop.Name
	}

	bookings, err := e.bookings.ListActiveByUnit(ctx, unitID)
	if err != nil {
		return "", fmt.Errorf("listing bookings: %w", err)
	}

	cal := ics.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetVersion("2.0")
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)

	for _, b := range bookings {
		ev := cal.AddEvent(b.ID)
		ev.SetDtStampTime(time.Now().UTC())
		ev.SetSummary(fmt.Sprintf("Reservation - %s", propertyName))
		ev.SetDescription(fmt.Sprintf("Booking for guest %s", b.GuestID))
		ev.SetAllDayStartAt(b.CheckIn)
		ev.SetAllDayEndAt(b.CheckOut)
		ev.SetStatus(exportStatus(b.Status))
	}

	return cal.Serialize(), nil
}

// exportStatus maps a booking status onto an iCal event status: CONFIRMED
// stays CONFIRMED, everything else still blocking the calendar (PENDING) is
// TENTATIVE.
func exportStatus(status string) ics.ObjectStatus {
	if status == models.BookingStatusConfirmed {
		return ics.ObjectStatusConfirmed
	}
	return ics.ObjectStatusTentative
}
