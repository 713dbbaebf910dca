package calendar

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apartment-booking/backend/internal/storage/models"
)

type fakeUnitReader struct {
	unit     *models.Unit
	property *models.Property
}

func (f *fakeUnitReader) GetByID(_ context.Context, id string) (*models.Unit, error) {
	if f.unit != nil && f.unit.ID == id {
		return f.unit, nil
	}
	return nil, nil
}

func (f *fakeUnitReader) GetProperty(_ context.Context, id string) (*models.Property, error) {
	if f.property != nil && f.property.ID == id {
		return f.property, nil
	}
	return nil, nil
}

type fakeBookingLister struct {
	bookings []models.Booking
}

func (f *fakeBookingLister) ListActiveByUnit(_ context.Context, unitID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UnitID == unitID && b.IsActive() {
			out = append(out, b)
		}
	}
	return out, nil
}

func exportBooking(id, status string) models.Booking {
	return models.Booking{
		ID:       id,
		UnitID:   "unit-1",
		GuestID:  "guest-1",
		CheckIn:  time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC),
		Status:   status,
	}
}

func newTestExporter(bookings ...models.Booking) *Exporter {
	units := &fakeUnitReader{
		unit:     &models.Unit{ID: "unit-1", PropertyID: "prop-1", Name: "Unit A"},
		property: &models.Property{ID: "prop-1", Name: "Seaside House"},
	}
	return NewExporter(units, &fakeBookingLister{bookings: bookings})
}

func TestExportUnitDocumentShape(t *testing.T) {
	e := newTestExporter(exportBooking("b1", models.BookingStatusConfirmed))

	out, err := e.ExportUnit(context.Background(), "unit-1")
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:-//Apartment Booking//Calendar//EN")
	assert.Contains(t, out, "VERSION:2.0")
	assert.Contains(t, out, "CALSCALE:GREGORIAN")
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Contains(t, out, "END:VCALENDAR")
}

func TestExportUnitEventFields(t *testing.T) {
	e := newTestExporter(exportBooking("b1", models.BookingStatusConfirmed))

	out, err := e.ExportUnit(context.Background(), "unit-1")
	require.NoError(t, err)

	assert.Contains(t, out, "UID:b1")
	assert.Contains(t, out, "SUMMARY:Reservation - Seaside House")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240610")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20240613")
	assert.Contains(t, out, "STATUS:CONFIRMED")
}

func TestExportUnitPendingIsTentative(t *testing.T) {
	e := newTestExporter(exportBooking("b1", models.BookingStatusPending))

	out, err := e.ExportUnit(context.Background(), "unit-1")
	require.NoError(t, err)

	assert.Contains(t, out, "STATUS:TENTATIVE")
}

func TestExportUnitExcludesCancelled(t *testing.T) {
	e := newTestExporter(
		exportBooking("b1", models.BookingStatusConfirmed),
		exportBooking("b2", models.BookingStatusCancelled),
	)

	out, err := e.ExportUnit(context.Background(), "unit-1")
	require.NoError(t, err)

	assert.Contains(t, out, "UID:b1")
	assert.NotContains(t, out, "UID:b2")
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"))
}

func TestExportUnitNotFound(t *testing.T) {
	e := newTestExporter()

	_, err := e.ExportUnit(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnitNotFound)
}

func TestExportUnitEmptyCalendar(t *testing.T) {
	e := newTestExporter()

	out, err := e.ExportUnit(context.Background(), "unit-1")
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
