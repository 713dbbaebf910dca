package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apartment-booking/backend/internal/storage/models"
)

type fakeUnitStore struct {
	units map[string]*models.Unit
}

func (f *fakeUnitStore) GetByID(_ context.Context, id string) (*models.Unit, error) {
	return f.units[id], nil
}

type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	nextID   int
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingStore) GetByID(_ context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookings[id], nil
}

func (f *fakeBookingStore) ListActiveByUnit(_ context.Context, unitID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UnitID == unitID && b.IsActive() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) Create(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == "" {
		f.nextID++
		b.ID = fmt.Sprintf("booking-%d", f.nextID)
	}
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}

func (f *fakeBookingStore) MarkCancelled(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.bookings[id]
	b.Status = models.BookingStatusCancelled
	b.CancelledAt = &at
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (*Service, *fakeBookingStore) {
	t.Helper()
	units := &fakeUnitStore{units: map[string]*models.Unit{
		"unit-1": {
			ID:          "unit-1",
			PropertyID:  "prop-1",
			Name:        "Seaside Apartment",
			MaxGuests:   4,
			BasePrice:   89,
			CleaningFee: 30,
		},
	}}
	store := newFakeBookingStore()
	svc := NewService(units, store)
	svc.now = func() time.Time { return date(2024, 6, 1) }
	return svc, store
}

func validInput() RequestInput {
	return RequestInput{
		UnitID:    "unit-1",
		GuestID:   "guest-1",
		CheckIn:   date(2024, 6, 10),
		CheckOut:  date(2024, 6, 13),
		NumGuests: 2,
	}
}

func TestRequestCreatesPendingBooking(t *testing.T) {
	svc, _ := newTestService(t)

	b, err := svc.Request(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Equal(t, models.BookingSourceDirect, b.Source)
	assert.Equal(t, date(2024, 6, 10), b.CheckIn)
	assert.Equal(t, date(2024, 6, 13), b.CheckOut)
}

func TestRequestPricesNightsPlusCleaningFee(t *testing.T) {
	svc, _ := newTestService(t)

	// 3 nights at 89 plus a 30 cleaning fee.
	b, err := svc.Request(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, 297.0, b.TotalPrice)
	assert.Equal(t, 30.0, b.CleaningFee)
}

func TestRequestUnknownUnit(t *testing.T) {
	svc, _ := newTestService(t)

	in := validInput()
	in.UnitID = "missing"
	_, err := svc.Request(context.Background(), in)

	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestRequestCapacityExceeded(t *testing.T) {
	svc, _ := newTestService(t)

	in := validInput()
	in.NumGuests = 5
	_, err := svc.Request(context.Background(), in)

	assert.Equal(t, KindCapacityExceeded, KindOf(err))
}

func TestRequestInvalidRange(t *testing.T) {
	svc, _ := newTestService(t)

	in := validInput()
	in.CheckOut = in.CheckIn
	_, err := svc.Request(context.Background(), in)

	assert.Equal(t, KindInvalidRange, KindOf(err))
}

func TestRequestPastCheckIn(t *testing.T) {
	svc, _ := newTestService(t)

	in := validInput()
	in.CheckIn = date(2024, 5, 20)
	in.CheckOut = date(2024, 5, 25)
	_, err := svc.Request(context.Background(), in)

	assert.Equal(t, KindPastDate, KindOf(err))
}

func TestRequestCheckInTodayAllowed(t *testing.T) {
	svc, _ := newTestService(t)

	in := validInput()
	in.CheckIn = date(2024, 6, 1)
	in.CheckOut = date(2024, 6, 3)
	_, err := svc.Request(context.Background(), in)

	assert.NoError(t, err)
}

func TestRequestConflictWithActiveBooking(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Request(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.GuestID = "guest-2"
	in.CheckIn = date(2024, 6, 12)
	in.CheckOut = date(2024, 6, 15)
	_, err = svc.Request(ctx, in)

	assert.Equal(t, KindDateConflict, KindOf(err))
}

func TestRequestBackToBackStaysAllowed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Request(ctx, validInput())
	require.NoError(t, err)

	// Check-in on the previous stay's check-out day is not a conflict.
	in := validInput()
	in.GuestID = "guest-2"
	in.CheckIn = date(2024, 6, 13)
	in.CheckOut = date(2024, 6, 16)
	_, err = svc.Request(ctx, in)

	assert.NoError(t, err)
}

func TestCancellationFreesDates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Request(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, b.ID, Actor{UserID: "guest-1"})
	require.NoError(t, err)

	// The same dates are bookable again.
	in := validInput()
	in.GuestID = "guest-2"
	_, err = svc.Request(ctx, in)
	assert.NoError(t, err)
}

func TestCancelForbiddenForOtherGuest(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Request(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, b.ID, Actor{UserID: "guest-2"})
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestCancelAllowedForAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Request(ctx, validInput())
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, b.ID, Actor{UserID: "admin-1", IsAdmin: true})
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
}

func TestCancelIsTerminal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Request(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, b.ID, Actor{UserID: "guest-1"})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, b.ID, Actor{UserID: "guest-1"})
	assert.Equal(t, KindAlreadyCancelled, KindOf(err))
}

func TestCancelUnknownBooking(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Cancel(context.Background(), "missing", Actor{UserID: "guest-1"})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestConcurrentRequestsSameUnit(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	// Many racing requests for the same overlapping dates: exactly one wins.
	const racers = 16
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Request(ctx, validInput())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, KindDateConflict, KindOf(err))
		}
	}
	assert.Equal(t, 1, succeeded)

	active, err := store.ListActiveByUnit(ctx, "unit-1")
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
