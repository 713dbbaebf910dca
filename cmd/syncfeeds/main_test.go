package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apartment-booking/backend/internal/calendar"
	"github.com/apartment-booking/backend/internal/storage/models"
)

const testICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Airbnb Inc//Hosting Calendar//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:airbnb-1@airbnb.com\r\n" +
	"DTSTAMP:20240601T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240610\r\n" +
	"DTEND;VALUE=DATE:20240613\r\n" +
	"SUMMARY:Reserved\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

type stubFeedStore struct {
	feeds   []models.CalendarFeed
	listErr error
}

func (s *stubFeedStore) GetByID(_ context.Context, id string) (*models.CalendarFeed, error) {
	for i := range s.feeds {
		if s.feeds[i].ID == id {
			copied := s.feeds[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *stubFeedStore) ListActive(_ context.Context) ([]models.CalendarFeed, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.feeds, nil
}

func (s *stubFeedStore) UpdateSyncStatus(_ context.Context, id, status string, syncError *string) error {
	return nil
}

type stubEventStore struct{}

func (s *stubEventStore) ReplaceForFeed(_ context.Context, feedID string, events []models.NormalizedEvent) (int, error) {
	return len(events), nil
}

func TestRunToleratesPerFeedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testICS))
	}))
	defer srv.Close()

	// One healthy feed, one pointing at a dead endpoint. The failing feed
	// is recorded in its own result; the run itself still succeeds.
	feeds := &stubFeedStore{feeds: []models.CalendarFeed{
		{ID: "feed-1", Name: "Airbnb", URL: srv.URL, IsActive: true},
		{ID: "feed-2", Name: "Booking", URL: "http://127.0.0.1:1/cal.ics", IsActive: true},
	}}
	svc := calendar.NewSyncService(feeds, &stubEventStore{}, calendar.NewParser(2*time.Second), 2)

	err := run(context.Background(), svc)
	assert.NoError(t, err)
}

func TestRunFailsWhenFeedsUnlistable(t *testing.T) {
	feeds := &stubFeedStore{listErr: errors.New("database is locked")}
	svc := calendar.NewSyncService(feeds, &stubEventStore{}, calendar.NewParser(time.Second), 2)

	err := run(context.Background(), svc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}
