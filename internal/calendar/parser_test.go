package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Airbnb Inc//Hosting Calendar//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:airbnb-1234@airbnb.com\r\n" +
	"DTSTAMP:20240601T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240610\r\n" +
	"DTEND;VALUE=DATE:20240613\r\n" +
	"SUMMARY:Reserved\r\n" +
	"DESCRIPTION:Guest stay\r\n" +
	"STATUS:CONFIRMED\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:airbnb-5678@airbnb.com\r\n" +
	"DTSTAMP:20240601T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240620\r\n" +
	"DTEND;VALUE=DATE:20240622\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:no-dates@airbnb.com\r\n" +
	"DTSTAMP:20240601T000000Z\r\n" +
	"SUMMARY:Broken event\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseNormalizesEvents(t *testing.T) {
	p := NewParser(0)

	events, err := p.Parse(strings.NewReader(sampleICS))
	require.NoError(t, err)
	require.Len(t, events, 2, "the event without dates is dropped")

	first := events[0]
	assert.Equal(t, "Reserved", first.Summary)
	assert.Equal(t, "Guest stay", first.Description)
	assert.Equal(t, "CONFIRMED", first.Status)
	require.NotNil(t, first.ExternalID)
	assert.Equal(t, "airbnb-1234@airbnb.com", *first.ExternalID)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), first.StartDate)
	assert.Equal(t, time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC), first.EndDate)
}

func TestParseDefaults(t *testing.T) {
	p := NewParser(0)

	events, err := p.Parse(strings.NewReader(sampleICS))
	require.NoError(t, err)

	// The second event carries no SUMMARY or STATUS.
	second := events[1]
	assert.Equal(t, "No title", second.Summary)
	assert.Equal(t, "CONFIRMED", second.Status)
	assert.Empty(t, second.Description)
}

func TestParseMalformedData(t *testing.T) {
	p := NewParser(0)

	_, err := p.Parse(strings.NewReader("this is not a calendar"))
	assert.Error(t, err)
}

func TestFetchAndParse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		w.Write([]byte(sampleICS))
	}))
	defer srv.Close()

	p := NewParser(5 * time.Second)
	events, err := p.FetchAndParse(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestFetchAndParseHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewParser(5 * time.Second)
	_, err := p.FetchAndParse(context.Background(), srv.URL)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, srv.URL, fetchErr.URL)
}

func TestFetchAndParseUnreachableHost(t *testing.T) {
	p := NewParser(time.Second)

	_, err := p.FetchAndParse(context.Background(), "http://127.0.0.1:1/calendar.ics")

	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
}
