// Package calendar provides iCal feed parsing, synchronization and export.
package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/apartment-booking/backend/internal/storage/models"
)

// DefaultFetchTimeout bounds a single feed fetch so one unresponsive remote
// calendar cannot stall a batch sync.
const DefaultFetchTimeout = 30 * time.Second

// Parser fetches and parses iCal/ICS calendar feeds into normalized events.
type Parser struct {
	httpClient *http.Client
}

// NewParser creates a new iCal parser with the given fetch timeout.
func NewParser(timeout time.Duration) *Parser {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Parser{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchAndParse downloads and parses an iCal feed from a URL. Any transport
// failure, timeout or non-2xx response is reported as a *FetchError.
func (p *Parser) FetchAndParse(ctx context.Context, url string) ([]models.NormalizedEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("calendar returned status %d", resp.StatusCode)}
	}

	return p.Parse(resp.Body)
}

// Parse reads iCal data from a reader and returns the normalized events as a
// materialized slice: the whole feed is reconciled as one unit of work, so a
// lazy stream would buy nothing.
//
// Events missing a start or end date are dropped; they cannot participate in
// conflict or display logic. Summary defaults to "No title", description to
// empty, status to CONFIRMED.
func (p *Parser) Parse(r io.Reader) ([]models.NormalizedEvent, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	events := make([]models.NormalizedEvent, 0)
	for _, ve := range cal.Events() {
		ev, ok := normalizeEvent(ve)
		if !ok {
			continue
		}
		events = append(events, ev)
	}

	return events, nil
}

func normalizeEvent(ve *ics.VEvent) (models.NormalizedEvent, bool) {
	ev := models.NormalizedEvent{
		Summary: "No title",
		Status:  "CONFIRMED",
	}

	if p := ve.GetProperty(ics.ComponentPropertySummary); p != nil && p.Value != "" {
		ev.Summary = p.Value
	}
	if p := ve.GetProperty(ics.ComponentPropertyDescription); p != nil {
		ev.Description = p.Value
	}
	if p := ve.GetProperty(ics.ComponentPropertyUniqueId); p != nil && p.Value != "" {
		uid := p.Value
		ev.ExternalID = &uid
	}
	if p := ve.GetProperty(ics.ComponentPropertyStatus); p != nil && p.Value != "" {
		ev.Status = p.Value
	}

	start, err := eventTime(ve.GetStartAt, ve.GetAllDayStartAt)
	if err != nil {
		return ev, false
	}
	end, err := eventTime(ve.GetEndAt, ve.GetAllDayEndAt)
	if err != nil {
		return ev, false
	}

	ev.StartDate = start
	ev.EndDate = end
	return ev, true
}

// eventTime tries the timed accessor first and falls back to the all-day
// accessor for VALUE=DATE properties.
func eventTime(timed, allDay func() (time.Time, error)) (time.Time, error) {
	if t, err := timed(); err == nil {
		return t, nil
	}
	return allDay()
}
