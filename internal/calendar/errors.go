package calendar

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the sync orchestrator and exporter.
var (
	ErrFeedNotFound   = errors.New("calendar feed not found")
	ErrUnitNotFound   = errors.New("unit not found")
	ErrSyncInProgress = errors.New("feed sync already in progress")
)

// FetchError indicates the remote calendar document could not be retrieved:
// a transport failure, a timeout, or a non-2xx response. It is recorded on
// the feed and safe to retry on the next scheduled sync.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching calendar %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
