package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/apartment-booking/backend/internal/api/middleware"
	"github.com/apartment-booking/backend/internal/calendar"
	"github.com/apartment-booking/backend/internal/storage"
	"github.com/apartment-booking/backend/internal/storage/models"
)

// Feed request/response types

type CreateFeedRequest struct {
	UnitID   string `json:"unit_id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Source   string `json:"source"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type FeedWithEvents struct {
	models.CalendarFeed
	Events []models.CalendarEvent `json:"events"`
}

// ListFeeds returns all feed subscriptions, optionally filtered by unit.
func ListFeeds(repo *storage.FeedRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feeds, err := repo.List(r.Context(), r.URL.Query().Get("unit_id"))
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query feeds")
			return
		}

		if feeds == nil {
			feeds = []models.CalendarFeed{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(feeds)
	}
}

// GetFeed returns a single feed with its mirrored events.
func GetFeed(feeds *storage.FeedRepository, events *storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		ctx := r.Context()

		feed, err := feeds.GetByID(ctx, id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query feed")
			return
		}
		if feed == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Feed not found")
			return
		}

		feedEvents, err := events.ListByFeed(ctx, id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query feed events")
			return
		}
		if feedEvents == nil {
			feedEvents = []models.CalendarEvent{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(FeedWithEvents{CalendarFeed: *feed, Events: feedEvents})
	}
}

// CreateFeed adds a new external feed subscription and kicks off its first
// sync in the background.
func CreateFeed(feeds *storage.FeedRepository, units *storage.UnitRepository, scheduler *calendar.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateFeedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.UnitID == "" || req.Name == "" || req.URL == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "unit_id, name and url are required")
			return
		}

		ctx := r.Context()
		unit, err := units.GetByID(ctx, req.UnitID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query unit")
			return
		}
		if unit == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Unit not found")
			return
		}

		feed := &models.CalendarFeed{
			UnitID:   req.UnitID,
			Name:     req.Name,
			URL:      req.URL,
			Source:   req.Source,
			IsActive: req.IsActive == nil || *req.IsActive,
		}
		if feed.Source == "" {
			feed.Source = "OTHER"
		}

		if err := feeds.Create(ctx, feed); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create feed")
			return
		}

		if scheduler != nil && feed.IsActive {
			scheduler.TriggerFeed(feed.ID)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(feed)
	}
}

// UpdateFeed updates a feed's owner-editable fields.
func UpdateFeed(feeds *storage.FeedRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		ctx := r.Context()

		feed, err := feeds.GetByID(ctx, id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query feed")
			return
		}
		if feed == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Feed not found")
			return
		}

		var req CreateFeedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Name != "" {
			feed.Name = req.Name
		}
		if req.URL != "" {
			feed.URL = req.URL
		}
		if req.Source != "" {
			feed.Source = req.Source
		}
		if req.IsActive != nil {
			feed.IsActive = *req.IsActive
		}

		if err := feeds.Update(ctx, feed); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update feed")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(feed)
	}
}

// DeleteFeed removes a feed subscription; its mirrored events cascade away.
func DeleteFeed(feeds *storage.FeedRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		ctx := r.Context()

		feed, err := feeds.GetByID(ctx, id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query feed")
			return
		}
		if feed == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Feed not found")
			return
		}

		if err := feeds.Delete(ctx, id); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete feed")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// SyncFeed triggers a synchronous manual sync for one feed and returns its
// result.
func SyncFeed(syncService *calendar.SyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		result, err := syncService.SyncFeed(r.Context(), id)
		if err != nil {
			middleware.WriteEngineError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// SyncAllFeeds runs a batch sync across every active feed and returns the
// aggregate result. Per-feed failures are reported inside the result, not as
// an HTTP error.
func SyncAllFeeds(syncService *calendar.SyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batch, err := syncService.SyncAll(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to run batch sync")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(batch)
	}
}

// ExportUnitCalendar serves a unit's active bookings as an iCal document for
// external platforms to subscribe to.
func ExportUnitCalendar(exporter *calendar.Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unitID := mux.Vars(r)["unitId"]

		ical, err := exporter.ExportUnit(r.Context(), unitID)
		if err != nil {
			middleware.WriteEngineError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "unit-"+unitID+".ics"))
		w.Write([]byte(ical))
	}
}
