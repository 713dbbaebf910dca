// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/apartment-booking/backend/internal/api/handlers"
	"github.com/apartment-booking/backend/internal/api/middleware"
	"github.com/apartment-booking/backend/internal/booking"
	"github.com/apartment-booking/backend/internal/calendar"
	"github.com/apartment-booking/backend/internal/storage"
	"github.com/apartment-booking/backend/internal/websocket"
)

// Services bundles the engine services and repositories the routes depend on.
type Services struct {
	Bookings    *booking.Service
	BookingRepo *storage.BookingRepository
	Units       *storage.UnitRepository
	Feeds       *storage.FeedRepository
	Events      *storage.EventRepository
	Sync        *calendar.SyncService
	Scheduler   *calendar.Scheduler
	Exporter    *calendar.Exporter
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(db *storage.DB, hub *websocket.Hub, staticDir string, svcs Services) *mux.Router {
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	// API subrouter
	api := r.PathPrefix("/api").Subrouter()

	// Health and status endpoints
	api.HandleFunc("/health", handlers.HealthCheck(db)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(db, hub)).Methods("GET")

	// WebSocket endpoint
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(hub)).Methods("GET")

	// Unit endpoints
	api.HandleFunc("/units", handlers.ListUnits(svcs.Units)).Methods("GET")
	api.HandleFunc("/units/{id}", handlers.GetUnit(svcs.Units)).Methods("GET")

	// Booking endpoints. Identity headers are required; the create and
	// cancel paths go through the availability engine.
	bookings := api.PathPrefix("/bookings").Subrouter()
	bookings.Use(middleware.RequireIdentity)
	bookings.HandleFunc("", handlers.CreateBooking(svcs.Bookings, hub)).Methods("POST")
	bookings.HandleFunc("", handlers.ListBookings(svcs.BookingRepo)).Methods("GET")
	bookings.HandleFunc("/my", handlers.ListMyBookings(svcs.BookingRepo)).Methods("GET")
	bookings.HandleFunc("/{id}", handlers.GetBooking(svcs.BookingRepo)).Methods("GET")
	bookings.HandleFunc("/{id}/cancel", handlers.CancelBooking(svcs.Bookings, hub)).Methods("POST")

	// Calendar feed endpoints
	api.HandleFunc("/calendars/feeds", handlers.ListFeeds(svcs.Feeds)).Methods("GET")
	api.HandleFunc("/calendars/feeds", handlers.CreateFeed(svcs.Feeds, svcs.Units, svcs.Scheduler)).Methods("POST")
	api.HandleFunc("/calendars/feeds/{id}", handlers.GetFeed(svcs.Feeds, svcs.Events)).Methods("GET")
	api.HandleFunc("/calendars/feeds/{id}", handlers.UpdateFeed(svcs.Feeds)).Methods("PUT")
	api.HandleFunc("/calendars/feeds/{id}", handlers.DeleteFeed(svcs.Feeds)).Methods("DELETE")
	api.HandleFunc("/calendars/feeds/{id}/sync", handlers.SyncFeed(svcs.Sync)).Methods("POST")
	api.HandleFunc("/calendars/sync-all", handlers.SyncAllFeeds(svcs.Sync)).Methods("POST")

	// iCal export for external platforms; no identity required so calendar
	// clients can poll the URL directly.
	api.HandleFunc("/calendars/export/{unitId}", handlers.ExportUnitCalendar(svcs.Exporter)).Methods("GET")

	// Serve static frontend files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))

	return r
}
