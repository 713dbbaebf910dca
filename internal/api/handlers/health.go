// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/apartment-booking/backend/internal/storage"
	"github.com/apartment-booking/backend/internal/websocket"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.Ping() == nil

		status := "healthy"
		if !dbConnected {
			status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		if status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
		})
	}
}

// StatusResponse represents the system status response.
type StatusResponse struct {
	DBConnected    bool `json:"db_connected"`
	UnitsCount     int  `json:"units_count"`
	FeedsCount     int  `json:"feeds_count"`
	ActiveBookings int  `json:"active_bookings"`
	FeedsInError   int  `json:"feeds_in_error"`
	WSClients      int  `json:"ws_clients"`
}

// Status returns a handler that provides system status information.
func Status(db *storage.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var unitsCount, feedsCount, activeBookings, feedsInError int
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM units").Scan(&unitsCount)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calendar_feeds").Scan(&feedsCount)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings WHERE status IN ('PENDING', 'CONFIRMED')").Scan(&activeBookings)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calendar_feeds WHERE sync_status = 'ERROR'").Scan(&feedsInError)

		response := StatusResponse{
			DBConnected:    db.Ping() == nil,
			UnitsCount:     unitsCount,
			FeedsCount:     feedsCount,
			ActiveBookings: activeBookings,
			FeedsInError:   feedsInError,
		}
		if hub != nil {
			response.WSClients = hub.ClientCount()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}
