package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/apartment-booking/backend/internal/api/middleware"
	"github.com/apartment-booking/backend/internal/booking"
	"github.com/apartment-booking/backend/internal/storage"
	"github.com/apartment-booking/backend/internal/websocket"
)

// CreateBookingRequest is the booking creation payload. Dates are
// "YYYY-MM-DD" calendar dates.
type CreateBookingRequest struct {
	UnitID     string  `json:"unit_id"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	NumGuests  int     `json:"num_guests"`
	GuestNotes *string `json:"guest_notes,omitempty"`
}

const dateLayout = "2006-01-02"

// CreateBooking validates and prices a booking request through the
// availability engine.
func CreateBooking(svc *booking.Service, hub *websocket.Hub) http.HandlerFunc {
	var broadcaster *websocket.EventBroadcaster
	if hub != nil {
		broadcaster = websocket.NewEventBroadcaster(hub)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.UnitID == "" || req.NumGuests < 1 {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "unit_id and num_guests are required")
			return
		}

		checkIn, err := time.Parse(dateLayout, req.CheckIn)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "check_in must be a YYYY-MM-DD date")
			return
		}
		checkOut, err := time.Parse(dateLayout, req.CheckOut)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "check_out must be a YYYY-MM-DD date")
			return
		}

		actor := middleware.ActorFromRequest(r)
		b, err := svc.Request(r.Context(), booking.RequestInput{
			UnitID:     req.UnitID,
			GuestID:    actor.UserID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			NumGuests:  req.NumGuests,
			GuestNotes: req.GuestNotes,
		})
		if err != nil {
			middleware.WriteEngineError(w, err)
			return
		}

		if broadcaster != nil {
			broadcaster.BroadcastBookingCreated(*b)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(b)
	}
}

// ListBookings returns all bookings, optionally filtered by status.
// Admin-only.
func ListBookings(repo *storage.BookingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.ActorFromRequest(r).IsAdmin {
			middleware.WriteError(w, http.StatusForbidden, middleware.ErrForbidden, "Admin access required")
			return
		}

		bookings, err := repo.List(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query bookings")
			return
		}

		writeBookingList(w, bookings)
	}
}

// ListMyBookings returns the calling guest's bookings.
func ListMyBookings(repo *storage.BookingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromRequest(r)
		bookings, err := repo.ListByGuest(r.Context(), actor.UserID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query bookings")
			return
		}

		writeBookingList(w, bookings)
	}
}

// GetBooking returns a single booking by ID.
func GetBooking(repo *storage.BookingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		b, err := repo.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query booking")
			return
		}
		if b == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Booking not found")
			return
		}

		actor := middleware.ActorFromRequest(r)
		if b.GuestID != actor.UserID && !actor.IsAdmin {
			middleware.WriteError(w, http.StatusForbidden, middleware.ErrForbidden, "Not authorized to view this booking")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(b)
	}
}

// CancelBooking transitions a booking to CANCELLED via the engine.
func CancelBooking(svc *booking.Service, hub *websocket.Hub) http.HandlerFunc {
	var broadcaster *websocket.EventBroadcaster
	if hub != nil {
		broadcaster = websocket.NewEventBroadcaster(hub)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		b, err := svc.Cancel(r.Context(), id, middleware.ActorFromRequest(r))
		if err != nil {
			middleware.WriteEngineError(w, err)
			return
		}

		if broadcaster != nil {
			broadcaster.BroadcastBookingCancelled(*b)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(b)
	}
}

func writeBookingList(w http.ResponseWriter, bookings any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}
