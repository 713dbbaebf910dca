package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/apartment-booking/backend/internal/api/middleware"
	"github.com/apartment-booking/backend/internal/storage"
	"github.com/apartment-booking/backend/internal/storage/models"
)

// ListUnits returns all bookable units.
func ListUnits(repo *storage.UnitRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		units, err := repo.List(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query units")
			return
		}

		if units == nil {
			units = []models.Unit{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(units)
	}
}

// GetUnit returns a single unit by ID.
func GetUnit(repo *storage.UnitRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		unit, err := repo.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query unit")
			return
		}
		if unit == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Unit not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(unit)
	}
}
