package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"bustracker-backend/internal/database"
	apperrors "bustracker-backend/internal/errors"
	"bustracker-backend/internal/middleware"
	"bustracker-backend/pkg/utils"
)

type StartRideRequest struct {
	RouteID string `json:"route_id"`
}

type EndRideRequest struct {
	RideID string `json:"ride_id"`
}

// StartRide starts a new ride on one of the driver's own routes. A driver
// can have at most one in_progress ride; a concurrent or repeated start
// returns 409.
// POST /api/driver/rides/start
func StartRide(rides *database.RideQueries, routes *database.RouteQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req StartRideRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RouteID == "" {
			utils.RespondError(w, http.StatusBadRequest, "route_id is required")
			return
		}

		owned, err := routes.IsOwnedBy(r.Context(), req.RouteID, claims.UserID)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		if !owned {
			utils.RespondError(w, http.StatusNotFound, "route not found or not owned by driver")
			return
		}

		ride, err := rides.Start(r.Context(), claims.UserID, req.RouteID)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		log.Printf("✅ Ride %s started on route %s by %s", ride.ID, ride.RouteID, claims.Email)
		utils.RespondJSON(w, http.StatusOK, ride)
	}
}

// EndRide ends the driver's in_progress ride. Ended rides are terminal, so
// ending twice returns 404 rather than succeeding silently.
// POST /api/driver/rides/end
func EndRide(rides *database.RideQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req EndRideRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RideID == "" {
			utils.RespondError(w, http.StatusBadRequest, "ride_id is required")
			return
		}

		ride, err := rides.End(r.Context(), claims.UserID, req.RideID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				utils.RespondError(w, http.StatusNotFound, "active ride not found")
				return
			}
			respondDomainError(w, err)
			return
		}

		log.Printf("✅ Ride %s ended by %s", ride.ID, claims.Email)
		utils.RespondJSON(w, http.StatusOK, ride)
	}
}

// GetActiveRide returns the driver's current in_progress ride joined with
// its route name, or {"ride": null} when there is none.
// GET /api/driver/rides/active
func GetActiveRide(rides *database.RideQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ride, err := rides.ActiveByDriver(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"ride": nil})
				return
			}
			respondDomainError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"ride": ride})
	}
}
