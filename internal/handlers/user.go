package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bustracker-backend/internal/database"
	"bustracker-backend/internal/models"
	"bustracker-backend/internal/tracking"
	"bustracker-backend/pkg/utils"
)

// SearchRoutes returns routes that currently have at least one in_progress
// ride, grouped one entry per route and ordered by route name.
// GET /api/user/routes/search?query&start_location&end_location
func SearchRoutes(routes *database.RouteQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := models.RouteSearchFilters{
			Query:         r.URL.Query().Get("query"),
			StartLocation: r.URL.Query().Get("start_location"),
			EndLocation:   r.URL.Query().Get("end_location"),
		}

		rows, err := routes.SearchActive(r.Context(), filters)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"routes": tracking.GroupRouteRows(rows),
		})
	}
}

// GetRideDetails returns the passenger-facing view of an in_progress ride,
// including its last known location. Rides that are pending, ended or absent
// all return 404.
// GET /api/user/rides/{rideId}
func GetRideDetails(rides *database.RideQueries, locations *database.LocationQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rideID := chi.URLParam(r, "rideId")

		row, err := rides.DetailsInProgress(r.Context(), rideID)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		lastLocation, err := locations.LatestForRide(r.Context(), rideID)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, models.RideDetails{
			ID:                       row.ID,
			RouteName:                row.RouteName,
			DriverName:               row.DriverName,
			StartLocation:            row.StartLocation,
			EndLocation:              row.EndLocation,
			StartedAt:                row.StartedAt,
			EstimatedDurationMinutes: row.EstimatedDurationMinutes,
			LastLocation:             lastLocation,
		})
	}
}
