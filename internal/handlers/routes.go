package handlers

import (
	"encoding/json"
	"net/http"

	"bustracker-backend/internal/database"
	"bustracker-backend/internal/middleware"
	"bustracker-backend/internal/models"
	"bustracker-backend/pkg/utils"
)

// CreateRoute creates a new bus route owned by the calling driver.
// POST /api/driver/routes
func CreateRoute(routes *database.RouteQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req models.CreateRouteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" || req.StartLocation == "" || req.EndLocation == "" {
			utils.RespondError(w, http.StatusBadRequest, "name, start_location and end_location are required")
			return
		}

		route, err := routes.Create(r.Context(), claims.UserID, req)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusCreated, route)
	}
}

// ListRoutes returns the calling driver's routes, newest first.
// GET /api/driver/routes
func ListRoutes(routes *database.RouteQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		list, err := routes.ListByDriver(r.Context(), claims.UserID)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"routes": list,
		})
	}
}
