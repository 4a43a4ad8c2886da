package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"bustracker-backend/internal/middleware"
	"bustracker-backend/internal/models"
	"bustracker-backend/internal/tracking"
	"bustracker-backend/pkg/utils"
)

// UpdateLocation accepts a driver's batched location reports. Updates for
// rides that are not active or not owned by the driver are dropped without
// per-entry errors; the request fails only when nothing in the batch is
// acceptable.
// POST /api/location/update
func UpdateLocation(ingestor *tracking.Ingestor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req models.BatchLocationUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		accepted, err := ingestor.Ingest(r.Context(), claims.UserID, claims.Role, req.Updates)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		if accepted < len(req.Updates) {
			log.Printf("⚠️  Location batch from %s: accepted %d of %d", claims.Email, accepted, len(req.Updates))
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
