// Package tracking implements the live-tracking core: batched location
// ingestion gated on ride lifecycle, the per-viewer polling state machine,
// and the route search projection grouping.
package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "bustracker-backend/internal/errors"
	"bustracker-backend/internal/models"
)

// RideStore is the ride-state lookup surface the ingestor needs.
type RideStore interface {
	ActiveRideIDs(ctx context.Context, driverID string, rideIDs []string) (map[string]struct{}, error)
}

// LocationWriter appends validated location updates.
type LocationWriter interface {
	Insert(ctx context.Context, loc *models.LocationUpdate) error
}

// Ingestor validates and persists batched position reports, filtering them
// down to in_progress rides owned by the reporting driver.
type Ingestor struct {
	rides     RideStore
	locations LocationWriter
	validate  *validator.Validate
	now       func() time.Time
}

func NewIngestor(rides RideStore, locations LocationWriter) *Ingestor {
	return &Ingestor{
		rides:     rides,
		locations: locations,
		validate:  validator.New(),
		now:       time.Now,
	}
}

// Ingest accepts a driver's location batch and returns the number of updates
// persisted.
//
// Out-of-range coordinates reject the whole request at the validation
// boundary. Updates for rides that are not active or not owned by the driver
// are dropped silently; only a batch with zero valid updates is an error. An
// empty batch is a no-op success. Timestamps are assigned server-side.
func (in *Ingestor) Ingest(ctx context.Context, driverID, role string, updates []models.LocationReport) (int, error) {
	if role != models.RoleDriver {
		return 0, fmt.Errorf("only drivers can update location: %w", apperrors.ErrPermissionDenied)
	}

	if len(updates) == 0 {
		return 0, nil
	}

	for _, u := range updates {
		if err := in.validate.Struct(u); err != nil {
			return 0, fmt.Errorf("invalid location report: %w", apperrors.ErrInvalidArgument)
		}
	}

	rideIDs := make([]string, 0, len(updates))
	seen := make(map[string]struct{}, len(updates))
	for _, u := range updates {
		if _, ok := seen[u.RideID]; ok {
			continue
		}
		seen[u.RideID] = struct{}{}
		rideIDs = append(rideIDs, u.RideID)
	}

	valid, err := in.rides.ActiveRideIDs(ctx, driverID, rideIDs)
	if err != nil {
		return 0, err
	}

	accepted := 0
	timestamp := in.now().UnixMilli()
	for _, u := range updates {
		if _, ok := valid[u.RideID]; !ok {
			continue
		}

		loc := models.LocationUpdate{
			RideID:    u.RideID,
			Latitude:  u.Latitude,
			Longitude: u.Longitude,
			Speed:     u.Speed,
			Heading:   u.Heading,
			Timestamp: timestamp,
		}
		if err := in.locations.Insert(ctx, &loc); err != nil {
			return accepted, err
		}
		accepted++
	}

	if accepted == 0 {
		return 0, fmt.Errorf("no valid rides found for location updates: %w", apperrors.ErrInvalidArgument)
	}

	return accepted, nil
}
