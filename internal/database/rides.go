package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	apperrors "bustracker-backend/internal/errors"
	"bustracker-backend/internal/models"
)

// RideQueries holds the typed access patterns for the rides table.
type RideQueries struct {
	db *sqlx.DB
}

func NewRideQueries(db *sqlx.DB) *RideQueries {
	return &RideQueries{db: db}
}

// Start inserts a new in_progress ride for the driver. The partial unique
// index on rides(driver_id) WHERE status='in_progress' serializes concurrent
// starts; the losing insert maps to ErrRideConflict.
func (q *RideQueries) Start(ctx context.Context, driverID, routeID string) (*models.Ride, error) {
	now := time.Now().Unix()
	ride := models.Ride{
		ID:        uuid.New().String(),
		RouteID:   routeID,
		DriverID:  driverID,
		Status:    models.RideStatusInProgress,
		StartedAt: &now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO rides (id, route_id, driver_id, status, started_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ride.ID, ride.RouteID, ride.DriverID, ride.Status, ride.StartedAt,
		ride.CreatedAt, ride.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, apperrors.ErrRideConflict
		}
		return nil, fmt.Errorf("insert ride: %w", err)
	}

	return &ride, nil
}

// End transitions the driver's in_progress ride to ended. Ending a ride that
// is not in_progress (or not owned by the driver) maps to ErrNotFound; ended
// is terminal, repeated ends do not succeed.
func (q *RideQueries) End(ctx context.Context, driverID, rideID string) (*models.Ride, error) {
	now := time.Now().Unix()
	var ride models.Ride
	err := q.db.GetContext(ctx, &ride,
		`UPDATE rides
		 SET status = 'ended', ended_at = $1, updated_at = $1
		 WHERE id = $2 AND driver_id = $3 AND status = 'in_progress'
		 RETURNING *`,
		now, rideID, driverID,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("end ride: %w", err)
	}
	return &ride, nil
}

// ActiveByDriver returns the driver's sole in_progress ride joined with its
// route name, or ErrNotFound when the driver has no active ride.
func (q *RideQueries) ActiveByDriver(ctx context.Context, driverID string) (*models.ActiveRide, error) {
	var ride models.ActiveRide
	err := q.db.GetContext(ctx, &ride,
		`SELECT r.*, rt.name AS route_name
		 FROM rides r
		 JOIN routes rt ON r.route_id = rt.id
		 WHERE r.driver_id = $1 AND r.status = 'in_progress'`,
		driverID,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get active ride: %w", err)
	}
	return &ride, nil
}

// IsActive reports whether the ride exists with status in_progress.
func (q *RideQueries) IsActive(ctx context.Context, rideID string) (bool, error) {
	var active bool
	err := q.db.GetContext(ctx, &active,
		`SELECT EXISTS(SELECT 1 FROM rides WHERE id = $1 AND status = 'in_progress')`, rideID)
	if err != nil {
		return false, fmt.Errorf("check ride status: %w", err)
	}
	return active, nil
}

// ActiveRideIDs narrows a batch of candidate ride ids down to those that are
// in_progress and owned by the driver.
func (q *RideQueries) ActiveRideIDs(ctx context.Context, driverID string, rideIDs []string) (map[string]struct{}, error) {
	valid := make(map[string]struct{})
	if len(rideIDs) == 0 {
		return valid, nil
	}

	ids := []string{}
	err := q.db.SelectContext(ctx, &ids,
		`SELECT id FROM rides
		 WHERE id = ANY($1) AND driver_id = $2 AND status = 'in_progress'`,
		pq.Array(rideIDs), driverID,
	)
	if err != nil {
		return nil, fmt.Errorf("resolve active rides: %w", err)
	}

	for _, id := range ids {
		valid[id] = struct{}{}
	}
	return valid, nil
}

// DetailsInProgress returns the passenger-facing detail row for an
// in_progress ride, or ErrNotFound for absent/pending/ended rides.
func (q *RideQueries) DetailsInProgress(ctx context.Context, rideID string) (*models.RideDetailsRow, error) {
	var row models.RideDetailsRow
	err := q.db.GetContext(ctx, &row,
		`SELECT
			rides.id,
			routes.name AS route_name,
			users.name AS driver_name,
			routes.start_location,
			routes.end_location,
			rides.started_at,
			routes.estimated_duration_minutes
		 FROM rides
		 JOIN routes ON rides.route_id = routes.id
		 JOIN users ON rides.driver_id = users.id
		 WHERE rides.id = $1 AND rides.status = 'in_progress'`,
		rideID,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ride details: %w", err)
	}
	return &row, nil
}
