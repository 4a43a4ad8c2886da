package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"bustracker-backend/internal/models"
)

// LocationQueries holds the typed access patterns for the location_updates
// table: append-only writes from ingestion, latest-since-watermark reads from
// pollers, and the retention sweep.
type LocationQueries struct {
	db *sqlx.DB
}

func NewLocationQueries(db *sqlx.DB) *LocationQueries {
	return &LocationQueries{db: db}
}

// Insert appends one location update. The timestamp must already be the
// server-assigned epoch-millisecond value.
func (q *LocationQueries) Insert(ctx context.Context, loc *models.LocationUpdate) error {
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO location_updates (ride_id, latitude, longitude, speed, heading, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		loc.RideID, loc.Latitude, loc.Longitude, loc.Speed, loc.Heading, loc.Timestamp,
	).Scan(&loc.ID)
	if err != nil {
		return fmt.Errorf("insert location update: %w", err)
	}
	return nil
}

// LatestSince returns the newest location for the ride strictly newer than
// the watermark, or nil when no newer update exists. Intermediate updates
// within a poll window are intentionally skipped (last-value-wins).
func (q *LocationQueries) LatestSince(ctx context.Context, rideID string, sinceMillis int64) (*models.LocationUpdate, error) {
	var loc models.LocationUpdate
	err := q.db.GetContext(ctx, &loc,
		`SELECT * FROM location_updates
		 WHERE ride_id = $1 AND timestamp > $2
		 ORDER BY timestamp DESC
		 LIMIT 1`,
		rideID, sinceMillis,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest location: %w", err)
	}
	return &loc, nil
}

// LatestForRide returns the newest location for the ride regardless of
// watermark, or nil when the ride has none.
func (q *LocationQueries) LatestForRide(ctx context.Context, rideID string) (*models.LocationUpdate, error) {
	var loc models.LocationUpdate
	err := q.db.GetContext(ctx, &loc,
		`SELECT * FROM location_updates
		 WHERE ride_id = $1
		 ORDER BY timestamp DESC
		 LIMIT 1`,
		rideID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get last location: %w", err)
	}
	return &loc, nil
}

// DeleteOlderThan purges location updates with timestamps before the cutoff
// and returns the number of rows removed.
func (q *LocationQueries) DeleteOlderThan(ctx context.Context, cutoffMillis int64) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM location_updates WHERE timestamp < $1`, cutoffMillis)
	if err != nil {
		return 0, fmt.Errorf("delete expired locations: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted locations: %w", err)
	}
	return deleted, nil
}
