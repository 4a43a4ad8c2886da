package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"bustracker-backend/internal/models"
)

// RouteQueries holds the typed access patterns for the routes table.
type RouteQueries struct {
	db *sqlx.DB
}

func NewRouteQueries(db *sqlx.DB) *RouteQueries {
	return &RouteQueries{db: db}
}

// Create inserts a new route owned by the given driver.
func (q *RouteQueries) Create(ctx context.Context, driverID string, req models.CreateRouteRequest) (*models.Route, error) {
	route := models.Route{
		ID:                       uuid.New().String(),
		DriverID:                 driverID,
		Name:                     req.Name,
		Description:              req.Description,
		StartLocation:            req.StartLocation,
		EndLocation:              req.EndLocation,
		EstimatedDurationMinutes: req.EstimatedDurationMinutes,
		CreatedAt:                time.Now().Unix(),
		UpdatedAt:                time.Now().Unix(),
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO routes (id, driver_id, name, description, start_location, end_location, estimated_duration_minutes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		route.ID, route.DriverID, route.Name, route.Description,
		route.StartLocation, route.EndLocation, route.EstimatedDurationMinutes,
		route.CreatedAt, route.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert route: %w", err)
	}

	return &route, nil
}

// ListByDriver returns the driver's routes, newest first.
func (q *RouteQueries) ListByDriver(ctx context.Context, driverID string) ([]models.Route, error) {
	routes := []models.Route{}
	err := q.db.SelectContext(ctx, &routes,
		`SELECT * FROM routes WHERE driver_id = $1 ORDER BY created_at DESC`, driverID)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return routes, nil
}

// IsOwnedBy reports whether the route exists and belongs to the driver.
func (q *RouteQueries) IsOwnedBy(ctx context.Context, routeID, driverID string) (bool, error) {
	var owned bool
	err := q.db.GetContext(ctx, &owned,
		`SELECT EXISTS(SELECT 1 FROM routes WHERE id = $1 AND driver_id = $2)`, routeID, driverID)
	if err != nil {
		return false, fmt.Errorf("check route ownership: %w", err)
	}
	return owned, nil
}

// SearchActive runs the route search projection: routes joined with their
// in_progress rides and driver names. Filters are ILIKE substring matches,
// ANDed when more than one is supplied. Rows come back ordered by route name
// then ride start time descending, ready for grouping.
func (q *RouteQueries) SearchActive(ctx context.Context, filters models.RouteSearchFilters) ([]models.RouteActiveRideRow, error) {
	query := `
		SELECT
			routes.id AS route_id,
			routes.name AS route_name,
			routes.description AS route_description,
			routes.start_location,
			routes.end_location,
			routes.estimated_duration_minutes,
			users.name AS driver_name,
			rides.id AS ride_id,
			rides.started_at
		FROM routes
		JOIN users ON routes.driver_id = users.id
		JOIN rides ON routes.id = rides.route_id
		WHERE rides.status = 'in_progress'`

	args := []interface{}{}
	argIdx := 1

	if filters.Query != "" {
		query += fmt.Sprintf(" AND (routes.name ILIKE $%d OR routes.description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filters.Query+"%")
		argIdx++
	}
	if filters.StartLocation != "" {
		query += fmt.Sprintf(" AND routes.start_location ILIKE $%d", argIdx)
		args = append(args, "%"+filters.StartLocation+"%")
		argIdx++
	}
	if filters.EndLocation != "" {
		query += fmt.Sprintf(" AND routes.end_location ILIKE $%d", argIdx)
		args = append(args, "%"+filters.EndLocation+"%")
		argIdx++
	}

	query += " ORDER BY routes.name, rides.started_at DESC"

	rows := []models.RouteActiveRideRow{}
	if err := q.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("search routes: %w", err)
	}
	return rows, nil
}
