package models

// Route represents a bus route owned by a single driver
type Route struct {
	ID                       string  `json:"id" db:"id"`
	DriverID                 string  `json:"driver_id" db:"driver_id"`
	Name                     string  `json:"name" db:"name"`
	Description              *string `json:"description,omitempty" db:"description"`
	StartLocation            string  `json:"start_location" db:"start_location"`
	EndLocation              string  `json:"end_location" db:"end_location"`
	EstimatedDurationMinutes *int    `json:"estimated_duration_minutes,omitempty" db:"estimated_duration_minutes"`
	CreatedAt                int64   `json:"created_at" db:"created_at"` // Unix timestamp
	UpdatedAt                int64   `json:"updated_at" db:"updated_at"` // Unix timestamp
}

// CreateRouteRequest is the request body for POST /api/driver/routes
type CreateRouteRequest struct {
	Name                     string  `json:"name"`
	Description              *string `json:"description,omitempty"`
	StartLocation            string  `json:"start_location"`
	EndLocation              string  `json:"end_location"`
	EstimatedDurationMinutes *int    `json:"estimated_duration_minutes,omitempty"`
}

// RouteSearchFilters narrows the route search projection. All filters are
// case-insensitive substring matches, ANDed when more than one is supplied.
type RouteSearchFilters struct {
	Query         string
	StartLocation string
	EndLocation   string
}

// RouteActiveRideRow is one row of the route search join
// (routes x in_progress rides x drivers), ordered by route name then
// ride start time descending.
type RouteActiveRideRow struct {
	RouteID                  string  `db:"route_id"`
	RouteName                string  `db:"route_name"`
	RouteDescription         *string `db:"route_description"`
	StartLocation            string  `db:"start_location"`
	EndLocation              string  `db:"end_location"`
	EstimatedDurationMinutes *int    `db:"estimated_duration_minutes"`
	DriverName               string  `db:"driver_name"`
	RideID                   string  `db:"ride_id"`
	StartedAt                int64   `db:"started_at"`
}

// ActiveRideSummary is one active ride embedded in a search result
type ActiveRideSummary struct {
	ID        string `json:"id"`
	StartedAt int64  `json:"started_at"`
}

// RouteWithActiveRides is one route search result with its active rides grouped in
type RouteWithActiveRides struct {
	ID                       string              `json:"id"`
	Name                     string              `json:"name"`
	Description              *string             `json:"description,omitempty"`
	StartLocation            string              `json:"start_location"`
	EndLocation              string              `json:"end_location"`
	EstimatedDurationMinutes *int                `json:"estimated_duration_minutes,omitempty"`
	DriverName               string              `json:"driver_name"`
	ActiveRides              []ActiveRideSummary `json:"active_rides"`
}
