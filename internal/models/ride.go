package models

// RideStatus represents the lifecycle state of a ride
type RideStatus string

const (
	RideStatusPending    RideStatus = "pending"     // Created, not yet started
	RideStatusInProgress RideStatus = "in_progress" // Ride underway, may receive locations
	RideStatusEnded      RideStatus = "ended"       // Terminal, immutable
)

// Ride represents one trip instance of a route.
// At most one ride per driver may be in_progress at any time; the database
// enforces this with a partial unique index on (driver_id).
type Ride struct {
	ID        string     `json:"id" db:"id"`
	RouteID   string     `json:"route_id" db:"route_id"`
	DriverID  string     `json:"driver_id" db:"driver_id"`
	Status    RideStatus `json:"status" db:"status"`
	StartedAt *int64     `json:"started_at" db:"started_at"`
	EndedAt   *int64     `json:"ended_at" db:"ended_at"`
	CreatedAt int64      `json:"created_at" db:"created_at"`
	UpdatedAt int64      `json:"updated_at" db:"updated_at"`
}

// ActiveRide is the driver's current in_progress ride joined with its route name
type ActiveRide struct {
	Ride
	RouteName string `json:"route_name" db:"route_name"`
}

// RideDetails is the passenger-facing view of an in_progress ride
type RideDetails struct {
	ID                       string          `json:"id"`
	RouteName                string          `json:"route_name"`
	DriverName               string          `json:"driver_name"`
	StartLocation            string          `json:"start_location"`
	EndLocation              string          `json:"end_location"`
	StartedAt                *int64          `json:"started_at"`
	EstimatedDurationMinutes *int            `json:"estimated_duration_minutes,omitempty"`
	LastLocation             *LocationUpdate `json:"last_location,omitempty"`
}

// RideDetailsRow is the joined row backing RideDetails
type RideDetailsRow struct {
	ID                       string `db:"id"`
	RouteName                string `db:"route_name"`
	DriverName               string `db:"driver_name"`
	StartLocation            string `db:"start_location"`
	EndLocation              string `db:"end_location"`
	StartedAt                *int64 `db:"started_at"`
	EstimatedDurationMinutes *int   `db:"estimated_duration_minutes"`
}
