package models

// LocationUpdate represents one persisted GPS position for a ride.
// Timestamps are server-assigned epoch milliseconds; client clocks are not
// trusted. Rows are append-only and expire after the retention window.
type LocationUpdate struct {
	ID        int64    `json:"id" db:"id"`
	RideID    string   `json:"ride_id" db:"ride_id"`
	Latitude  float64  `json:"latitude" db:"latitude"`
	Longitude float64  `json:"longitude" db:"longitude"`
	Speed     *float64 `json:"speed,omitempty" db:"speed"`         // Speed in m/s
	Heading   *float64 `json:"heading,omitempty" db:"heading"`     // Direction of travel (0-360 degrees)
	Timestamp int64    `json:"timestamp" db:"timestamp"`           // Server-side epoch milliseconds
}

// LocationReport is one entry of a driver's batched location upload.
// Coordinate ranges are enforced at this boundary; out-of-range values
// reject the request rather than being clamped.
type LocationReport struct {
	RideID    string   `json:"ride_id" validate:"required"`
	Latitude  float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64  `json:"longitude" validate:"min=-180,max=180"`
	Speed     *float64 `json:"speed,omitempty" validate:"omitempty,min=0"`
	Heading   *float64 `json:"heading,omitempty" validate:"omitempty,min=0,max=360"`
}

// BatchLocationUpdate is the request body for POST /api/location/update
type BatchLocationUpdate struct {
	Updates []LocationReport `json:"updates" validate:"dive"`
}
