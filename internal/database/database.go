package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create users table
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('driver', 'user')),
			phone TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create routes table
		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			driver_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			start_location TEXT NOT NULL,
			end_location TEXT NOT NULL,
			estimated_duration_minutes INT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (driver_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create rides table
		`CREATE TABLE IF NOT EXISTS rides (
			id TEXT PRIMARY KEY,
			route_id TEXT NOT NULL,
			driver_id TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('pending', 'in_progress', 'ended')),
			started_at BIGINT,
			ended_at BIGINT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (route_id) REFERENCES routes(id) ON DELETE CASCADE,
			FOREIGN KEY (driver_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create location_updates table
		// timestamp is server-assigned epoch milliseconds so that the poller's
		// strictly-greater watermark stays monotonic within a one-second window
		`CREATE TABLE IF NOT EXISTS location_updates (
			id BIGSERIAL PRIMARY KEY,
			ride_id TEXT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			speed DOUBLE PRECISION,
			heading DOUBLE PRECISION,
			timestamp BIGINT NOT NULL,
			FOREIGN KEY (ride_id) REFERENCES rides(id) ON DELETE CASCADE
		)`,

		// At most one in_progress ride per driver. Two concurrent start
		// requests race on this index; exactly one insert wins and the loser
		// surfaces a unique violation mapped to a conflict error.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_rides_one_active_per_driver
			ON rides(driver_id) WHERE status = 'in_progress'`,

		// Create indexes
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_routes_driver_id ON routes(driver_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rides_driver_id ON rides(driver_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rides_route_id ON rides(route_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rides_status ON rides(status)`,
		`CREATE INDEX IF NOT EXISTS idx_location_updates_ride_time ON location_updates(ride_id, timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_location_updates_timestamp ON location_updates(timestamp)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
