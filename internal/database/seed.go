package database

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// SeedUsers inserts demo accounts for local development. Existing emails are
// left untouched.
func SeedUsers(db *sqlx.DB) error {
	seedUsers := []struct {
		Email    string
		Password string
		Name     string
		Role     string
	}{
		{"driver@bustracker.local", "driver123", "Demo Driver", "driver"},
		{"rider@bustracker.local", "rider123", "Demo Rider", "user"},
	}

	for _, u := range seedUsers {
		var exists bool
		if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, u.Email); err != nil {
			return err
		}
		if exists {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		now := time.Now().Unix()
		_, err = db.Exec(
			`INSERT INTO users (id, email, password, name, role, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New().String(), u.Email, string(hash), u.Name, u.Role, now, now,
		)
		if err != nil {
			return err
		}
		log.Printf("🌱 Seeded %s account: %s", u.Role, u.Email)
	}

	return nil
}
