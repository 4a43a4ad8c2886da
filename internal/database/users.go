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

// UserQueries holds the typed access patterns for the users table.
type UserQueries struct {
	db *sqlx.DB
}

func NewUserQueries(db *sqlx.DB) *UserQueries {
	return &UserQueries{db: db}
}

// Create inserts a new user. A duplicate email maps to ErrEmailTaken.
func (q *UserQueries) Create(ctx context.Context, email, passwordHash, name, role string, phone *string) (*models.User, error) {
	user := models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Password:  passwordHash,
		Name:      name,
		Role:      role,
		Phone:     phone,
		CreatedAt: time.Now().Unix(),
		UpdatedAt: time.Now().Unix(),
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password, name, role, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Email, user.Password, user.Name, user.Role, user.Phone,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &user, nil
}

// ByEmail fetches a user by email, including the password hash for login.
func (q *UserQueries) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := q.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

// ByID fetches a user by id.
func (q *UserQueries) ByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := q.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}
