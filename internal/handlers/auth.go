package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"bustracker-backend/internal/database"
	"bustracker-backend/internal/middleware"
	"bustracker-backend/internal/models"
	"bustracker-backend/pkg/utils"
)

type SignupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Phone    *string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

func createToken(user *models.User) (string, error) {
	jwtSecret := os.Getenv("APP_JWT_SECRET")
	if jwtSecret == "" {
		return "", jwt.ErrTokenUnverifiable
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"name":    user.Name,
		"role":    user.Role,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
	})

	return token.SignedString([]byte(jwtSecret))
}

// Signup creates a new driver or passenger account and logs it in.
func Signup(users *database.UserQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Email == "" || req.Password == "" || req.Name == "" {
			utils.RespondError(w, http.StatusBadRequest, "email, password and name are required")
			return
		}
		if req.Role != models.RoleDriver && req.Role != models.RoleUser {
			utils.RespondError(w, http.StatusBadRequest, "role must be 'driver' or 'user'")
			return
		}
		if len(req.Password) < 6 {
			utils.RespondError(w, http.StatusBadRequest, "password must be at least 6 characters")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		user, err := users.Create(r.Context(), req.Email, string(hash), req.Name, req.Role, req.Phone)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		tokenString, err := createToken(user)
		if err != nil {
			log.Printf("❌ Failed to create token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create token")
			return
		}

		log.Printf("✅ Signup: %s (%s)", user.Email, user.Role)
		utils.RespondJSON(w, http.StatusCreated, AuthResponse{
			Token: tokenString,
			User:  user.ToUserResponse(),
		})
	}
}

// Login verifies credentials and issues a JWT.
func Login(users *database.UserQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := users.ByEmail(r.Context(), req.Email)
		if err != nil {
			log.Printf("❌ Login failed for %s", req.Email)
			utils.RespondError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			log.Printf("❌ Invalid password for: %s", req.Email)
			utils.RespondError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		tokenString, err := createToken(user)
		if err != nil {
			log.Printf("❌ Failed to create token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create token")
			return
		}

		log.Printf("✅ Login successful: %s (%s)", user.Email, user.Role)
		utils.RespondJSON(w, http.StatusOK, AuthResponse{
			Token: tokenString,
			User:  user.ToUserResponse(),
		})
	}
}

// Me returns the authenticated user's profile.
func Me(users *database.UserQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := users.ByID(r.Context(), claims.UserID)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, user.ToUserResponse())
	}
}
