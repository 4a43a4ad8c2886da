package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func driverToken(t *testing.T) string {
	return signToken(t, jwt.MapClaims{
		"user_id": "driver-1",
		"email":   "driver@example.com",
		"name":    "Test Driver",
		"role":    "driver",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
}

func TestAuthPassesClaimsToContext(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", testSecret)

	var got UserClaims
	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetUserFromContext(r)
		require.True(t, ok)
		got = claims
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/driver/rides/active", nil)
	req.Header.Set("Authorization", "Bearer "+driverToken(t))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "driver-1", got.UserID)
	assert.Equal(t, "driver", got.Role)
	assert.Equal(t, "driver@example.com", got.Email)
}

func TestAuthRejectsBadCredentials(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", testSecret)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + signToken(t, jwt.MapClaims{
			"user_id": "driver-1",
			"role":    "driver",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called)
		})
	}
}

func TestAuthRejectsTokenSignedWithWrongSecret(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "a-different-secret")

	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+driverToken(t))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", testSecret)

	riderToken := signToken(t, jwt.MapClaims{
		"user_id": "user-1",
		"email":   "rider@example.com",
		"name":    "Test Rider",
		"role":    "user",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name     string
		token    string
		wantCode int
	}{
		{"driver allowed", driverToken(t), http.StatusOK},
		{"passenger forbidden", riderToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Auth(RequireRole("driver")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})))

			req := httptest.NewRequest(http.MethodPost, "/api/driver/rides/start", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
