package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{ErrPermissionDenied, http.StatusForbidden, "PERMISSION_DENIED"},
		{ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{ErrRideConflict, http.StatusConflict, "RIDE_CONFLICT"},
		{ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
		{ErrInvalidArgument, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{fmt.Errorf("storage broke"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTPUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("no valid rides found for location updates: %w", ErrInvalidArgument)
	httpErr := MapErrorToHTTP(wrapped)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, "no valid rides found for location updates: invalid argument", httpErr.Message)
}
