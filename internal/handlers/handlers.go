package handlers

import (
	"net/http"

	apperrors "bustracker-backend/internal/errors"
	"bustracker-backend/pkg/utils"
)

// respondDomainError maps a domain error onto the taxonomy and writes it.
func respondDomainError(w http.ResponseWriter, err error) {
	httpErr := apperrors.MapErrorToHTTP(err)
	utils.RespondJSON(w, httpErr.StatusCode, httpErr.ToErrorResponse())
}
