package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// APIError is a client-facing failure; only Message reaches the response body.
type APIError struct {
	Code    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

var (
	ErrMissingFields      = &APIError{"MissingFields", http.StatusBadRequest, "Missing fields"}
	ErrInvalidRole        = &APIError{"InvalidRole", http.StatusBadRequest, "Invalid role"}
	ErrInvalidType        = &APIError{"InvalidType", http.StatusBadRequest, "Invalid report type"}
	ErrInvalidStatus      = &APIError{"InvalidStatus", http.StatusBadRequest, "Invalid status"}
	ErrDuplicateUser      = &APIError{"DuplicateUser", http.StatusConflict, "User ID already exists"}
	ErrInvalidCredentials = &APIError{"InvalidCredentials", http.StatusUnauthorized, "Invalid credentials"}
	ErrRoleMismatch       = &APIError{"RoleMismatch", http.StatusForbidden, "Role mismatch"}
	ErrMissingEmail       = &APIError{"MissingEmail", http.StatusBadRequest, "Email is required"}
	ErrEmailNotRegistered = &APIError{"EmailNotRegistered", http.StatusNotFound, "Email not registered"}
	ErrInvalidRequest     = &APIError{"InvalidRequest", http.StatusBadRequest, "Invalid request"}
	ErrNotFound           = &APIError{"NotFound", http.StatusNotFound, "Not found"}
)

const internalErrorMessage = "Internal server error"

// fail writes err as a JSON error. Anything that is not an APIError is
// logged and reported as a generic 500.
func (h *Handlers) fail(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	}
	h.log.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
}

// bindError maps a binding failure: a missing required field is
// MissingFields, anything else (bad JSON, wrong types) is InvalidRequest.
func bindError(err error) *APIError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if fe.Tag() == "required" {
				return ErrMissingFields
			}
		}
	}
	return ErrInvalidRequest
}
