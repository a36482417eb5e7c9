package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mlakar/inventar/internal/model"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// storeError maps store/auth error kinds to HTTP responses. Unrecognized
// errors are logged and reported as a generic 500 so internals don't leak.
func storeError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, model.ErrConstraintViolation):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrPermissionDenied):
		jsonError(w, http.StatusForbidden, "insufficient permissions")
	case errors.Is(err, model.ErrAuthenticationFailed):
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, model.ErrInvalidToken):
		jsonError(w, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, model.ErrUnknownQuantity):
		jsonError(w, http.StatusNotFound, "quantity unknown")
	default:
		slog.Error(action, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
