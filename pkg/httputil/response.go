package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/observability"
	"github.com/platinummonkey/stores/pkg/repos"
	"github.com/platinummonkey/stores/pkg/search"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteErrorMessage writes a JSON error response with a custom message
func WriteErrorMessage(w http.ResponseWriter, status int, message string) {
	_ = WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteBadRequest writes a bad request error (400)
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusBadRequest, message)
}

// WriteUnauthorized writes an unauthorized error (401)
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusUnauthorized, message)
}

// WriteForbidden writes a forbidden error (403)
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusForbidden, message)
}

// WriteNotFoundError writes a not found error response (404 Not Found)
func WriteNotFoundError(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusNotFound, message)
}

// WriteConflict writes a conflict error (409)
func WriteConflict(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusConflict, message)
}

// WriteInternalError writes a generic 500; the cause belongs in logs
func WriteInternalError(w http.ResponseWriter) {
	WriteErrorMessage(w, http.StatusInternalServerError, "internal server error")
}

// WriteCreated writes a successful creation response (201 Created) with JSON data
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteSuccess writes a successful response (200 OK) with JSON data
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteNoContent writes a successful response with no content (204 No Content)
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// StatusFor maps a service error to its HTTP status and client-facing message
func StatusFor(err error) (int, string) {
	switch {
	case acl.IsDenied(err):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, repos.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, models.ErrInvalidPayload):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, repos.ErrValidation):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, repos.ErrConflict):
		return http.StatusConflict, "already exists"
	case errors.Is(err, search.ErrDisabled):
		return http.StatusServiceUnavailable, "search is not available"
	case errors.Is(err, search.ErrRemote):
		return http.StatusBadGateway, "search backend error"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// WriteServiceError logs err with the request logger and writes the mapped status.
// Denials keep their resource and reason in the log line only.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := StatusFor(err)

	logger := observability.FromContext(r.Context()).WithError(err).WithField("status", status)
	var denied *acl.DeniedError
	if errors.As(err, &denied) {
		logger = logger.WithFields(map[string]interface{}{
			"resource": string(denied.Resource),
			"action":   string(denied.Action),
			"reason":   string(denied.Reason),
		})
	}

	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed")
	case status == http.StatusForbidden:
		logger.Info("request denied")
	default:
		logger.Debug("request rejected")
	}

	WriteErrorMessage(w, status, message)
}
