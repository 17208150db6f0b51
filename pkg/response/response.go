// Package response writes the JSON envelope used by every endpoint.
//
// Every body has the shape {status, message?, data?, errors?}; clients key
// off the embedded status rather than parsing a bare payload.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/campuseats/canteen/pkg/logger"
)

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Warn("response: encode failed", "error", err)
	}
}

// Success sends a 200 with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, envelope{Status: http.StatusOK, Data: data})
}

// Created sends a 201 with data.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, envelope{Status: http.StatusCreated, Data: data})
}

// NoContent sends a 204 with an empty body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error sends a JSON error with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, envelope{Status: status, Message: message})
}

// ValidationError sends a 422 carrying the field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}
