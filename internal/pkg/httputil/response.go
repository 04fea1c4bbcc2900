// Package httputil provides HTTP helpers shared by all API modules.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// JSON writes a raw JSON response.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// Text writes a plain text response.
func Text(w http.ResponseWriter, statusCode int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(text)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Message writes {"message": ...} with the given status.
// Used for both acknowledgements and errors.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

// Error writes an error response.
func Error(w http.ResponseWriter, status int, message string) {
	Message(w, status, message)
}

// ValidationError writes a 400 with the first failing field, plus all details.
func ValidationError(w http.ResponseWriter, err error) {
	body := map[string]interface{}{"message": "validation error"}

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		fieldErrors := make([]map[string]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			fieldErrors = append(fieldErrors, map[string]string{
				"field":   e.Field(),
				"message": e.Tag(),
			})
		}
		if len(validationErrors) > 0 {
			first := validationErrors[0]
			body["message"] = "invalid " + first.Field() + ": " + first.Tag()
		}
		body["details"] = fieldErrors
	} else {
		body["details"] = err.Error()
	}

	JSON(w, http.StatusBadRequest, body)
}

// DecodeJSON decodes the request body into dst.
// Writes a 400 response and returns false on malformed input.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		Error(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// IDParam parses a positive integer URL parameter.
// Writes a 400 response and returns false when it is not one.
func IDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		Error(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
