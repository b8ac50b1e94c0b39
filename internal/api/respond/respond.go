// Package respond writes the API's JSON response envelope:
// { status, message?, data?, token?, user?, errors? }.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/cashtrackr/cashtrackr-be/internal/validation"
)

// Envelope is the wire shape of every response body.
type Envelope struct {
	Status  string                  `json:"status"`
	Message string                  `json:"message,omitempty"`
	Data    any                     `json:"data,omitempty"`
	Token   string                  `json:"token,omitempty"`
	User    any                     `json:"user,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// JSON writes an envelope with the given status code.
func JSON(w http.ResponseWriter, code int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(env)
}

// Success writes a success envelope carrying only a message.
func Success(w http.ResponseWriter, code int, message string) {
	JSON(w, code, Envelope{Status: "success", Message: message})
}

// Data writes a success envelope carrying a data payload.
func Data(w http.ResponseWriter, code int, data any) {
	JSON(w, code, Envelope{Status: "success", Data: data})
}

// Error writes an error envelope with a client-safe message.
func Error(w http.ResponseWriter, code int, message string) {
	JSON(w, code, Envelope{Status: "error", Message: message})
}

// Internal writes the generic 500 response. Internal detail never reaches
// the client.
func Internal(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Something went wrong")
}

// ValidationFailed writes the 400 response carrying the ordered list of
// field errors.
func ValidationFailed(w http.ResponseWriter, errs []validation.FieldError) {
	JSON(w, http.StatusBadRequest, Envelope{Status: "error", Errors: errs})
}
