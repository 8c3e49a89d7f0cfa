package web

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON body of every API error.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Codes for non-auth API errors.
const (
	CodeUnauthenticated  = "unauthenticated"
	CodePermissionDenied = "permission-denied"
	CodeNotFound         = "not-found"
	CodeInvalidArgument  = "invalid-argument"
	CodeInternal         = "internal"
	CodeTooManyRequests  = "auth/too-many-requests"
)

// WriteJSON writes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		_ = err // Client disconnected
	}
}

// WriteError writes a coded error body.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorBody{Code: code, Message: message})
}
