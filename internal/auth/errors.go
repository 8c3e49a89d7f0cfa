package auth

import (
	"fmt"
	"net/http"
)

// Error codes reported to clients. They are part of the wire contract.
const (
	CodeInvalidEmail      = "auth/invalid-email"
	CodeWeakPassword      = "auth/weak-password"
	CodeEmailAlreadyInUse = "auth/email-already-in-use"
	CodeUserNotFound      = "auth/user-not-found"
	CodeWrongPassword     = "auth/wrong-password"
	CodeUserDisabled      = "auth/user-disabled"
	CodeTooManyRequests   = "auth/too-many-requests"
	CodeUnauthenticated   = "unauthenticated"
	CodePermissionDenied  = "permission-denied"
)

// Error is an authentication failure with a stable code and the HTTP status
// it maps to.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus returns the HTTP status the error maps to.
func (e *Error) HTTPStatus() int {
	return e.Status
}

// ErrorCode returns the stable error code.
func (e *Error) ErrorCode() string {
	return e.Code
}

func newError(status int, code, msg string) *Error {
	return &Error{Status: status, Code: code, Message: msg}
}

var (
	errInvalidEmail      = newError(http.StatusBadRequest, CodeInvalidEmail, "email address is malformed")
	errWeakPassword      = newError(http.StatusBadRequest, CodeWeakPassword, "password must be at least 6 characters")
	errEmailAlreadyInUse = newError(http.StatusConflict, CodeEmailAlreadyInUse, "email is already registered")
	errUserNotFound      = newError(http.StatusNotFound, CodeUserNotFound, "no user with this email")
	errWrongPassword     = newError(http.StatusUnauthorized, CodeWrongPassword, "password does not match")
	errUserDisabled      = newError(http.StatusForbidden, CodeUserDisabled, "user is disabled")
	errUnauthenticated   = newError(http.StatusUnauthorized, CodeUnauthenticated, "missing or invalid token")
)
