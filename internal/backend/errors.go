package backend

import (
	"fmt"
)

// Error is a failure reported by the backend. Code is stable and is what
// callers branch on; Message is diagnostic only.
type Error struct {
	Status  int    `json:"-"`
	ErrCode string `json:"code"`
	Message string `json:"message"`
}

// Error implements error.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.ErrCode, e.Message)
	}
	return e.ErrCode
}

// Code returns the stable error code, e.g. "auth/wrong-password".
func (e *Error) Code() string {
	return e.ErrCode
}

// Codes used by the backend besides the auth/* family.
const (
	CodeUnauthenticated  = "unauthenticated"
	CodePermissionDenied = "permission-denied"
	CodeNotFound         = "not-found"
	CodeInvalidArgument  = "invalid-argument"
	CodeUnavailable      = "unavailable"
	CodeInternal         = "internal"
)

func codeForStatus(status int) string {
	switch {
	case status == 401:
		return CodeUnauthenticated
	case status == 403:
		return CodePermissionDenied
	case status == 404:
		return CodeNotFound
	case status == 429 || status == 503:
		return CodeUnavailable
	case status >= 400 && status < 500:
		return CodeInvalidArgument
	default:
		return CodeInternal
	}
}
