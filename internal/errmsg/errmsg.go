// Package errmsg turns backend error codes into the text shown to the user.
package errmsg

import "errors"

// Unknown is shown for any error without a known code.
const Unknown = "An unknown error occurred"

// Coder is implemented by errors that carry a stable backend code
// such as "auth/wrong-password".
type Coder interface {
	Code() string
}

var messages = map[string]string{
	"auth/email-already-in-use": "This email is already in use.",
	"auth/invalid-email":        "The email address is invalid.",
	"auth/weak-password":        "The password is too weak.",
	"auth/user-disabled":        "This user account has been disabled.",
	"auth/user-not-found":       "No user found with this email.",
	"auth/wrong-password":       "Incorrect password.",
	"auth/invalid-credential":   "Invalid email or password.",
	"permission-denied":         "Permission denied.",
}

// Get returns the display message for err. It never returns an empty string.
func Get(err error) string {
	var c Coder
	if err != nil && errors.As(err, &c) {
		if msg, ok := messages[c.Code()]; ok {
			return msg
		}
	}
	return Unknown
}
