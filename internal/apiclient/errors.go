package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Backend error codes with dedicated handling.
const (
	CodeSessionExpired     = "SESSION_EXPIRED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
)

var (
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

type Kind int

const (
	// KindNetwork covers transport failures: no response was received.
	KindNetwork Kind = iota + 1
	// KindAuth covers 401/403 responses.
	KindAuth
	// KindValidation covers 422 responses.
	KindValidation
	// KindApplication covers every other error response, including
	// responses that could not be decoded.
	KindApplication
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindApplication:
		return "application"
	}
	return "unknown"
}

// Error is a failed backend call.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("api %s error (%d): %s", e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("api %s error: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrSessionExpired:
		return e.Code == CodeSessionExpired
	case ErrInvalidCredentials:
		return e.Code == CodeInvalidCredentials
	case ErrUnauthorized:
		return e.Kind == KindAuth
	}
	return false
}

// KindOf returns the kind of an *Error anywhere in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// StatusOf returns the HTTP status of an *Error in err's chain, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusUnprocessableEntity:
		return KindValidation
	}
	return KindApplication
}
