package apierr

import (
	"errors"
	"fmt"
	"net/http"

	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From maps an error onto an HTTP status and code using its sentinel kind.
// Errors that are already *Error pass through unchanged.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	switch apperr.Kind(err) {
	case apperr.ErrNotFound:
		return New(http.StatusNotFound, "not_found", err)
	case apperr.ErrInvalidArgument:
		return New(http.StatusBadRequest, "invalid_argument", err)
	case apperr.ErrUnauthorized:
		return New(http.StatusUnauthorized, "unauthorized", err)
	case apperr.ErrServiceUnavailable:
		return New(http.StatusInternalServerError, "service_unavailable", err)
	default:
		return New(http.StatusInternalServerError, "internal", err)
	}
}
