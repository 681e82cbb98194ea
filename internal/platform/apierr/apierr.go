package apierr

import (
	"fmt"
	"net/http"

	"github.com/avosdroits/avosdroits-backend/internal/domain/aggregates"
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

// FromDomain translates a domain error into its transport representation.
// Unknown shapes collapse to 500 so internals never leak a status by accident.
func FromDomain(err error) *Error {
	code := aggregates.CodeOf(err)
	if code == "" {
		code = aggregates.CodeInternal
	}
	status := http.StatusInternalServerError
	switch code {
	case aggregates.CodeValidation:
		status = http.StatusBadRequest
	case aggregates.CodeNotFound:
		status = http.StatusNotFound
	case aggregates.CodeConflict:
		status = http.StatusConflict
	case aggregates.CodeInvariantViolation, aggregates.CodePreconditionFailed:
		status = http.StatusUnprocessableEntity
	case aggregates.CodeRetryable:
		status = http.StatusServiceUnavailable
	}
	return &Error{Status: status, Code: string(code), Err: err}
}
