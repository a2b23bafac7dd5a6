package handler

import (
	"errors"
	"net/http"
)

// HTTPError carries a status code and a stable machine-readable key.
// Message, when set, is shown to the client instead of the status text.
type HTTPError struct {
	Code    int
	Key     string
	Message string
	Err     error
}

func (e HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Key
}

func (e HTTPError) Unwrap() error { return e.Err }

// Is matches another HTTPError with the same code and key.
func (e HTTPError) Is(target error) bool {
	var t HTTPError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Key == e.Key
}

// WithMessage returns a copy of e with a client-facing message.
func (e HTTPError) WithMessage(msg string) HTTPError {
	e.Message = msg
	return e
}

// Wrap returns a copy of e wrapping cause.
func (e HTTPError) Wrap(cause error) HTTPError {
	e.Err = cause
	return e
}

var (
	ErrBadRequest    = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrUnauthorized  = HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized"}
	ErrPaymentNeeded = HTTPError{Code: http.StatusPaymentRequired, Key: "limit_reached"}
	ErrForbidden     = HTTPError{Code: http.StatusForbidden, Key: "forbidden"}
	ErrNotFound      = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrConflict      = HTTPError{Code: http.StatusConflict, Key: "conflict"}
	ErrUnprocessable = HTTPError{Code: http.StatusUnprocessableEntity, Key: "validation_error"}
	ErrInternal      = HTTPError{Code: http.StatusInternalServerError, Key: "internal_error"}
	ErrBadGateway    = HTTPError{Code: http.StatusBadGateway, Key: "upstream_error"}
)

var ErrNilResponse = errors.New("handler returned nil response")
