package apierror

// domain.go
// Typed domain errors raised by the invoice/payment core. Handlers map them
// to HTTP statuses via Status(); services and workers match them with
// errors.As to decide retry/idempotency behavior.

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError signals malformed input (negative amounts, missing fields).
// Never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidStateError signals an operation not permitted in the entity's
// current status (e.g. cancelling a paid invoice).
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

func InvalidState(format string, args ...interface{}) *InvalidStateError {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError signals a uniqueness violation (duplicate invoice number,
// duplicate ledger transaction). The duplicate-transaction case is resolved
// as success-via-idempotency by the payment service, not surfaced.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func Conflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// GatewayError signals a transport or API failure talking to the payment
// processor. Invoice state is left untouched by the caller.
type GatewayError struct {
	Msg string
	Err error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *GatewayError) Unwrap() error { return e.Err }

func Gateway(err error, format string, args ...interface{}) *GatewayError {
	return &GatewayError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// PaymentFailedError signals that the processor rejected a capture. A failed
// ledger entry has already been recorded when this is raised.
type PaymentFailedError struct {
	OrderID string
	Msg     string
}

func (e *PaymentFailedError) Error() string { return e.Msg }

// Status maps a domain error to its HTTP status code. Unknown errors map to
// 500 so the middleware can log them without leaking detail.
func Status(err error) int {
	var (
		ve *ValidationError
		se *InvalidStateError
		ce *ConflictError
		ge *GatewayError
		pe *PaymentFailedError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &se):
		return http.StatusConflict
	case errors.As(err, &ce):
		return http.StatusConflict
	case errors.As(err, &ge):
		return http.StatusBadGateway
	case errors.As(err, &pe):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
