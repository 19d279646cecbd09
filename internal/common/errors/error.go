package errors

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrAuthRequired    = errors.New("sign in required")
	ErrValidation      = errors.New("invalid input")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNetwork         = errors.New("network error")
	ErrServer          = errors.New("server rejected request")
	ErrParse           = errors.New("malformed response")
	ErrStaleResponse   = errors.New("response superseded by identity change")
	ErrEmptyAuth       = errors.New("missing authorization")
	ErrTokenInvalid    = errors.New("invalid token")
	ErrFailedHashToken = errors.New("failed hashing token")
	ErrNotFound        = errors.New("not found")
)

// ServerError is a non-2xx answer from the storefront API. Message is what the server said,
// or a fallback when the body carried nothing usable.
type ServerError struct {
	Message    string
	StatusCode int
}

func (e *ServerError) Error() string {
	return e.Message
}

func (e *ServerError) Is(target error) bool {
	if target == ErrServer {
		return true
	}
	return target == ErrNotFound && e.StatusCode == 404
}

func NewServerError(statusCode int, message string) *ServerError {
	return &ServerError{StatusCode: statusCode, Message: message}
}

// Message returns the text a user should see for err.
func Message(err error) string {
	var serverErr *ServerError
	var validationErr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &serverErr):
		return serverErr.Message
	case errors.Is(err, ErrNetwork):
		return MessageNetwork
	case errors.Is(err, ErrParse):
		return MessageUnknown
	case errors.Is(err, ErrAuthRequired):
		return MessageSignIn
	case errors.Is(err, ErrEmptyCart):
		return MessageEmptyCart
	case errors.Is(err, ErrStaleResponse):
		return MessageStale
	case errors.As(err, &validationErr):
		return validationErr.Error()
	default:
		return MessageUnknown
	}
}

const (
	MessageUnknown   = "an unknown error occurred"
	MessageNetwork   = "network error, could not reach the server"
	MessageSignIn    = "please sign in to continue"
	MessageEmptyCart = "your cart is empty"
	MessageStale     = "your cart was reloaded before the request finished"
)

// ValidationError is a locally rejected input; it never reaches the network.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Detail)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}

func HandleError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
