// Package errors provides the sentinel errors and wrapping helpers used across arlo.
// It extends the standard errors package with context wrapping and transport
// error classification.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Sentinel errors for common failure scenarios
var (
	// ErrTimeout indicates an operation exceeded its time limit
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates an operation was canceled before it finished
	ErrCanceled = errors.New("operation canceled")

	// ErrConnectionFailed indicates a connection could not be established
	ErrConnectionFailed = errors.New("connection failed")

	// ErrReadFailed indicates the response stream broke while reading
	ErrReadFailed = errors.New("read failed")

	// ErrInvalidResponse indicates a response could not be parsed or was malformed
	ErrInvalidResponse = errors.New("invalid response")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates authentication or authorization failed
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimit indicates a rate limit was exceeded
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrServiceUnavailable indicates a service is temporarily unavailable
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrUnsupportedScheme indicates a URL scheme with no transport behind it
	ErrUnsupportedScheme = errors.New("unsupported url scheme")

	// ErrPayloadTooLarge indicates a response body exceeded the configured cap
	ErrPayloadTooLarge = errors.New("payload too large")
)

type wrappedError struct {
	msg   string
	cause error
}

func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.cause
}

// classifiedError tags a raw error with a sentinel without changing its message.
type classifiedError struct {
	kind  error
	cause error
}

func (e *classifiedError) Error() string { return e.cause.Error() }

func (e *classifiedError) Unwrap() []error { return []error{e.kind, e.cause} }

func classify(kind, cause error) error {
	return &classifiedError{kind: kind, cause: cause}
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: msg, cause: err}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: fmt.Sprintf(format, args...), cause: err}
}

// Is is errors.Is.
func Is(err, target error) bool { return errors.Is(err, target) }

// As is errors.As.
func As(err error, target any) bool { return errors.As(err, target) }

// Unwrap is errors.Unwrap.
func Unwrap(err error) error { return errors.Unwrap(err) }

// New is errors.New.
func New(msg string) error { return errors.New(msg) }

// Errorf is fmt.Errorf.
func Errorf(format string, args ...any) error { return fmt.Errorf(format, args...) }

// Join is errors.Join.
func Join(errs ...error) error { return errors.Join(errs...) }

// IsTimeout reports whether the error is a timeout error
func IsTimeout(err error) bool { return Is(err, ErrTimeout) }

// IsCanceled reports whether the error is a cancellation
func IsCanceled(err error) bool { return Is(err, ErrCanceled) }

// IsConnectionFailed reports whether the error is a connection failed error
func IsConnectionFailed(err error) bool { return Is(err, ErrConnectionFailed) }

// IsReadFailed reports whether the error is a stream read error
func IsReadFailed(err error) bool { return Is(err, ErrReadFailed) }

// Classify attaches the matching sentinel to a raw transport error so callers
// can branch with Is. Errors that already carry a sentinel are returned as is.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		ErrTimeout, ErrCanceled, ErrConnectionFailed, ErrReadFailed,
		ErrInvalidResponse, ErrNotFound, ErrUnauthorized, ErrRateLimit,
		ErrServiceUnavailable, ErrUnsupportedScheme, ErrPayloadTooLarge,
	} {
		if Is(err, known) {
			return err
		}
	}

	switch {
	case Is(err, context.DeadlineExceeded):
		return classify(ErrTimeout, err)
	case Is(err, context.Canceled):
		return classify(ErrCanceled, err)
	}

	var netErr net.Error
	if As(err, &netErr) && netErr.Timeout() {
		return classify(ErrTimeout, err)
	}

	var opErr *net.OpError
	if As(err, &opErr) && opErr.Op == "dial" {
		return classify(ErrConnectionFailed, err)
	}

	var dnsErr *net.DNSError
	if As(err, &dnsErr) {
		return classify(ErrConnectionFailed, err)
	}

	var urlErr *url.Error
	if As(err, &urlErr) {
		return classify(ErrConnectionFailed, err)
	}

	return err
}
