package transfer

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors.
var (
	ErrNotFound  = errors.New("transfer: resource not found")
	ErrForbidden = errors.New("transfer: access forbidden")
	ErrCancelled = errors.New("transfer: cancelled")
)

// RetryableError wraps a failure assumed to be transient (timeouts,
// connection resets, 5xx responses, rate limiting). The scheduler keeps
// retrying these indefinitely.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// FatalFileError wraps a failure that can never succeed for this file,
// such as a 404 response. The rest of the run continues.
type FatalFileError struct {
	Err error
}

func (e *FatalFileError) Error() string {
	return fmt.Sprintf("fatal: %v", e.Err)
}

func (e *FatalFileError) Unwrap() error {
	return e.Err
}

// StorageError wraps a local storage failure (disk full, permission
// denied). These abort the whole run.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the error should be retried
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// IsStorage reports whether the error indicates an unusable local environment
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// classifyStatus maps a non-2xx HTTP status code to an error. 5xx and 429
// are transient, the remaining 4xx codes can never succeed.
func classifyStatus(code int, status string) error {
	switch {
	case code >= 500 || code == http.StatusTooManyRequests:
		return &RetryableError{Err: fmt.Errorf("server returned %s", status)}
	case code == http.StatusNotFound:
		return &FatalFileError{Err: ErrNotFound}
	case code == http.StatusForbidden:
		return &FatalFileError{Err: ErrForbidden}
	default:
		return &FatalFileError{Err: fmt.Errorf("server returned %s", status)}
	}
}
