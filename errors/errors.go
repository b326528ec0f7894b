// Package errors provides standardized error handling patterns for the
// lairedis bridge. It includes error classification, standard error
// variables, and helper functions for consistent error wrapping and
// classification across the system.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/pkg/retry"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorTransient represents temporary errors that may be retried
	ErrorTransient ErrorClass = iota
	// ErrorInvalid represents errors due to invalid input or state
	ErrorInvalid
	// ErrorFatal represents unrecoverable errors that should stop processing
	ErrorFatal
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Bridge lifecycle errors
	ErrNotInitialized     = errors.New("bridge not initialized")
	ErrAlreadyInitialized = errors.New("bridge already initialized")

	// Operation errors
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrRemoteFailure         = errors.New("remote agent returned failure")
	ErrBufferOverflow        = errors.New("caller buffer too small")
	ErrNotImplemented        = errors.New("not implemented")
	ErrTimeout               = errors.New("timed out waiting for response")

	// ErrProtocolDesync indicates the response stream violated the
	// request/response contract (wrong field count, empty success
	// response). Always classified fatal: it means transport or remote
	// agent corruption, never a normal failure.
	ErrProtocolDesync = errors.New("protocol desynchronization")

	// Channel errors
	ErrNoConnection        = errors.New("no connection available")
	ErrChannelClosed       = errors.New("channel closed")
	ErrInvalidMessage      = errors.New("invalid message format")
	ErrUnknownNotification = errors.New("unknown notification type")

	// Identifier errors
	ErrNullObjectID       = errors.New("null object id")
	ErrMalformedObjectID  = errors.New("malformed object id")
	ErrStorageUnavailable = errors.New("counter storage unavailable")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// RemoteError carries the verbatim non-success status returned by the
// remote agent. It matches ErrRemoteFailure under errors.Is.
type RemoteError struct {
	Status string
}

// Error implements the error interface
func (re *RemoteError) Error() string {
	return fmt.Sprintf("remote agent returned failure: %s", re.Status)
}

// Is reports whether target is ErrRemoteFailure
func (re *RemoteError) Is(target error) bool {
	return target == ErrRemoteFailure
}

// Remote creates a RemoteError for a non-success status string
func Remote(status string) error {
	return &RemoteError{Status: status}
}

// OverflowError reports the required length for an undersized list buffer.
// It matches ErrBufferOverflow under errors.Is.
type OverflowError struct {
	Required uint32
}

// Error implements the error interface
func (oe *OverflowError) Error() string {
	return fmt.Sprintf("caller buffer too small: required %d entries", oe.Required)
}

// Is reports whether target is ErrBufferOverflow
func (oe *OverflowError) Is(target error) bool {
	return target == ErrBufferOverflow
}

// Overflow creates an OverflowError carrying the required length
func Overflow(required uint32) error {
	return &OverflowError{Required: required}
}

// IsTransient checks if an error is transient and may be retried by the caller
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorTransient
	}

	if errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrNoConnection) ||
		errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	transientPatterns := []string{
		"timeout",
		"connection",
		"network",
		"temporary",
		"unavailable",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// IsFatal checks if an error is fatal and should stop processing
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorFatal
	}

	return errors.Is(err, ErrProtocolDesync) ||
		errors.Is(err, ErrInsufficientResources)
}

// IsInvalid checks if an error is due to invalid input or state
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInvalid
	}

	return errors.Is(err, ErrNotInitialized) ||
		errors.Is(err, ErrAlreadyInitialized) ||
		errors.Is(err, ErrInvalidMessage) ||
		errors.Is(err, ErrMalformedObjectID) ||
		errors.Is(err, ErrNotImplemented)
}

// Classify returns the error class for an error
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorTransient
	}

	if IsFatal(err) {
		return ErrorFatal
	}
	if IsInvalid(err) {
		return ErrorInvalid
	}

	return ErrorTransient
}

// newClassified creates a new classified error
// This is an internal helper - use WrapTransient(), WrapFatal(), or WrapInvalid() instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapTransient wraps an error as transient with context
func WrapTransient(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorTransient, wrappedErr, component, method, wrappedErr.Error())
}

// WrapFatal wraps an error as fatal with context
func WrapFatal(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorFatal, wrappedErr, component, method, wrappedErr.Error())
}

// WrapInvalid wraps an error as invalid with context
func WrapInvalid(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInvalid, wrappedErr, component, method, wrappedErr.Error())
}

// RetryConfig defines configuration for retry operations
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns a sensible default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
	}
}

// ShouldRetry determines if an error should be retried based on config
func (rc RetryConfig) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt >= rc.MaxRetries {
		return false
	}
	return IsTransient(err)
}

// ToRetryConfig converts to the retry framework's Config type. The
// conversion adds 1 to MaxRetries (converting "additional attempts" to
// "total attempts") and enables jitter.
func (rc RetryConfig) ToRetryConfig() retry.Config {
	return retry.Config{
		MaxAttempts:  rc.MaxRetries + 1,
		InitialDelay: rc.InitialDelay,
		MaxDelay:     rc.MaxDelay,
		Multiplier:   rc.BackoffFactor,
		AddJitter:    true,
	}
}
