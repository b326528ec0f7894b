// Package errors provides standardized error handling patterns for the
// lairedis bridge.
//
// # Overview
//
// The package implements a three-class error classification system:
// Transient (temporary, retryable), Invalid (bad input or state,
// non-retryable), and Fatal (unrecoverable, stop processing).
//
// Classification enables callers to make informed decisions about retries
// and failure escalation without error string matching, and it integrates
// with Go's standard error handling (errors.Is, errors.As, wrapping).
//
// # Quick Start
//
// Use standard error variables for known conditions:
//
//	if !b.initialized {
//	    return errors.ErrNotInitialized
//	}
//
// Wrap errors with context for debugging:
//
//	if err := ch.Send(ctx, key, fields, op); err != nil {
//	    return errors.Wrap(err, "Bridge", "Create", "send command")
//	}
//
// Carry structured detail with the typed constructors:
//
//	return errors.Remote(status)       // matches errors.Is(err, ErrRemoteFailure)
//	return errors.Overflow(required)   // matches errors.Is(err, ErrBufferOverflow)
//
// # Classification
//
//   - Transient: timeouts, lost connections, counter storage unavailable
//   - Invalid: lifecycle misuse, malformed ids, unparseable messages
//   - Fatal: protocol desynchronization, identifier space exhaustion
//
// ErrProtocolDesync is deliberately classified Fatal and must never be
// mapped to a generic failure code: it indicates the response stream no
// longer correlates with requests, and the only safe recovery is a full
// re-initialization of the bridge.
//
// # Wrapping Pattern
//
// All error wrapping follows the format "component.method: action failed: %w".
// WrapTransient, WrapInvalid and WrapFatal additionally attach a class that
// survives the wrapping chain.
package errors
