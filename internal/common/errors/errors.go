// internal/common/errors/errors.go

// Package errors provides standardized error handling for the guidance pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Remote source errors. Individual source failures are recovered via
	// defaults; only the primary source escalates.
	ErrCodeSourceFetchFailed     ErrorCode = "SOURCE_FETCH_FAILED"
	ErrCodeSourceTimeout         ErrorCode = "SOURCE_TIMEOUT"
	ErrCodeSourceResponseInvalid ErrorCode = "SOURCE_RESPONSE_INVALID"
	ErrCodePrimarySourceEmpty    ErrorCode = "PRIMARY_SOURCE_EMPTY"

	// Pipeline errors surfaced to callers.
	ErrCodeGuidanceUnavailable ErrorCode = "GUIDANCE_UNAVAILABLE"

	// Cache errors. Always swallowed by the store; codes exist for logging.
	ErrCodeCacheReadFailed  ErrorCode = "CACHE_READ_FAILED"
	ErrCodeCacheWriteFailed ErrorCode = "CACHE_WRITE_FAILED"

	// Profile persistence errors.
	ErrCodeProfileNotFound    ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeProfileQueryFailed ErrorCode = "PROFILE_QUERY_FAILED"

	// Startup errors.
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
)

// ErrSuperseded marks a load whose target selection changed while it was
// in flight. It is not a failure: callers discard the result and wait for
// the newer invocation to finish.
var ErrSuperseded = stderrors.New("load superseded by a newer request")

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewSourceFetchFailedError wraps a single remote source failure.
func NewSourceFetchFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceFetchFailed,
		Message:   "Remote source request failed",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceTimeoutError marks a source call that exceeded its own budget.
func NewSourceTimeoutError(source string, timeout time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceTimeout,
		Message:   "Remote source timed out",
		Details:   fmt.Sprintf("no response within %s", timeout),
		Retryable: true,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceResponseInvalidError marks a response that failed schema validation.
func NewSourceResponseInvalidError(source, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceResponseInvalid,
		Message:   "Remote source returned an invalid response",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
	}
}

// NewPrimarySourceEmptyError marks the one unrecoverable source outcome:
// the horoscope source produced no life-area results, for which no
// defaults exist.
func NewPrimarySourceEmptyError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePrimarySourceEmpty,
		Message:   "Primary horoscope source returned no results",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGuidanceUnavailableError is the caller-facing failure raised when
// generation failed and no cached fallback exists.
func NewGuidanceUnavailableError(cause error) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      ErrCodeGuidanceUnavailable,
		Message:   "Guidance unavailable",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileNotFoundError reports a missing persisted profile.
func NewProfileNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileNotFound,
		Message:   "Profile not found",
		Details:   id,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileQueryFailedError wraps a profile repository failure.
func NewProfileQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileQueryFailed,
		Message:   "Profile query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError reports a startup configuration problem.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// errorCategories groups codes for logging and metrics labels.
var errorCategories = map[ErrorCode]string{
	ErrCodeSourceFetchFailed:     "source",
	ErrCodeSourceTimeout:         "source",
	ErrCodeSourceResponseInvalid: "source",
	ErrCodePrimarySourceEmpty:    "pipeline",
	ErrCodeGuidanceUnavailable:   "pipeline",
	ErrCodeCacheReadFailed:       "cache",
	ErrCodeCacheWriteFailed:      "cache",
	ErrCodeProfileNotFound:       "profile",
	ErrCodeProfileQueryFailed:    "profile",
	ErrCodeConfigInvalid:         "config",
}

// GetErrorCategory returns the coarse category for a code.
func GetErrorCategory(code ErrorCode) string {
	if cat, ok := errorCategories[code]; ok {
		return cat
	}
	return "internal"
}

// IsRetryable reports whether the error (if a StandardError) may be retried.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// IsGuidanceUnavailable reports whether err is the caller-facing
// guidance failure.
func IsGuidanceUnavailable(err error) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == ErrCodeGuidanceUnavailable
}

// IsSuperseded reports whether err marks a silently dropped stale load.
func IsSuperseded(err error) bool {
	return stderrors.Is(err, ErrSuperseded)
}

// CodeOf extracts the ErrorCode from err, or "" for plain errors.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}
