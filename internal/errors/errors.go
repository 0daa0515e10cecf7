// Package errors provides centralized error definitions and error handling utilities
// for solarsizer. It defines domain-specific errors, semantic error types,
// error constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// Domain-specific errors represent failures from specific subsystems:
//   - ResolutionError: the bill resolver could not produce a record
//   - MalformedRecordError: a record arrived but carries invalid values
//   - DerivationError: the sizing engine failed unexpectedly
//   - NavigationError: a view could not be resolved or constructed
//
// Semantic errors represent common error conditions:
//   - ValidationError: invalid input or configuration
//
// [ErrStaleOperation] marks a superseded fetch. It is bookkeeping only and is
// never shown to users.
//
// # Usage
//
//	err := errors.NewResolutionError(errors.UnknownReference, "ABC-123", nil)
//	if errors.Is(err, errors.ErrUnknownReference) { ... }
//
//	var resErr *errors.ResolutionError
//	if errors.As(err, &resErr) { ... }
//
//	msg := errors.UserMessage(err) // safe to display
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Resolution sentinel errors
var (
	// ErrUnknownReference indicates the resolver has no bill for the reference.
	ErrUnknownReference = New("unknown bill reference")
	// ErrMalformedReference indicates the reference string is not well formed.
	ErrMalformedReference = New("malformed bill reference")
	// ErrResolverUnreachable indicates the backing lookup could not be reached.
	ErrResolverUnreachable = New("bill lookup unreachable")
)

// Record and derivation sentinel errors
var (
	// ErrMalformedRecord indicates a bill record with invalid values.
	ErrMalformedRecord = New("malformed bill record")
	// ErrDerivationFailed indicates the sizing engine could not produce a quote.
	ErrDerivationFailed = New("quote derivation failed")
	// ErrStaleOperation marks the result of a superseded fetch.
	ErrStaleOperation = New("stale operation discarded")
)

// Navigation sentinel errors
var (
	// ErrRouteNotFound indicates no route (and no default route) matched a path.
	ErrRouteNotFound = New("route not found")
	// ErrViewConstruction indicates a view factory failed.
	ErrViewConstruction = New("view construction failed")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// SizerError is the base interface for all solarsizer errors.
type SizerError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// ResolutionError
// -----------------------------------------------------------------------------

// ResolutionKind classifies why a bill reference could not be resolved.
type ResolutionKind int

const (
	// UnknownReference means the lookup answered but has no such bill.
	UnknownReference ResolutionKind = iota
	// MalformedReference means the reference itself is not valid.
	MalformedReference
	// Unreachable means the lookup could not be completed at all.
	Unreachable
)

// String returns the string representation of the kind.
func (k ResolutionKind) String() string {
	switch k {
	case UnknownReference:
		return "unknown_reference"
	case MalformedReference:
		return "malformed_reference"
	case Unreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

func (k ResolutionKind) sentinel() error {
	switch k {
	case MalformedReference:
		return ErrMalformedReference
	case Unreachable:
		return ErrResolverUnreachable
	default:
		return ErrUnknownReference
	}
}

// ResolutionError reports that the resolver could not produce a bill record.
//
// Example:
//
//	err := errors.NewResolutionError(errors.UnknownReference, "ABC-123", nil).
//		WithSuggestion("ABC-124")
//	fmt.Println(err) // "no bill found for reference ABC-123 (did you mean ABC-124?)"
type ResolutionError struct {
	baseError
	Kind       ResolutionKind
	Reference  string
	Suggestion string
}

// NewResolutionError creates a new ResolutionError. Unreachable errors are
// retryable; the other kinds are not.
func NewResolutionError(kind ResolutionKind, reference string, cause error) *ResolutionError {
	return &ResolutionError{
		baseError: baseError{
			message:    kind.sentinel().Error(),
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  kind == Unreachable,
			userFacing: true,
		},
		Kind:      kind,
		Reference: reference,
	}
}

// WithSuggestion adds a "did you mean" reference.
func (e *ResolutionError) WithSuggestion(reference string) *ResolutionError {
	e.Suggestion = reference
	return e
}

// WithSeverity sets the error severity.
func (e *ResolutionError) WithSeverity(s Severity) *ResolutionError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *ResolutionError) Error() string {
	var msg string
	switch e.Kind {
	case MalformedReference:
		msg = fmt.Sprintf("%q is not a valid bill reference", e.Reference)
	case Unreachable:
		msg = "the bill lookup service could not be reached"
		if e.Reference != "" {
			msg = fmt.Sprintf("could not look up bill %s: the bill lookup service could not be reached", e.Reference)
		}
	default:
		msg = fmt.Sprintf("no bill found for reference %s", e.Reference)
	}
	if e.Suggestion != "" {
		msg = fmt.Sprintf("%s (did you mean %s?)", msg, e.Suggestion)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Is checks if this error matches the target.
func (e *ResolutionError) Is(target error) bool {
	if _, ok := target.(*ResolutionError); ok {
		return true
	}
	if target == e.Kind.sentinel() {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// MalformedRecordError
// -----------------------------------------------------------------------------

// MalformedRecordError reports a bill record that is structurally present but
// carries values the sizing engine must not derive from.
//
// Example:
//
//	err := errors.NewMalformedRecordError("unitsConsumed", -4.0, "must not be negative")
//	fmt.Println(err) // "bill record field unitsConsumed must not be negative (got -4)"
type MalformedRecordError struct {
	baseError
	Reference string
	Field     string
	Value     any
}

// NewMalformedRecordError creates a new MalformedRecordError.
func NewMalformedRecordError(field string, value any, message string) *MalformedRecordError {
	return &MalformedRecordError{
		baseError: baseError{
			message:    message,
			cause:      ErrMalformedRecord,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
		Field: field,
		Value: value,
	}
}

// WithReference adds the bill reference to the error context.
func (e *MalformedRecordError) WithReference(reference string) *MalformedRecordError {
	e.Reference = reference
	return e
}

// Error returns the formatted error message.
func (e *MalformedRecordError) Error() string {
	prefix := "bill record"
	if e.Reference != "" {
		prefix = fmt.Sprintf("bill record %s", e.Reference)
	}
	if e.Value != nil {
		return fmt.Sprintf("%s field %s %s (got %v)", prefix, e.Field, e.message, e.Value)
	}
	return fmt.Sprintf("%s field %s %s", prefix, e.Field, e.message)
}

// Is checks if this error matches the target.
func (e *MalformedRecordError) Is(target error) bool {
	if _, ok := target.(*MalformedRecordError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// DerivationError
// -----------------------------------------------------------------------------

// DerivationError reports an unexpected failure inside the sizing engine.
type DerivationError struct {
	baseError
	Reference string
}

// NewDerivationError creates a new DerivationError.
func NewDerivationError(reference string, cause error) *DerivationError {
	return &DerivationError{
		baseError: baseError{
			message:    "could not size a system for this bill",
			cause:      cause,
			severity:   SeverityCritical,
			retryable:  false,
			userFacing: false,
		},
		Reference: reference,
	}
}

// Error returns the formatted error message.
func (e *DerivationError) Error() string {
	prefix := "derivation error"
	if e.Reference != "" {
		prefix = fmt.Sprintf("derivation error [reference=%s]", e.Reference)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *DerivationError) Is(target error) bool {
	if _, ok := target.(*DerivationError); ok {
		return true
	}
	if target == ErrDerivationFailed {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// NavigationError
// -----------------------------------------------------------------------------

// NavigationError reports a failed view transition.
//
// Example:
//
//	err := errors.NewNavigationError("/missing", errors.ErrRouteNotFound)
//	fmt.Println(err) // "navigation error [path=/missing]: route not found"
type NavigationError struct {
	baseError
	Path string
}

// NewNavigationError creates a new NavigationError.
func NewNavigationError(path string, cause error) *NavigationError {
	return &NavigationError{
		baseError: baseError{
			message:    "",
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: false,
		},
		Path: path,
	}
}

// Error returns the formatted error message.
func (e *NavigationError) Error() string {
	prefix := "navigation error"
	if e.Path != "" {
		prefix = fmt.Sprintf("navigation error [path=%s]", e.Path)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return prefix
}

// Is checks if this error matches the target.
func (e *NavigationError) Is(target error) bool {
	if _, ok := target.(*NavigationError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("route path cannot be empty")
//	err = err.WithField("path").WithValue("")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Reason returns the bare message without field or value context.
func (e *ValidationError) Reason() string {
	return e.message
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var sizerErr SizerError
	if As(err, &sizerErr) {
		return sizerErr.IsRetryable()
	}

	return Is(err, ErrResolverUnreachable)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var sizerErr SizerError
	if As(err, &sizerErr) {
		return sizerErr.IsUserFacing()
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement SizerError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var sizerErr SizerError
	if As(err, &sizerErr) {
		return sizerErr.Severity()
	}

	return SeverityError
}

// genericFailure is shown in place of errors that are not safe to display.
const genericFailure = "something went wrong while preparing your quote"

// UserMessage returns the message a view shows for a failed fetch.
// User-facing errors render their own text, everything else is replaced by
// a generic message so internal detail never reaches the screen.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsUserFacing(err) {
		return err.Error()
	}
	return genericFailure
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
