package modeldecl

import (
	"errors"
	"fmt"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType          = "invalid_type"
	CodeRequired             = "required"
	CodeUnknownField         = "unknown_field"
	CodeTooSmall             = "too_small"
	CodeTooBig               = "too_big"
	CodeTooShort             = "too_short"
	CodeTooLong              = "too_long"
	CodePattern              = "pattern"
	CodeInvalidScheme        = "invalid_scheme"
	CodeInvalidFormat        = "invalid_format"
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeParseError           = "parse_error"
	CodeCustom               = "custom"
)

// Error is a single (leaf) validation failure. Field-level and type-level
// checks produce these; ModelError aggregates them by scope.
type Error struct {
	Code    string
	Message string
	Hint    string // Optional: remediation hints, expected formats, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "got":42})
	// for i18n and observability.
	Params map[string]any
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a leaf validation error from a code and message.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf builds a leaf validation error with a formatted message.
func Errorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts a leaf *Error using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsValidation reports whether err belongs to the validation error family
// (a leaf *Error or an aggregate *ModelError).
func IsValidation(err error) bool {
	if _, ok := AsError(err); ok {
		return true
	}
	_, ok := AsModelError(err)
	return ok
}

// UnresolvedError reports a by-name model reference that could not be bound
// to a registered target. It is a definition/configuration failure, not a
// validation failure; IsValidation returns false for it.
type UnresolvedError struct {
	Name string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("modeldecl: unresolved model reference %q", e.Name)
}

// ErrAggregateMerge is the panic value raised when two aggregate error trees
// are installed at the same key. Merging aggregates is unsupported; hitting
// this signals a bug in the caller, not bad input data.
var ErrAggregateMerge = errors.New("modeldecl: merging multiple aggregate validation errors at one key is not supported")
