package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Process exit codes. ExitUser covers bad input and broken configs the user
// can fix; ExitSystem covers I/O and environment failures.
const (
	ExitSuccess = 0
	ExitUser    = 1
	ExitSystem  = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrMissingName indicates a required name field is missing.
	ErrMissingName = crdb.New("name is required")

	// ErrNotFound indicates the referenced server instance is not present.
	ErrNotFound = crdb.New("server not found")

	// ErrOwnership indicates an attempt to modify an entry this tool does not own.
	ErrOwnership = crdb.New("server is not managed by mcpconf")

	// ErrNormalization indicates an instance name has no valid characters left
	// after normalization.
	ErrNormalization = crdb.New("instance name cannot be normalized")

	// ErrMalformedDocument indicates an existing config file is not valid JSON.
	ErrMalformedDocument = crdb.New("malformed JSON document")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = crdb.New("invalid configuration")

	// ErrInvalidArgument indicates user-supplied input was rejected.
	ErrInvalidArgument = crdb.New("invalid argument")
)

// New returns an error with the given message and a stack trace.
func New(msg string) error {
	return crdb.NewWithDepth(1, msg)
}

// Newf returns a formatted error with a stack trace.
func Newf(format string, args ...any) error {
	return crdb.NewWithDepthf(1, format, args...)
}

// Wrap annotates err with msg. Returns nil if err is nil.
func Wrap(err error, msg string) error {
	return crdb.WrapWithDepth(1, err, msg)
}

// Wrapf annotates err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	return crdb.WrapWithDepthf(1, err, format, args...)
}

// Mark makes errors.Is(err, reference) report true while keeping err's message.
func Mark(err, reference error) error {
	return crdb.Mark(err, reference)
}

// WithSecondaryError attaches additional to err without changing err's
// message or what Is matches. Used when cleanup after a failure fails too.
func WithSecondaryError(err, additional error) error {
	return crdb.WithSecondaryError(err, additional)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return crdb.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return crdb.As(err, target)
}

// ExitError carries the process exit code for an error and, optionally, a
// hint printed under the message.
type ExitError struct {
	Err        error
	Code       int
	Suggestion string
}

func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitUser, Suggestion: suggestion}
}

func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitSystem, Suggestion: suggestion}
}

// NewConfigError reports a problem with mcpconf's own config.yaml.
func NewConfigError(err error) *ExitError {
	return NewUserError(err, "Check your mcpconf config.yaml")
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Classify maps an error onto an ExitError. Taxonomy errors caused by user
// input become ExitUser; everything else is treated as a system failure.
// Existing ExitErrors are returned unchanged.
func Classify(err error) *ExitError {
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if As(err, &exitErr) {
		return exitErr
	}

	switch {
	case Is(err, ErrNotFound):
		return NewUserError(err, "Run: mcpconf list")
	case Is(err, ErrOwnership):
		return NewUserError(err, "Only servers created by mcpconf can be changed or removed")
	case Is(err, ErrNormalization):
		return NewUserError(err, "Use letters, digits, '_' or '-' in the instance name")
	case Is(err, ErrMalformedDocument):
		return NewUserError(err, "Fix the JSON syntax or restore a backup")
	case Is(err, ErrInvalidConfig), Is(err, ErrInvalidArgument), Is(err, ErrMissingName):
		return NewUserError(err, "")
	default:
		return NewSystemError(err, "")
	}
}
