// Package errors defines DistError, the classified error every distbuilder
// failure is reported as, and maps its category to a process exit code.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory groups errors by the part of the build that produced them.
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"     // config file missing or malformed
	CategoryValidation ErrorCategory = "validation" // usage: missing or bad flags

	CategoryNetwork ErrorCategory = "network" // publish and notify
	CategoryRuntime ErrorCategory = "runtime" // jlink

	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryArchive    ErrorCategory = "archive"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity selects the log level an error is reported at.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
	SeverityInfo    ErrorSeverity = "info"
)

// DistError is a classified error. Retryable marks transient failures that
// retry.Policy may repeat.
type DistError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields are key/value details shown with verbose errors.
type ContextFields map[string]any

func (e *DistError) Error() string {
	msg := fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *DistError) Unwrap() error { return e.Cause }

// WithContext sets one context field and returns e.
func (e *DistError) WithContext(key string, value any) *DistError {
	if e.Context == nil {
		e.Context = ContextFields{}
	}
	e.Context[key] = value
	return e
}

// Transient marks e as retryable and returns it.
func (e *DistError) Transient() *DistError {
	e.Retryable = true
	return e
}

// New creates a DistError without a cause.
func New(category ErrorCategory, severity ErrorSeverity, message string) *DistError {
	return &DistError{Category: category, Severity: severity, Message: message}
}

// Wrap creates a DistError around cause.
func Wrap(cause error, category ErrorCategory, severity ErrorSeverity, message string) *DistError {
	return &DistError{Category: category, Severity: severity, Message: message, Cause: cause}
}

// As returns the first DistError in err's chain.
func As(err error) (*DistError, bool) {
	var de *DistError
	if stdErrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsCategory reports whether err carries a DistError of category.
func IsCategory(err error, category ErrorCategory) bool {
	de, ok := As(err)
	return ok && de.Category == category
}

// IsRetryable reports whether err is a transient DistError.
func IsRetryable(err error) bool {
	de, ok := As(err)
	return ok && de.Retryable
}

// GetCategory returns err's category; errors that are not DistErrors are
// internal.
func GetCategory(err error) ErrorCategory {
	if de, ok := As(err); ok {
		return de.Category
	}
	return CategoryInternal
}
