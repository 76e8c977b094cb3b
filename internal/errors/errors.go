// Package errors provides a lightweight structured error type (SiteBuilderError)
// for category-based classification across the validation pipeline and CLI.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a sitebuilder error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Build-state and gate errors
	CategoryState ErrorCategory = "state"
	CategoryGate  ErrorCategory = "gate"

	// Artifact and asset errors
	CategoryManifest   ErrorCategory = "manifest"
	CategoryAsset      ErrorCategory = "asset"
	CategoryProvenance ErrorCategory = "provenance"

	// Runtime and infrastructure errors
	CategoryCapture    ErrorCategory = "capture"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// SiteBuilderError is a structured error with category, severity, and context
type SiteBuilderError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for SiteBuilderError
type ContextFields map[string]any

// Error implements the error interface
func (e *SiteBuilderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *SiteBuilderError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *SiteBuilderError) WithContext(key string, value any) *SiteBuilderError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new SiteBuilderError
func New(category ErrorCategory, severity ErrorSeverity, message string) *SiteBuilderError {
	return &SiteBuilderError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new SiteBuilderError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *SiteBuilderError {
	return &SiteBuilderError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category, unwrapping
// as needed.
func IsCategory(err error, category ErrorCategory) bool {
	var sbe *SiteBuilderError
	if errors.As(err, &sbe) {
		return sbe.Category == category
	}
	return false
}

// GetCategory extracts the category from an error chain, or returns
// CategoryInternal if no SiteBuilderError is present.
func GetCategory(err error) ErrorCategory {
	var sbe *SiteBuilderError
	if errors.As(err, &sbe) {
		return sbe.Category
	}
	return CategoryInternal
}
