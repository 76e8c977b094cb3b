package errors

import "fmt"

// Convenience functions for common error patterns

// Build-state errors

func StateNotFound(path string) *SiteBuilderError {
	return New(CategoryState, SeverityFatal, "build state file not found").
		WithContext("path", path)
}

func StateInvalid(path string, cause error) *SiteBuilderError {
	return Wrap(cause, CategoryState, SeverityFatal, "build state file is invalid").
		WithContext("path", path)
}

func GateFailure(reason string) *SiteBuilderError {
	return New(CategoryGate, SeverityFatal, fmt.Sprintf("phase gate not satisfied: %s", reason)).
		WithContext("reason", reason)
}

// Config errors

func ConfigNotFound(path string) *SiteBuilderError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

// Capture errors

func CaptureFailed(url string, cause error) *SiteBuilderError {
	return Wrap(cause, CategoryCapture, SeverityError, "screenshot capture failed").
		WithContext("url", url)
}

// Internal errors

func InternalError(message string, cause error) *SiteBuilderError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
