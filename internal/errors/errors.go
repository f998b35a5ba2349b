package errors

import (
	"fmt"
	"time"
)

// Error types for the rbdoc extraction pipeline
type ErrorType string

const (
	// Extraction errors
	ErrorTypeParse   ErrorType = "parse"
	ErrorTypeHandler ErrorType = "handler"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypeFileTooLarge ErrorType = "file_too_large"
	ErrorTypeBinaryFile   ErrorType = "binary_file"
	ErrorTypePermission   ErrorType = "permission"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Output errors
	ErrorTypeExport ErrorType = "export"
)

// ParseError represents a failure to turn a source file into a syntax tree
type ParseError struct {
	Type       ErrorType
	FilePath   string
	Line       int
	Underlying error
	Timestamp  time.Time
}

// NewParseError creates a new parse error
func NewParseError(path string, line int, err error) *ParseError {
	return &ParseError{
		Type:       ErrorTypeParse,
		FilePath:   path,
		Line:       line,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at %s:%d: %v", e.FilePath, e.Line, e.Underlying)
	}
	return fmt.Sprintf("parse error in %s: %v", e.FilePath, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// HandlerError represents a declaration a handler recognized but could not document.
// Handler errors never stop a run; they are reported as diagnostics.
type HandlerError struct {
	Type       ErrorType
	Handler    string
	FilePath   string
	Line       int
	Underlying error
	Timestamp  time.Time
}

// NewHandlerError creates a new handler error
func NewHandlerError(handler string, err error) *HandlerError {
	return &HandlerError{
		Type:       ErrorTypeHandler,
		Handler:    handler,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithLocation adds the statement location to the error
func (e *HandlerError) WithLocation(path string, line int) *HandlerError {
	e.FilePath = path
	e.Line = line
	return e
}

// Error implements the error interface
func (e *HandlerError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s handler failed at %s:%d: %v", e.Handler, e.FilePath, e.Line, e.Underlying)
	}
	return fmt.Sprintf("%s handler failed: %v", e.Handler, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *HandlerError) Unwrap() error {
	return e.Underlying
}

// FileError represents a file-related error
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileNotFound
	if isPermissionError(err) {
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// NewFileTooLargeError reports a file skipped because of the size limit
func NewFileTooLargeError(path string, size, limit int64) *FileError {
	return &FileError{
		Type:       ErrorTypeFileTooLarge,
		Path:       path,
		Operation:  "read",
		Underlying: fmt.Errorf("size %d exceeds limit %d", size, limit),
		Timestamp:  time.Now(),
	}
}

// NewBinaryFileError reports a source file whose content is not text
func NewBinaryFileError(path string) *FileError {
	return &FileError{
		Type:       ErrorTypeBinaryFile,
		Path:       path,
		Operation:  "read",
		Underlying: fmt.Errorf("content looks binary"),
		Timestamp:  time.Now(),
	}
}

// isPermissionError checks if the error is a permission error
func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return errStr == "permission denied" || errStr == "access denied"
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// ExportError represents a failure while serializing the documentation database
type ExportError struct {
	Format     string
	Underlying error
}

// NewExportError creates a new export error
func NewExportError(format string, err error) *ExportError {
	return &ExportError{Format: format, Underlying: err}
}

// Error implements the error interface
func (e *ExportError) Error() string {
	return fmt.Sprintf("%s export failed: %v", e.Format, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ExportError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// ErrorOrNil returns nil when no errors were collected
func (e *MultiError) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
