package domain

import "fmt"

// FailureKind classifies why an extraction failed.
type FailureKind string

const (
	// FailureSyntax indicates the file could not be parsed.
	FailureSyntax FailureKind = "syntax-error"
	// FailureTooLarge indicates the file exceeds the size policy.
	FailureTooLarge FailureKind = "too-large"
	// FailureEncoding indicates the file is not in a supported encoding.
	FailureEncoding FailureKind = "unsupported-encoding"
	// FailureIO indicates the file could not be read.
	FailureIO FailureKind = "io-error"
)

// ExtractionError is a classified extraction failure for a single file.
// It never aborts a batch; the previous cache entry is retained but marked stale.
type ExtractionError struct {
	Kind FailureKind
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed (%s) for %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("extraction failed (%s) for %s", e.Kind, e.Path)
}

// Unwrap returns the underlying cause.
func (e *ExtractionError) Unwrap() error { return e.Err }

// Skip records a file excluded by policy. It is not an error and is not
// retried until the file's content changes.
type Skip struct {
	Path   string
	Reason string
}
