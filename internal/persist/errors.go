package persist

import "fmt"

// ParseError means the uploaded document is not syntactically valid JSON.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON document: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ImportError means the document parsed but could not be applied: it failed
// the schema check or decoding. Session state is left untouched.
type ImportError struct {
	Message string
	Cause   error
}

func (e *ImportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("import failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("import failed: %s", e.Message)
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}
