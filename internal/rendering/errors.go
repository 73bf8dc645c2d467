// Package rendering converts generated Markdown into styled HTML, rasterizes
// it to PDF through a named visual template, and produces the sanitized
// plain-text export.
package rendering

import "fmt"

// TemplateError represents a problem with a visual template: an unknown name
// or a failure executing the layout.
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a rasterization failure. The underlying engine's
// error is carried for the user-facing message; no partial PDF accompanies it.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
