// Package server provides the HTTP REST API for the resume builder.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/ayomide/resumeforge/internal/llm"
	"github.com/ayomide/resumeforge/internal/persist"
	"github.com/ayomide/resumeforge/internal/prompts"
	"github.com/ayomide/resumeforge/internal/rendering"
)

// ErrSessionNotFound indicates no live session has the requested ID.
type ErrSessionNotFound struct {
	SessionID uuid.UUID
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

// ErrEntryNotFound indicates the entry ID does not exist in its collection.
type ErrEntryNotFound struct {
	EntryID uuid.UUID
}

func (e *ErrEntryNotFound) Error() string {
	return fmt.Sprintf("entry not found: %s", e.EntryID)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error. All
// failures are terminal for the triggering action; none crash the process.
func HTTPStatus(err error) int {
	var (
		validation *prompts.ValidationError
		transport  *llm.TransportError
		malformed  *llm.MalformedResponseError
		tmplErr    *rendering.TemplateError
		renderErr  *rendering.RenderError
		parseErr   *persist.ParseError
		importErr  *persist.ImportError
		notFound   *ErrSessionNotFound
		entryMiss  *ErrEntryNotFound
		reqInvalid *ErrValidation
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &reqInvalid),
		errors.As(err, &parseErr), errors.As(err, &importErr),
		errors.As(err, &tmplErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &entryMiss):
		return http.StatusNotFound
	case errors.As(err, &transport), errors.As(err, &malformed):
		return http.StatusBadGateway
	case errors.As(err, &renderErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
