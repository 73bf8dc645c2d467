// Package types provides the domain entities shared across the resume builder:
// the four entry kinds, the profile scalars, and their enumerations.
package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PresentSentinel marks a role that is still held. It is stored in place of an
// end date and survives export/import verbatim.
const PresentSentinel = "Present"

// dateLayout is the ISO-8601 date format used for all entry dates.
const dateLayout = "2006-01-02"

// JobLocation is the work arrangement of a single role.
type JobLocation string

// JobLocation values match the original form options.
const (
	LocationOnsite JobLocation = "Onsite"
	LocationRemote JobLocation = "Remote"
	LocationHybrid JobLocation = "Hybrid"
)

// ParseJobLocation maps a serialized value to a JobLocation, falling back to
// Onsite for unknown inputs so imported documents never fail on this field.
func ParseJobLocation(s string) JobLocation {
	switch JobLocation(s) {
	case LocationRemote, LocationHybrid:
		return JobLocation(s)
	default:
		return LocationOnsite
	}
}

// Degree is the qualification awarded for an education entry.
type Degree string

// Degree values match the original form options.
const (
	DegreeBSc   Degree = "BSc"
	DegreeND    Degree = "ND"
	DegreeHND   Degree = "HND"
	DegreeMSc   Degree = "MSc"
	DegreePhD   Degree = "PhD"
	DegreeOther Degree = "Other"
)

// ParseDegree maps a serialized value to a Degree, falling back to BSc.
func ParseDegree(s string) Degree {
	switch Degree(s) {
	case DegreeND, DegreeHND, DegreeMSc, DegreePhD, DegreeOther:
		return Degree(s)
	default:
		return DegreeBSc
	}
}

// WorkEntry is one role in the work-experience collection.
type WorkEntry struct {
	ID               uuid.UUID   `json:"id"`
	JobTitle         string      `json:"job" validate:"required"`
	Organization     string      `json:"organization" validate:"required"`
	Location         JobLocation `json:"location" validate:"required,oneof=Onsite Remote Hybrid"`
	StartDate        string      `json:"start_date" validate:"required"`
	EndDate          string      `json:"end_date" validate:"required"`
	Responsibilities string      `json:"responsibilities"`
	Projects         string      `json:"projects"`
}

// Validate checks the entry fields and enforces that the end date, when it is
// not the Present sentinel, is on or after the start date.
func (e *WorkEntry) Validate() error {
	if err := validator.New().Struct(e); err != nil {
		return err
	}
	start, err := time.Parse(dateLayout, e.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", e.StartDate, err)
	}
	if e.EndDate == PresentSentinel {
		return nil
	}
	end, err := time.Parse(dateLayout, e.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", e.EndDate, err)
	}
	if end.Before(start) {
		return fmt.Errorf("end date %s is before start date %s", e.EndDate, e.StartDate)
	}
	return nil
}

// EducationEntry is one degree in the education collection.
type EducationEntry struct {
	ID             uuid.UUID `json:"id"`
	School         string    `json:"school" validate:"required"`
	Course         string    `json:"course" validate:"required"`
	Degree         Degree    `json:"degree" validate:"required,oneof=BSc ND HND MSc PhD Other"`
	GraduationDate string    `json:"grad_date" validate:"required"`
	GPA            float64   `json:"GPA" validate:"gte=0"`
}

// Validate checks the entry fields.
func (e *EducationEntry) Validate() error {
	return validator.New().Struct(e)
}

// CertificationEntry is one certificate in the certifications collection.
// The link is carried verbatim and never validated, matching the original.
type CertificationEntry struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title" validate:"required"`
	Link        string    `json:"link"`
	DateIssued  string    `json:"date" validate:"required"`
	Description string    `json:"description"`
}

// Validate checks the entry fields.
func (e *CertificationEntry) Validate() error {
	return validator.New().Struct(e)
}

// AffiliationEntry is one membership in the professional-affiliations collection.
type AffiliationEntry struct {
	ID         uuid.UUID `json:"id"`
	Body       string    `json:"body" validate:"required"`
	DateJoined string    `json:"date" validate:"required"`
}

// Validate checks the entry fields.
func (e *AffiliationEntry) Validate() error {
	return validator.New().Struct(e)
}
