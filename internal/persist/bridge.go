// Package persist serializes the full session state to the JSON document
// format the original exports used, and restores it. Field names are part of
// the compatibility surface: previously exported files must round-trip.
package persist

import (
	"bytes"
	"encoding/json"
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/ayomide/resumeforge/internal/session"
	"github.com/ayomide/resumeforge/internal/types"
)

//go:embed import_schema.json
var importSchema string

// Document is the wire format. Dates are already ISO-8601 strings in state,
// so serialization is identity. Entry IDs and the AI temperature are
// deliberately not part of the format.
type Document struct {
	Name           string                `json:"name"`
	Mail           string                `json:"mail"`
	LinkedIn       string                `json:"linkedin"`
	Portfolio      string                `json:"portfolio_link_website"`
	Location       string                `json:"location"`
	Position       string                `json:"position"`
	Description    string                `json:"description"`
	Summary        string                `json:"summary"`
	Tech           string                `json:"tech"`
	Work           []WorkRecord          `json:"work experience"`
	Education      []EducationRecord     `json:"Educational Experience"`
	Certifications []CertificationRecord `json:"Certifications"`
	Affiliations   []AffiliationRecord   `json:"Professional Affiliations"`
}

// WorkRecord is one work-experience entry on the wire.
type WorkRecord struct {
	Job              string `json:"job"`
	Organization     string `json:"organization"`
	Location         string `json:"location"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	Responsibilities string `json:"responsibilities"`
	Projects         string `json:"projects"`
}

// EducationRecord is one education entry on the wire.
type EducationRecord struct {
	School   string  `json:"school"`
	GradDate string  `json:"grad_date"`
	Degree   string  `json:"degree"`
	Course   string  `json:"course"`
	GPA      float64 `json:"GPA"`
}

// CertificationRecord is one certification entry on the wire.
type CertificationRecord struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// AffiliationRecord is one professional-affiliation entry on the wire.
type AffiliationRecord struct {
	Body string `json:"body"`
	Date string `json:"date"`
}

// Export serializes a session snapshot as an indented JSON document.
func Export(snap session.Snapshot) ([]byte, error) {
	doc := Document{
		Name:           snap.Profile.Name,
		Mail:           snap.Profile.Email,
		LinkedIn:       snap.Profile.LinkedIn,
		Portfolio:      snap.Profile.Portfolio,
		Location:       string(snap.Profile.WorkMode),
		Position:       snap.Profile.Position,
		Description:    snap.Profile.JobDescription,
		Summary:        snap.Profile.Summary,
		Tech:           snap.Profile.TechSkills,
		Work:           make([]WorkRecord, 0, len(snap.Work)),
		Education:      make([]EducationRecord, 0, len(snap.Education)),
		Certifications: make([]CertificationRecord, 0, len(snap.Certs)),
		Affiliations:   make([]AffiliationRecord, 0, len(snap.Affiliations)),
	}
	for _, e := range snap.Work {
		doc.Work = append(doc.Work, WorkRecord{
			Job:              e.JobTitle,
			Organization:     e.Organization,
			Location:         string(e.Location),
			StartDate:        e.StartDate,
			EndDate:          e.EndDate,
			Responsibilities: e.Responsibilities,
			Projects:         e.Projects,
		})
	}
	for _, e := range snap.Education {
		doc.Education = append(doc.Education, EducationRecord{
			School:   e.School,
			GradDate: e.GraduationDate,
			Degree:   string(e.Degree),
			Course:   e.Course,
			GPA:      e.GPA,
		})
	}
	for _, e := range snap.Certs {
		doc.Certifications = append(doc.Certifications, CertificationRecord{
			Title:       e.Title,
			Link:        e.Link,
			Date:        e.DateIssued,
			Description: e.Description,
		})
	}
	for _, e := range snap.Affiliations {
		doc.Affiliations = append(doc.Affiliations, AffiliationRecord{
			Body: e.Body,
			Date: e.DateJoined,
		})
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return data, nil
}

// Import parses and validates an uploaded document. Bad JSON is a ParseError;
// a schema violation or decode failure is an ImportError. Missing fields take
// the documented defaults when the document is applied.
func Import(data []byte) (*Document, error) {
	if !json.Valid(data) {
		var probe any
		err := json.Unmarshal(data, &probe)
		return nil, &ParseError{Cause: err}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(importSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, &ImportError{Message: "schema validation failed", Cause: err}
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, &ImportError{Message: strings.Join(details, "; ")}
	}

	var doc Document
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&doc); err != nil {
		return nil, &ImportError{Message: "failed to decode document", Cause: err}
	}
	return &doc, nil
}

// Apply replaces the session state with the document's contents. Generated
// content slots and skill suggestions are cleared: an import is a full state
// replacement, never a merge.
func Apply(doc *Document, st *session.State) {
	st.Profile = types.Profile{
		Name:           doc.Name,
		Email:          doc.Mail,
		LinkedIn:       doc.LinkedIn,
		Portfolio:      doc.Portfolio,
		WorkMode:       types.ParseWorkMode(doc.Location),
		Position:       doc.Position,
		JobDescription: doc.Description,
		Summary:        doc.Summary,
		TechSkills:     doc.Tech,
		Temperature:    types.DefaultTemperature,
	}

	work := make([]types.WorkEntry, 0, len(doc.Work))
	for _, r := range doc.Work {
		work = append(work, types.WorkEntry{
			ID:               uuid.New(),
			JobTitle:         r.Job,
			Organization:     r.Organization,
			Location:         types.ParseJobLocation(r.Location),
			StartDate:        r.StartDate,
			EndDate:          r.EndDate,
			Responsibilities: r.Responsibilities,
			Projects:         r.Projects,
		})
	}
	st.Work.Replace(work)

	education := make([]types.EducationEntry, 0, len(doc.Education))
	for _, r := range doc.Education {
		education = append(education, types.EducationEntry{
			ID:             uuid.New(),
			School:         r.School,
			Course:         r.Course,
			Degree:         types.ParseDegree(r.Degree),
			GraduationDate: r.GradDate,
			GPA:            r.GPA,
		})
	}
	st.Education.Replace(education)

	certs := make([]types.CertificationEntry, 0, len(doc.Certifications))
	for _, r := range doc.Certifications {
		certs = append(certs, types.CertificationEntry{
			ID:          uuid.New(),
			Title:       r.Title,
			Link:        r.Link,
			DateIssued:  r.Date,
			Description: r.Description,
		})
	}
	st.Certs.Replace(certs)

	affiliations := make([]types.AffiliationEntry, 0, len(doc.Affiliations))
	for _, r := range doc.Affiliations {
		affiliations = append(affiliations, types.AffiliationEntry{
			ID:         uuid.New(),
			Body:       r.Body,
			DateJoined: r.Date,
		})
	}
	st.Affiliations.Replace(affiliations)

	st.Resume = ""
	st.CoverLetter = ""
	st.SuggestedSkills = nil
}

// ExportFileName derives the download filename from the profile name the way
// the original did.
func ExportFileName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "my_resume_data.json"
	}
	return strings.ReplaceAll(name, " ", "_") + ".json"
}
