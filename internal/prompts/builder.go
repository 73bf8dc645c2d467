package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ayomide/resumeforge/internal/session"
	"github.com/ayomide/resumeforge/internal/types"
)

// promptFile is the embedded file holding all generation task templates.
const promptFile = "generation.json"

// Field labels reported in validation refusals. These are the domain labels
// the original UI showed, not storage keys.
const (
	labelName          = "Full Name"
	labelEmail         = "Email Address"
	labelPosition      = "Position Applying For"
	labelDescription   = "Job Description"
	labelSummary       = "Career Goal/Summary"
	labelSkills        = "Technical Skills"
	labelWorkEntry     = "at least one Work Experience"
	labelEduEntry      = "at least one Education entry"
	labelRespOrProj    = "Responsibilities or Projects"
	labelGeneratedDoc  = "Generated Resume"
	labelRefineRequest = "Refinement Request"
)

// BuildSkillSuggestions returns the prompt asking for skills relevant to the
// pasted job description.
func BuildSkillSuggestions(snap session.Snapshot) (string, error) {
	if strings.TrimSpace(snap.Profile.JobDescription) == "" {
		return "", &ValidationError{Missing: []string{labelDescription}}
	}
	return Format(MustGet(promptFile, "skill_suggestions"), map[string]string{
		"Position":       snap.Profile.Position,
		"JobDescription": snap.Profile.JobDescription,
	}), nil
}

// BuildSummaryRefinement returns the prompt that tailors the career summary
// to the target position.
func BuildSummaryRefinement(snap session.Snapshot) (string, error) {
	missing := requireFields(snap.Profile, []string{labelSummary, labelDescription, labelPosition})
	if len(missing) > 0 {
		return "", &ValidationError{Missing: missing}
	}
	return Format(MustGet(promptFile, "summary_refinement"), map[string]string{
		"Position":       snap.Profile.Position,
		"Summary":        snap.Profile.Summary,
		"JobDescription": snap.Profile.JobDescription,
	}), nil
}

// BuildExperienceEnhancement returns the prompt that rewrites raw
// responsibilities and projects into quantified bullet points. At least one
// of the two text blocks must be present.
func BuildExperienceEnhancement(position, responsibilities, projects string) (string, error) {
	if strings.TrimSpace(responsibilities) == "" && strings.TrimSpace(projects) == "" {
		return "", &ValidationError{Missing: []string{labelRespOrProj}}
	}
	if position == "" {
		position = "General Role"
	}
	return Format(MustGet(promptFile, "experience_enhancement"), map[string]string{
		"Position":         position,
		"Responsibilities": responsibilities,
		"Projects":         projects,
	}), nil
}

// BuildResumeGeneration returns the full resume prompt. The mandated document
// skeleton, including the contact-info-line HTML fragment, is a contract the
// renderer's templates depend on.
func BuildResumeGeneration(snap session.Snapshot) (string, error) {
	missing := requireFields(snap.Profile, []string{
		labelName, labelEmail, labelPosition, labelDescription, labelSummary, labelSkills,
	})
	if len(snap.Work) == 0 {
		missing = append(missing, labelWorkEntry)
	}
	if len(snap.Education) == 0 {
		missing = append(missing, labelEduEntry)
	}
	if len(missing) > 0 {
		return "", &ValidationError{Missing: missing}
	}

	return Format(MustGet(promptFile, "resume_generation"), map[string]string{
		"Name":           snap.Profile.Name,
		"Email":          snap.Profile.Email,
		"LinkedIn":       snap.Profile.LinkedIn,
		"Portfolio":      snap.Profile.Portfolio,
		"WorkMode":       string(snap.Profile.WorkMode),
		"Position":       snap.Profile.Position,
		"JobDescription": snap.Profile.JobDescription,
		"Summary":        snap.Profile.Summary,
		"TechSkills":     snap.Profile.TechSkills,
		"WorkExperience": entryBlock(workBlocks(snap.Work)),
		"Education":      entryBlock(educationBlocks(snap.Education)),
		"Certifications": entryBlock(certificationBlocks(snap.Certs)),
		"Affiliations":   entryBlock(affiliationBlocks(snap.Affiliations)),
	}), nil
}

// BuildResumeRefinement returns the prompt that replaces the generated resume
// wholesale according to a free-text request. Never a diff.
func BuildResumeRefinement(snap session.Snapshot, request string) (string, error) {
	var missing []string
	if strings.TrimSpace(snap.Resume) == "" {
		missing = append(missing, labelGeneratedDoc)
	}
	if strings.TrimSpace(request) == "" {
		missing = append(missing, labelRefineRequest)
	}
	if len(missing) > 0 {
		return "", &ValidationError{Missing: missing}
	}
	return Format(MustGet(promptFile, "resume_refinement"), map[string]string{
		"Resume":  snap.Resume,
		"Request": request,
	}), nil
}

// BuildCoverLetter returns the cover letter prompt with brief work and
// education context lines.
func BuildCoverLetter(snap session.Snapshot) (string, error) {
	missing := requireFields(snap.Profile, []string{
		labelName, labelEmail, labelPosition, labelDescription, labelSummary,
	})
	if len(missing) > 0 {
		return "", &ValidationError{Missing: missing}
	}

	return Format(MustGet(promptFile, "cover_letter"), map[string]string{
		"Name":             snap.Profile.Name,
		"Email":            snap.Profile.Email,
		"LinkedIn":         snap.Profile.LinkedIn,
		"Portfolio":        snap.Profile.Portfolio,
		"WorkMode":         string(snap.Profile.WorkMode),
		"Position":         snap.Profile.Position,
		"JobDescription":   snap.Profile.JobDescription,
		"Summary":          snap.Profile.Summary,
		"TechSkills":       snap.Profile.TechSkills,
		"WorkContext":      workContext(snap.Work),
		"EducationContext": educationContext(snap.Education),
	}), nil
}

// ParseSkillList splits a comma-separated model reply into a deduplicated
// skill list, preserving first-seen order.
func ParseSkillList(text string) []string {
	seen := make(map[string]bool)
	var skills []string
	for _, part := range strings.Split(text, ",") {
		skill := strings.TrimSpace(part)
		if skill == "" || seen[skill] {
			continue
		}
		seen[skill] = true
		skills = append(skills, skill)
	}
	return skills
}

// requireFields maps the profile's task-relevant fields to their labels and
// collects the empty ones, in table order.
func requireFields(p types.Profile, labels []string) []string {
	values := map[string]string{
		labelName:        p.Name,
		labelEmail:       p.Email,
		labelPosition:    p.Position,
		labelDescription: p.JobDescription,
		labelSummary:     p.Summary,
		labelSkills:      p.TechSkills,
	}
	var missing []string
	for _, label := range labels {
		if strings.TrimSpace(values[label]) == "" {
			missing = append(missing, label)
		}
	}
	return missing
}

// Entry blocks are embedded as structured JSON so the model reads exact
// values. The structs below carry the legacy field names and deliberately
// omit entry IDs; marshaling is deterministic for a given snapshot.

type workBlock struct {
	Job              string `json:"job"`
	Organization     string `json:"organization"`
	Location         string `json:"location"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	Responsibilities string `json:"responsibilities"`
	Projects         string `json:"projects"`
}

type educationBlock struct {
	School   string  `json:"school"`
	GradDate string  `json:"grad_date"`
	Degree   string  `json:"degree"`
	Course   string  `json:"course"`
	GPA      float64 `json:"GPA"`
}

type certificationBlock struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type affiliationBlock struct {
	Body string `json:"body"`
	Date string `json:"date"`
}

func workBlocks(entries []types.WorkEntry) any {
	blocks := make([]workBlock, len(entries))
	for i, e := range entries {
		blocks[i] = workBlock{
			Job:              e.JobTitle,
			Organization:     e.Organization,
			Location:         string(e.Location),
			StartDate:        e.StartDate,
			EndDate:          e.EndDate,
			Responsibilities: e.Responsibilities,
			Projects:         e.Projects,
		}
	}
	return blocks
}

func educationBlocks(entries []types.EducationEntry) any {
	blocks := make([]educationBlock, len(entries))
	for i, e := range entries {
		blocks[i] = educationBlock{
			School:   e.School,
			GradDate: e.GraduationDate,
			Degree:   string(e.Degree),
			Course:   e.Course,
			GPA:      e.GPA,
		}
	}
	return blocks
}

func certificationBlocks(entries []types.CertificationEntry) any {
	blocks := make([]certificationBlock, len(entries))
	for i, e := range entries {
		blocks[i] = certificationBlock{
			Title:       e.Title,
			Link:        e.Link,
			Date:        e.DateIssued,
			Description: e.Description,
		}
	}
	return blocks
}

func affiliationBlocks(entries []types.AffiliationEntry) any {
	blocks := make([]affiliationBlock, len(entries))
	for i, e := range entries {
		blocks[i] = affiliationBlock{Body: e.Body, Date: e.DateJoined}
	}
	return blocks
}

// entryBlock renders a collection as indented JSON, mirroring the original's
// json.dumps(..., indent=2) embedding.
func entryBlock(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// Only unmarshalable types can fail here, and the blocks are plain
		// strings and floats.
		return "[]"
	}
	return string(data)
}

// workContext summarizes up to two roles as "title at org" for the cover
// letter prompt.
func workContext(entries []types.WorkEntry) string {
	if len(entries) == 0 {
		return "N/A"
	}
	limit := min(len(entries), 2)
	parts := make([]string, 0, limit)
	for _, e := range entries[:limit] {
		parts = append(parts, fmt.Sprintf("%s at %s", e.JobTitle, e.Organization))
	}
	return strings.Join(parts, ", ")
}

// educationContext summarizes the first degree for the cover letter prompt.
func educationContext(entries []types.EducationEntry) string {
	if len(entries) == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%s from %s", entries[0].Degree, entries[0].School)
}
