package types

import "github.com/go-playground/validator/v10"

// WorkMode is the candidate's preferred mode of work, distinct from the
// per-role JobLocation (the original form offered different option sets).
type WorkMode string

// WorkMode values match the original form options.
const (
	ModeWorkFromHome WorkMode = "Work from Home"
	ModeOnsite       WorkMode = "Onsite"
	ModeHybrid       WorkMode = "Hybrid"
)

// ParseWorkMode maps a serialized value to a WorkMode, falling back to
// Work from Home for unknown inputs.
func ParseWorkMode(s string) WorkMode {
	switch WorkMode(s) {
	case ModeOnsite, ModeHybrid:
		return WorkMode(s)
	default:
		return ModeWorkFromHome
	}
}

// DefaultTemperature is the generation temperature used until the caller
// chooses one.
const DefaultTemperature = 0.7

// Profile holds the scalar fields of the session: personal details, the
// target position, and the free-text blocks fed to the prompt builder.
type Profile struct {
	Name           string   `json:"name"`
	Email          string   `json:"email" validate:"omitempty,email"`
	LinkedIn       string   `json:"linkedin"`
	Portfolio      string   `json:"portfolio"`
	WorkMode       WorkMode `json:"work_mode" validate:"required"`
	Position       string   `json:"position"`
	JobDescription string   `json:"job_description"`
	Summary        string   `json:"summary"`
	TechSkills     string   `json:"tech_skills"`
	Temperature    float64  `json:"temperature" validate:"gte=0,lte=1"`
}

// NewProfile returns a Profile with the documented defaults.
func NewProfile() Profile {
	return Profile{
		WorkMode:    ModeWorkFromHome,
		Temperature: DefaultTemperature,
	}
}

// Validate checks the profile fields. All text fields may be empty here;
// task-specific required fields are enforced by the prompt builder instead.
func (p *Profile) Validate() error {
	return validator.New().Struct(p)
}
