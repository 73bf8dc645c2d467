package prompts

import (
	"fmt"
	"strings"
)

// ValidationError reports the required fields still missing for a generation
// task. The model is never called while one of these is outstanding.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}
