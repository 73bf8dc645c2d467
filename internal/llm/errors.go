package llm

import "fmt"

// TransportError represents a failure reaching the model service: network
// errors, timeouts, and non-2xx HTTP statuses. StatusCode is zero when no
// HTTP status was observed. The triggering task is aborted; there is no retry.
type TransportError struct {
	StatusCode int
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("model transport error (HTTP %d): %v", e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("model transport error: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// MalformedResponseError represents a 2xx response whose payload is missing
// the expected candidate/content/parts structure.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %s", e.Reason)
}
