package social

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned, without any network call, by a publisher whose
// credentials are missing.
var ErrNotConfigured = errors.New("credentials not configured")

const unknownError = "Unknown error"

// APIError is a non-success response from a platform API.
type APIError struct {
	Platform   Platform
	Stage      string // "Media", "Publish" for multi-step protocols
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	label := e.Platform.DisplayName()
	if e.Stage != "" {
		label += " " + e.Stage
	}
	return fmt.Sprintf("%s API error: %s", label, e.Message)
}

func notConfigured(p Platform) error {
	return fmt.Errorf("%s: %w", p, ErrNotConfigured)
}
