package data

import (
	"fmt"
	"os"
	"strings"
)

// APIError represents a failure reported by an external collaborator.
type APIError struct {
	Service    string
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Service, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

// LoadKey resolves an API key: a key file if one is configured and readable,
// otherwise the named environment variable.
func LoadKey(keyFile, envVar string) (string, error) {
	if keyFile != "" {
		if raw, err := os.ReadFile(keyFile); err == nil {
			if key := strings.TrimSpace(string(raw)); key != "" {
				return key, nil
			}
		}
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("no API key: file %q unreadable and %s unset", keyFile, envVar)
}
