package relay

import (
	"fmt"
)

// StatusError is returned when a relayer GET endpoint answers with a non 2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

// NewStatusError creates a new StatusError.
func NewStatusError(method, url string, code int, body []byte) *StatusError {
	return &StatusError{Method: method, URL: url, StatusCode: code, Body: string(body)}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// ChallengeDecodeError is returned when a 402 response does not carry a JSON body.
type ChallengeDecodeError struct {
	Body string
}

// NewChallengeDecodeError creates a new ChallengeDecodeError.
func NewChallengeDecodeError(body []byte) *ChallengeDecodeError {
	return &ChallengeDecodeError{Body: string(body)}
}

func (e *ChallengeDecodeError) Error() string {
	return fmt.Sprintf("402 response body is not JSON: %q", e.Body)
}
