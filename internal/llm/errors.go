package llm

import (
	"fmt"
	"time"
)

// ProviderError indicates the LLM backend returned a non-success HTTP
// status. The body is kept for diagnosis.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.Status, e.Body)
}

// ParseError indicates the model's output was not valid JSON. Raw carries
// the offending text so a corrupted response can be inspected later.
type ParseError struct {
	Provider string
	Raw      string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s returned invalid JSON: %v (raw: %s)", e.Provider, e.Err, truncate(e.Raw, 500))
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// TimeoutError indicates the call exceeded its deadline: the model was slow.
type TimeoutError struct {
	Provider string
	Timeout  time.Duration
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s request timed out after %s", e.Provider, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// ConnectionError indicates the backend process was unreachable.
type ConnectionError struct {
	Provider string
	URL      string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot reach %s at %s: %v", e.Provider, e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// CancelledError indicates the surrounding request scope was torn down
// while the call was in flight: the caller hung up, not the model.
type CancelledError struct {
	Provider string
	Err      error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("%s call cancelled by the calling scope", e.Provider)
}

func (e *CancelledError) Unwrap() error {
	return e.Err
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
