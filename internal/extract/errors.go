package extract

import "fmt"

// RateLimitError is the distinguished "too many requests" outcome from
// the model API. The batch orchestrator backs off linearly on it.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited by model api: %s", truncate(e.Message, 200))
}

// TransportError covers network failures, timeouts, and upstream 5xx
// responses. Retried with exponential backoff.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("model api transport: %s", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError means the model responded but its text carried no
// well-formed JSON object. Distinct from transport failures so the
// caller can tell a bad answer from an unreachable service.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model response: %s (raw: %s)", e.Reason, truncate(e.Raw, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
