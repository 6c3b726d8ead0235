package analysis

import "fmt"

// ErrorKind classifies why an analysis could not be produced
type ErrorKind string

const (
	KindNetwork         ErrorKind = "network"
	KindMissingJSON     ErrorKind = "missing_json"
	KindMalformedJSON   ErrorKind = "malformed_json"
	KindInvalidResponse ErrorKind = "invalid_response"
)

// Error is returned by providers for any failure to analyze a ticker
type Error struct {
	Ticker string
	Kind   ErrorKind
	Err    error
}

// Error implements the error interface
func (e *Error) Error() string {
	var reason string
	switch e.Kind {
	case KindNetwork:
		reason = fmt.Sprintf("analysis request failed: %v", e.Err)
	case KindMissingJSON:
		reason = "no valid JSON block found in the model response"
	case KindMalformedJSON:
		reason = fmt.Sprintf("failed to parse the JSON response from the model: %v", e.Err)
	default:
		reason = fmt.Sprintf("invalid analysis response: %v", e.Err)
	}

	if e.Ticker == "" {
		return reason
	}
	return fmt.Sprintf("failed to analyze %s: %s", e.Ticker, reason)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}
